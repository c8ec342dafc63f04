// Package main provides the rofs command-line host for the read-only
// filesystem tools.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
)

func main() {
	if err := NewApp().Execute(context.Background()); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
