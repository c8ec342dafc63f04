package toolbox

import (
	"context"
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"

	"github.com/Cyclone1070/rofs/internal/tool"
	"github.com/Cyclone1070/rofs/internal/tool/errutil"
)

// KindUnknownTool is the failure kind for a name that is not registered.
const KindUnknownTool errutil.Kind = "unknown_tool"

// Handler runs one operation with undecoded arguments.
type Handler func(ctx context.Context, args map[string]any) (any, error)

// Descriptor describes a registered operation.
type Descriptor struct {
	Name        string
	Declaration tool.Declaration
	Handler     Handler
}

// Failure is the structured error handed to the host.
type Failure struct {
	Kind    errutil.Kind `json:"kind"`
	Message string       `json:"message"`
	cause   error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

func (f *Failure) Unwrap() error { return f.cause }

// NewFailure classifies err as a Failure.
func NewFailure(err error) *Failure {
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: errutil.KindOf(err), Message: err.Error(), cause: err}
}

// Registry maps operation names to descriptors. It is populated once at start
// and read-only afterwards.
type Registry struct {
	tools map[string]Descriptor
	order []string
}

// NewRegistry returns a registry holding glob, grep, glance and view bound to tb.
func NewRegistry(tb *Toolbox) *Registry {
	r := &Registry{tools: make(map[string]Descriptor)}
	for _, d := range []Descriptor{
		{Name: "glob", Declaration: globDeclaration, Handler: bind(tb.Glob)},
		{Name: "grep", Declaration: grepDeclaration, Handler: bind(tb.Grep)},
		{Name: "glance", Declaration: glanceDeclaration, Handler: bind(tb.Glance)},
		{Name: "view", Declaration: viewDeclaration, Handler: bind(tb.View)},
	} {
		if err := r.Register(d); err != nil {
			panic(err)
		}
	}
	return r
}

// Register adds a descriptor. Names must be unique.
func (r *Registry) Register(d Descriptor) error {
	if d.Name == "" || d.Handler == nil {
		return fmt.Errorf("descriptor requires a name and a handler")
	}
	if _, exists := r.tools[d.Name]; exists {
		return fmt.Errorf("tool %q already registered", d.Name)
	}
	r.tools[d.Name] = d
	r.order = append(r.order, d.Name)
	return nil
}

// Lookup returns the descriptor registered under name.
func (r *Registry) Lookup(name string) (Descriptor, bool) {
	d, ok := r.tools[name]
	return d, ok
}

// Declarations returns every declaration in registration order.
func (r *Registry) Declarations() []tool.Declaration {
	decls := make([]tool.Declaration, 0, len(r.order))
	for _, name := range r.order {
		decls = append(decls, r.tools[name].Declaration)
	}
	return decls
}

// Invoke decodes args, runs the named operation and returns its response.
// Every error is returned as a *Failure.
func (r *Registry) Invoke(ctx context.Context, name string, args map[string]any) (any, error) {
	d, ok := r.tools[name]
	if !ok {
		return nil, &Failure{Kind: KindUnknownTool, Message: "no tool named " + name}
	}
	resp, err := d.Handler(ctx, args)
	if err != nil {
		return nil, NewFailure(err)
	}
	return resp, nil
}

// bind adapts a typed operation into a Handler, decoding arguments with
// mapstructure. Unknown keys are rejected.
func bind[Req, Resp any](run func(context.Context, Req) (Resp, error)) Handler {
	return func(ctx context.Context, args map[string]any) (any, error) {
		var req Req
		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			ErrorUnused: true,
			Result:      &req,
		})
		if err != nil {
			return nil, err
		}
		if err := decoder.Decode(args); err != nil {
			return nil, &errutil.InvalidArgumentError{Field: "arguments", Reason: err.Error()}
		}
		return run(ctx, req)
	}
}
