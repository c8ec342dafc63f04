package content

import "unicode/utf8"

// TruncatedSuffix is appended to lines shortened by TruncateLine.
const TruncatedSuffix = "...[truncated]"

// SplitLines splits content into lines, handling both \n and \r\n line endings.
// If the content ends with a newline sequence, it does NOT return a trailing empty string.
func SplitLines(content string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 1
		} else if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			lines = append(lines, content[start:i])
			start = i + 2
			i++
		}
	}
	if start < len(content) {
		lines = append(lines, content[start:])
	}
	return lines
}

// TrimLineEnding strips one trailing \n or \r\n.
func TrimLineEnding(line []byte) []byte {
	n := len(line)
	if n > 0 && line[n-1] == '\n' {
		n--
		if n > 0 && line[n-1] == '\r' {
			n--
		}
	}
	return line[:n]
}

// TruncateLine shortens line to at most maxLen bytes without splitting a UTF-8
// sequence, appending TruncatedSuffix. maxLen <= 0 disables truncation.
func TruncateLine(line string, maxLen int) (string, bool) {
	if maxLen <= 0 || len(line) <= maxLen {
		return line, false
	}
	cut := maxLen
	for cut > 0 && !utf8.RuneStart(line[cut]) {
		cut--
	}
	return line[:cut] + TruncatedSuffix, true
}
