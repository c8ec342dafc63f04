package content

// SampleSize is the number of leading bytes inspected when classifying content.
// It matches Git's own heuristic.
const SampleSize = 8000

// IsBinaryContent reports whether content looks binary: a null byte within the
// first SampleSize bytes. Content starting with a UTF-16 or UTF-32 byte order mark
// is treated as text.
func IsBinaryContent(content []byte) bool {
	if hasWideBOM(content) {
		return false
	}

	sampleSize := min(len(content), SampleSize)
	for i := range sampleSize {
		if content[i] == 0 {
			return true
		}
	}
	return false
}

func hasWideBOM(content []byte) bool {
	return wideEncoding(content) != nil
}
