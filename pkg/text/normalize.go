package text

import "strings"

// NormalizeLineEndings strips every carriage return so content that only differs
// in platform line endings compares equal. Applying it twice is a no-op.
func NormalizeLineEndings(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	return strings.ReplaceAll(content, "\r", "")
}
