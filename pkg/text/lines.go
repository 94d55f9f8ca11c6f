package text

import (
	"strings"
)

// SplitLines splits content on "\n", "\r\n" and "\r". Line terminators are
// dropped and a trailing terminator does not produce an empty final line.
func SplitLines(content string) []string {
	var lines []string
	for len(content) > 0 {
		i := strings.IndexAny(content, "\r\n")
		if i < 0 {
			lines = append(lines, content)
			break
		}
		lines = append(lines, content[:i])
		if content[i] == '\r' && i+1 < len(content) && content[i+1] == '\n' {
			i++
		}
		content = content[i+1:]
	}
	return lines
}

// JoinLines joins lines with "\n" and terminates the result with "\n"
func JoinLines(lines []string) string {
	return strings.Join(lines, "\n") + "\n"
}

// NormalizeLine trims surrounding whitespace and lowercases line
func NormalizeLine(line string) string {
	return strings.ToLower(strings.TrimSpace(line))
}

// Decode converts raw file bytes to text. In lenient mode invalid UTF-8
// sequences are dropped.
func Decode(data []byte, lenient bool) string {
	if lenient {
		return strings.ToValidUTF8(string(data), "")
	}
	return string(data)
}
