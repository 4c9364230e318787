package questiongen

import "strings"

const fenceMarker = "```"

// stripFence extracts the body of the first fenced code block. A fence
// opens with three backticks followed by either a language tag or a
// newline; anything else is left alone. An unterminated fence yields the
// remainder of the text. The result is always trimmed.
func stripFence(text string) string {
	start := strings.Index(text, fenceMarker)
	if start < 0 {
		return strings.TrimSpace(text)
	}

	rest := text[start+len(fenceMarker):]
	tagLen := 0
	for tagLen < len(rest) && isTagByte(rest[tagLen]) {
		tagLen++
	}

	switch {
	case tagLen > 0:
		rest = rest[tagLen:]
	case strings.HasPrefix(rest, "\n"), strings.HasPrefix(rest, "\r\n"):
		// bare fence
	default:
		return strings.TrimSpace(text)
	}

	if end := strings.Index(rest, fenceMarker); end >= 0 {
		rest = rest[:end]
	}
	return strings.TrimSpace(rest)
}

func isTagByte(c byte) bool {
	return c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
		c == '-' || c == '_' || c == '+'
}
