package discovery

import (
	"regexp"
	"strings"
)

// headerLines is the number of leading lines dropped from every body. It
// assumes a fixed title/author/board header; a body without that header loses
// its own first lines instead.
const headerLines = 3

// Whitespace as matched by a Unicode-aware \s, which Go's \s is not. PTT
// bodies routinely use full-width spaces on otherwise blank lines.
const space = `[\s\v\x{1c}-\x{1f}\x{85}\p{Z}]`

var (
	reTimestampLine = regexp.MustCompile(`(?m)^時間(?:[ \t\x{3000}].*)?\n`)
	reEditLogLine   = regexp.MustCompile(`(?m)^.*※ 編輯:.*\n`)
	reBlankLines    = regexp.MustCompile(`\n` + space + `*\n`)
	reSignature     = regexp.MustCompile(`(?ms)^--$.*`)
)

// Normalize runs the body cleanup passes in order and trims the result.
func Normalize(text string) string {
	text = StripTimestampLine(text)
	text = StripEditLog(text)
	text = CollapseBlankLines(text)
	text = StripHeaderLines(text)
	text = StripSignature(text)
	return strings.TrimSpace(text)
}

// StripTimestampLine deletes lines that start with the 時間 label. The word
// used inside a sentence is left alone.
func StripTimestampLine(text string) string {
	return reTimestampLine.ReplaceAllString(text, "")
}

// StripEditLog deletes "※ 編輯:" revision lines.
func StripEditLog(text string) string {
	return reEditLogLine.ReplaceAllString(text, "")
}

// CollapseBlankLines reduces any run of blank lines to a single blank line.
func CollapseBlankLines(text string) string {
	return reBlankLines.ReplaceAllString(text, "\n\n")
}

// StripHeaderLines deletes the first headerLines newline-terminated lines. A
// final line with no trailing newline is never removed.
func StripHeaderLines(text string) string {
	for n := 0; n < headerLines; n++ {
		i := strings.IndexByte(text, '\n')
		if i < 0 {
			break
		}
		text = text[i+1:]
	}
	return text
}

// StripSignature deletes a "--" separator line and everything after it.
func StripSignature(text string) string {
	return reSignature.ReplaceAllString(text, "")
}
