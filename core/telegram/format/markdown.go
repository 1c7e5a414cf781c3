// Package format holds text helpers for Telegram parse modes.
package format

import "regexp"

var mdRe = regexp.MustCompile("([_*`\\[])")

// EscapeMD escapes user-provided text for the legacy Markdown parse mode.
func EscapeMD(text string) string {
	return mdRe.ReplaceAllString(text, `\$1`)
}
