// internal/app/system/htmlsanitize/htmlsanitize.go

// Package htmlsanitize strips dangerous markup from user-supplied rich
// text (task and project descriptions) before it is stored.
package htmlsanitize

import "github.com/microcosm-cc/bluemonday"

// policy allows basic formatting, links, and tables; scripts, event
// handlers, and javascript: URLs are removed.
var policy = func() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("colspan", "rowspan").OnElements("td", "th")
	return p
}()

// Sanitize returns s with all disallowed HTML removed. Plain text passes
// through unchanged.
func Sanitize(s string) string {
	return policy.Sanitize(s)
}
