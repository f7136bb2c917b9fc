// Package callout rewrites two authoring conventions in a markdown token
// sequence into styled, collapsible blocks.
//
// Callouts are blockquotes whose first line carries a marker:
//
//	> [!warning]- Title
//	> Body text.
//
// Admonitions are fenced code blocks with an "ad-" info string and an
// optional header of key:value lines:
//
//	```ad-tip
//	title: Pro tip
//	Body text.
//	```
//
// Transform retags matching tokens in place (callout_open, callout_close,
// admonition_block) and the functions in render.go turn them into markup.
package callout
