package search

import (
	"net/url"
	"strings"
)

// ResultsPath is where a successful text search navigates.
const ResultsPath = "/cars"

// Param is a single query parameter. Order is preserved when building URLs.
type Param struct {
	Key   string
	Value string
}

// Navigator moves the user to another page. Navigation is fire-and-forget.
type Navigator interface {
	Navigate(path string, params []Param)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(path string, params []Param)

func (f NavigatorFunc) Navigate(path string, params []Param) { f(path, params) }

// BuildURL joins path and params into a relative URL, encoding keys and
// values with EncodeComponent.
func BuildURL(path string, params []Param) string {
	if len(params) == 0 {
		return path
	}
	var b strings.Builder
	b.WriteString(path)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(EncodeComponent(p.Key))
		b.WriteByte('=')
		b.WriteString(EncodeComponent(p.Value))
	}
	return b.String()
}

// EncodeComponent percent-encodes s for use as a query key or value. Spaces
// become %20 rather than '+'.
func EncodeComponent(s string) string {
	// QueryEscape turns a literal '+' into %2B, so every remaining '+' is a space.
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
