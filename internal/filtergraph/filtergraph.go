package filtergraph

import (
	"strconv"
	"strings"
)

// Arg is one key=value (or bare value) argument of a filter stage.
type Arg struct {
	Key   string
	Value string
}

// Filter is a typed descriptor of one filter stage. Descriptors are held as
// values and rendered to the engine's filter-string grammar only at the end,
// which keeps escaping in one place instead of scattered across call sites.
type Filter struct {
	Name string
	Args []Arg
}

// Chain is an ordered list of filter stages applied to a single stream.
type Chain []Filter

// NewFilter builds a filter descriptor from alternating key/value pairs; an
// empty key renders as a bare positional value.
func NewFilter(name string, args ...Arg) Filter {
	return Filter{Name: name, Args: args}
}

// Render serializes the filter to the grammar the engine consumes:
// name=key1=v1:key2=v2, with stages joined by commas at the chain level.
func (f Filter) Render() string {
	var b strings.Builder
	b.WriteString(f.Name)
	for i, arg := range f.Args {
		if i == 0 {
			b.WriteByte('=')
		} else {
			b.WriteByte(':')
		}
		if arg.Key != "" {
			b.WriteString(arg.Key)
			b.WriteByte('=')
		}
		b.WriteString(Escape(arg.Value))
	}
	return b.String()
}

// Render serializes the chain, comma-joining its stages.
func (c Chain) Render() string {
	parts := make([]string, 0, len(c))
	for _, f := range c {
		parts = append(parts, f.Render())
	}
	return strings.Join(parts, ",")
}

// Escape protects characters the filter-string grammar treats as separators.
// This is a string-safety contract, not a media contract: values containing
// colons or commas (expressions, file paths) must survive embedding.
func Escape(value string) string {
	if !strings.ContainsAny(value, `\:,'[];`) {
		return value
	}
	var b strings.Builder
	b.Grow(len(value) + 8)
	for _, r := range value {
		switch r {
		case '\\', ':', ',', '\'', '[', ']', ';':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}

// FormatSeconds renders a timestamp for embedding in a filter expression,
// trimming trailing zeros so rendered graphs stay readable.
func FormatSeconds(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// FormatValue renders a numeric filter parameter with two decimals, the
// precision the engine's loudness statistics are reported at.
func FormatValue(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
