package evaluator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

type ValueType string

const (
	NUMBER_VALUE = "NUMBER"
	STRING_VALUE = "STRING"
	COLOR_VALUE  = "COLOR"
	BOOL_VALUE   = "BOOL"
	NULL_VALUE   = "NULL"
	LIST_VALUE   = "LIST"
)

// Value is the runtime representation of a style-sheet expression result.
type Value interface {
	Type() ValueType
	Inspect() string
}

// Number carries a numeric value with an optional CSS unit.
type Number struct {
	Value float64
	Unit  string
}

func (n *Number) Type() ValueType { return NUMBER_VALUE }
func (n *Number) Inspect() string { return formatNumber(n.Value) + n.Unit }

// Str is a string value. Quoted strings render with double quotes;
// unquoted strings cover CSS keywords and pass-through text.
type Str struct {
	Value  string
	Quoted bool
}

func (s *Str) Type() ValueType { return STRING_VALUE }
func (s *Str) Inspect() string {
	if s.Quoted {
		return `"` + s.Value + `"`
	}
	return s.Value
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}

func (c *Color) Type() ValueType { return COLOR_VALUE }
func (c *Color) Inspect() string { return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B) }

type Bool struct {
	Value bool
}

func (b *Bool) Type() ValueType { return BOOL_VALUE }
func (b *Bool) Inspect() string { return strconv.FormatBool(b.Value) }

// Null renders as nothing; a declaration whose value is null is dropped.
type Null struct{}

func (n *Null) Type() ValueType { return NULL_VALUE }
func (n *Null) Inspect() string { return "" }

// List is a space- or comma-separated sequence of values.
type List struct {
	Items     []Value
	Separator string
}

func (l *List) Type() ValueType { return LIST_VALUE }
func (l *List) Inspect() string {
	parts := make([]string, 0, len(l.Items))
	for _, item := range l.Items {
		parts = append(parts, item.Inspect())
	}
	return strings.Join(parts, l.Separator)
}

var (
	TRUE  = &Bool{Value: true}
	FALSE = &Bool{Value: false}
	NULL  = &Null{}
)

func nativeBool(v bool) *Bool {
	if v {
		return TRUE
	}
	return FALSE
}

// isTruthy follows the style-sheet rules: false and null are falsy,
// everything else is truthy.
func isTruthy(v Value) bool {
	switch v {
	case FALSE, NULL:
		return false
	}
	if b, ok := v.(*Bool); ok {
		return b.Value
	}
	if _, ok := v.(*Null); ok {
		return false
	}
	return true
}

// formatNumber prints a float the way CSS expects: no exponent, at most
// five decimal places, trailing zeros trimmed.
func formatNumber(v float64) string {
	rounded := math.Round(v*1e5) / 1e5
	if rounded == 0 {
		rounded = 0 // avoid "-0"
	}
	return strconv.FormatFloat(rounded, 'f', -1, 64)
}

// interpText is the textual form a value takes inside interpolation:
// quoted strings lose their quotes, null disappears, lists unquote
// their items.
func interpText(v Value) string {
	switch v := v.(type) {
	case *Str:
		return v.Value
	case *List:
		parts := make([]string, 0, len(v.Items))
		for _, item := range v.Items {
			parts = append(parts, interpText(item))
		}
		return strings.Join(parts, v.Separator)
	}
	return v.Inspect()
}
