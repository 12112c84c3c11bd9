package eidos

import (
	"math"
	"strconv"
	"strings"
)

// Encode renders a named constant as a single Eidos definition of the form
// key=<literal>, suitable for the engine's -d flag. It is pure and
// deterministic.
func Encode(key string, v Value) string {
	return key + "=" + Literal(v)
}

// Literal renders the value as an Eidos literal expression. Scalars and
// vectors become a type constructor wrapping a comma-joined c(...) list with
// no interior whitespace; matrices additionally wrap that in a matrix(...)
// call carrying the original shape and a fill-by-row flag.
//
//	asString(c('a','b'))
//	matrix(asInteger(c(1,1,2,2)), nrow=2, ncol=2, byrow=T)
func Literal(v Value) string {
	var b strings.Builder
	b.WriteString(v.kind.ctor())
	b.WriteString("(c(")
	for i := 0; i < v.Len(); i++ {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(v.elem(i))
	}
	b.WriteString("))")
	if !v.matrix {
		return b.String()
	}
	return "matrix(" + b.String() +
		", nrow=" + strconv.Itoa(v.rows) +
		", ncol=" + strconv.Itoa(v.cols) + ", byrow=T)"
}

// elem renders the i-th flattened element as an Eidos scalar literal.
func (v Value) elem(i int) string {
	switch v.kind {
	case String:
		return quoteString(v.strs[i])
	case Logical:
		if v.logicals[i] {
			return "T"
		}
		return "F"
	case Integer:
		return strconv.FormatInt(v.ints[i], 10)
	default:
		return formatFloat(v.floats[i])
	}
}

// quoteString single-quotes a string literal, escaping the quote character
// and backslashes so arbitrary caller text cannot break out of the literal.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	b.WriteByte('\'')
	return b.String()
}

// formatFloat renders a float in the shortest form Eidos parses back to the
// same value. Non-finite values map to the Eidos INF/NAN constants.
func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NAN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
