package eidos

import "fmt"

// Kind identifies the Eidos element type of a Value.
type Kind int

const (
	String Kind = iota
	Logical
	Integer
	Float
)

// ctor returns the Eidos type-constructor function for the kind.
func (k Kind) ctor() string {
	switch k {
	case String:
		return "asString"
	case Logical:
		return "asLogical"
	case Integer:
		return "asInteger"
	case Float:
		return "asFloat"
	}
	panic(fmt.Sprintf("eidos: unknown kind %d", int(k)))
}

// String returns a human-readable name for the kind.
func (k Kind) String() string {
	switch k {
	case String:
		return "string"
	case Logical:
		return "logical"
	case Integer:
		return "integer"
	case Float:
		return "float"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Value is a typed constant destined for a model's namespace: a scalar, a
// 1-D vector, or a rectangular 2-D matrix of one element kind. Elements are
// stored flattened in row-major order. The zero Value is a string scalar "".
type Value struct {
	kind   Kind
	vector bool // tracked so a one-element vector still stages as a sequence
	matrix bool
	rows   int // matrix only
	cols   int // matrix only

	strs     []string
	logicals []bool
	ints     []int64
	floats   []float64
}

// scalar reports whether the value is a single element (as opposed to a
// vector or matrix). A length-one vector is not a scalar.
func (v Value) scalar() bool { return !v.matrix && !v.vector }

// Kind returns the element kind.
func (v Value) Kind() Kind { return v.kind }

// IsMatrix reports whether the value is a 2-D matrix.
func (v Value) IsMatrix() bool { return v.matrix }

// Dims returns the matrix shape. Both are zero for scalars and vectors.
func (v Value) Dims() (rows, cols int) { return v.rows, v.cols }

// Len returns the flattened element count.
func (v Value) Len() int {
	switch v.kind {
	case String:
		return len(v.strs)
	case Logical:
		return len(v.logicals)
	case Integer:
		return len(v.ints)
	default:
		return len(v.floats)
	}
}

// StringVal returns a string scalar.
func StringVal(s string) Value { return Value{kind: String, strs: []string{s}} }

// LogicalVal returns a logical scalar.
func LogicalVal(b bool) Value { return Value{kind: Logical, logicals: []bool{b}} }

// IntVal returns an integer scalar.
func IntVal(i int64) Value { return Value{kind: Integer, ints: []int64{i}} }

// FloatVal returns a float scalar. A whole number stays float-typed; use
// this constructor when the model expects a float even for values like 2.0.
func FloatVal(f float64) Value { return Value{kind: Float, floats: []float64{f}} }

// StringVec returns a string vector preserving element order.
func StringVec(vs []string) Value {
	return Value{kind: String, vector: true, strs: append([]string(nil), vs...)}
}

// LogicalVec returns a logical vector preserving element order.
func LogicalVec(vs []bool) Value {
	return Value{kind: Logical, vector: true, logicals: append([]bool(nil), vs...)}
}

// IntVec returns an integer vector preserving element order.
func IntVec(vs []int64) Value {
	return Value{kind: Integer, vector: true, ints: append([]int64(nil), vs...)}
}

// FloatVec returns a float vector preserving element order.
func FloatVec(vs []float64) Value {
	return Value{kind: Float, vector: true, floats: append([]float64(nil), vs...)}
}

// checkShape validates that a matrix is non-empty and rectangular.
func checkShape[T any](rows [][]T) (r, c int, err error) {
	if len(rows) == 0 || len(rows[0]) == 0 {
		return 0, 0, fmt.Errorf("matrix must have at least one row and one column")
	}
	c = len(rows[0])
	for i, row := range rows {
		if len(row) != c {
			return 0, 0, fmt.Errorf("matrix rows must be rectangular: row 0 has %d columns, row %d has %d", c, i, len(row))
		}
	}
	return len(rows), c, nil
}

// flatten appends rows in row-major order.
func flatten[T any](rows [][]T) []T {
	out := make([]T, 0, len(rows)*len(rows[0]))
	for _, row := range rows {
		out = append(out, row...)
	}
	return out
}

// StringMatrix returns a rectangular string matrix stored row-major.
func StringMatrix(rows [][]string) (Value, error) {
	r, c, err := checkShape(rows)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: String, matrix: true, rows: r, cols: c, strs: flatten(rows)}, nil
}

// LogicalMatrix returns a rectangular logical matrix stored row-major.
func LogicalMatrix(rows [][]bool) (Value, error) {
	r, c, err := checkShape(rows)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: Logical, matrix: true, rows: r, cols: c, logicals: flatten(rows)}, nil
}

// IntMatrix returns a rectangular integer matrix stored row-major.
func IntMatrix(rows [][]int64) (Value, error) {
	r, c, err := checkShape(rows)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: Integer, matrix: true, rows: r, cols: c, ints: flatten(rows)}, nil
}

// FloatMatrix returns a rectangular float matrix stored row-major.
func FloatMatrix(rows [][]float64) (Value, error) {
	r, c, err := checkShape(rows)
	if err != nil {
		return Value{}, err
	}
	return Value{kind: Float, matrix: true, rows: r, cols: c, floats: flatten(rows)}, nil
}

// Flattened returns the value as native Go data for the side-channel
// payload: a bare scalar for scalars, a flat row-major slice otherwise.
func (v Value) Flattened() any {
	if v.scalar() {
		switch v.kind {
		case String:
			return v.strs[0]
		case Logical:
			return v.logicals[0]
		case Integer:
			return v.ints[0]
		default:
			return v.floats[0]
		}
	}
	switch v.kind {
	case String:
		return v.strs
	case Logical:
		return v.logicals
	case Integer:
		return v.ints
	default:
		return v.floats
	}
}
