package eidos

import (
	"fmt"
	"math"

	"github.com/zclconf/go-cty/cty"
)

// FromCty bridges an HCL-evaluated cty.Value into a typed eidos Value.
//
// Primitives map directly; an integral cty number becomes Integer and any
// other number becomes Float. HCL cannot spell a float-typed whole number,
// so callers that need one must construct it in Go with FloatVal. Lists,
// sets and tuples become vectors; a sequence of sequences becomes a
// rectangular matrix. Anything nested deeper than two dimensions, ragged,
// or mixed-kind is rejected.
func FromCty(v cty.Value) (Value, error) {
	if v.IsNull() {
		return Value{}, fmt.Errorf("null values are not supported")
	}
	if !v.IsKnown() {
		return Value{}, fmt.Errorf("unknown values are not supported")
	}

	t := v.Type()
	switch {
	case t.IsPrimitiveType():
		return fromCtyScalar(v)
	case t.IsTupleType() || t.IsListType() || t.IsSetType():
		return fromCtySequence(v)
	default:
		return Value{}, fmt.Errorf("unsupported value type %s", t.FriendlyName())
	}
}

// fromCtyScalar converts a primitive cty value.
func fromCtyScalar(v cty.Value) (Value, error) {
	switch v.Type() {
	case cty.String:
		return StringVal(v.AsString()), nil
	case cty.Bool:
		return LogicalVal(v.True()), nil
	case cty.Number:
		bf := v.AsBigFloat()
		if bf.IsInt() {
			if i, acc := bf.Int64(); acc == 0 {
				return IntVal(i), nil
			}
			return Value{}, fmt.Errorf("integer %s overflows int64", bf.Text('g', -1))
		}
		f, _ := bf.Float64()
		if math.IsInf(f, 0) {
			return Value{}, fmt.Errorf("number %s does not fit a float64", bf.Text('g', -1))
		}
		return FloatVal(f), nil
	}
	return Value{}, fmt.Errorf("unsupported primitive type %s", v.Type().FriendlyName())
}

// fromCtySequence converts a 1-D sequence or a 2-D sequence of sequences.
func fromCtySequence(v cty.Value) (Value, error) {
	elems := v.AsValueSlice()
	if len(elems) == 0 {
		return Value{}, fmt.Errorf("empty sequences carry no element type and are not supported")
	}

	if isSequence(elems[0].Type()) {
		return fromCtyMatrix(elems)
	}

	scalars := make([]Value, len(elems))
	for i, e := range elems {
		if isSequence(e.Type()) {
			return Value{}, fmt.Errorf("element %d: sequences may not mix scalars and sequences", i)
		}
		s, err := fromCtyScalar(e)
		if err != nil {
			return Value{}, fmt.Errorf("element %d: %w", i, err)
		}
		scalars[i] = s
	}
	return vecOf(scalars)
}

// fromCtyMatrix converts row values, each itself a sequence of scalars.
func fromCtyMatrix(rows []cty.Value) (Value, error) {
	rowVecs := make([]Value, len(rows))
	for i, r := range rows {
		if !isSequence(r.Type()) {
			return Value{}, fmt.Errorf("row %d: sequences may not mix scalars and sequences", i)
		}
		for j, e := range r.AsValueSlice() {
			if isSequence(e.Type()) {
				return Value{}, fmt.Errorf("row %d element %d: arrays of dimensionality greater than 2 are not supported", i, j)
			}
		}
		rv, err := fromCtySequence(r)
		if err != nil {
			return Value{}, fmt.Errorf("row %d: %w", i, err)
		}
		rowVecs[i] = rv
	}

	kind, err := unifyKinds(rowVecs)
	if err != nil {
		return Value{}, err
	}
	cols := rowVecs[0].Len()
	for i, rv := range rowVecs {
		if rv.Len() != cols {
			return Value{}, fmt.Errorf("matrix rows must be rectangular: row 0 has %d columns, row %d has %d", cols, i, rv.Len())
		}
	}

	switch kind {
	case String:
		m := make([][]string, len(rowVecs))
		for i, rv := range rowVecs {
			m[i] = rv.strs
		}
		return StringMatrix(m)
	case Logical:
		m := make([][]bool, len(rowVecs))
		for i, rv := range rowVecs {
			m[i] = rv.logicals
		}
		return LogicalMatrix(m)
	case Integer:
		m := make([][]int64, len(rowVecs))
		for i, rv := range rowVecs {
			m[i] = rv.ints
		}
		return IntMatrix(m)
	default:
		m := make([][]float64, len(rowVecs))
		for i, rv := range rowVecs {
			m[i] = promoteFloats(rv)
		}
		return FloatMatrix(m)
	}
}

// vecOf assembles scalar Values of one (possibly numerically promoted) kind
// into a vector.
func vecOf(scalars []Value) (Value, error) {
	kind, err := unifyKinds(scalars)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case String:
		out := make([]string, len(scalars))
		for i, s := range scalars {
			out[i] = s.strs[0]
		}
		return StringVec(out), nil
	case Logical:
		out := make([]bool, len(scalars))
		for i, s := range scalars {
			out[i] = s.logicals[0]
		}
		return LogicalVec(out), nil
	case Integer:
		out := make([]int64, len(scalars))
		for i, s := range scalars {
			out[i] = s.ints[0]
		}
		return IntVec(out), nil
	default:
		out := make([]float64, len(scalars))
		for i, s := range scalars {
			out[i] = promoteFloats(s)[0]
		}
		return FloatVec(out), nil
	}
}

// unifyKinds finds the single element kind for a homogeneous sequence,
// promoting mixed integer/float numerics to float.
func unifyKinds(vals []Value) (Kind, error) {
	kind := vals[0].kind
	for i, v := range vals[1:] {
		if v.kind == kind {
			continue
		}
		if numeric(v.kind) && numeric(kind) {
			kind = Float
			continue
		}
		return 0, fmt.Errorf("sequences must be homogeneous: element 0 is %s, element %d is %s", vals[0].kind, i+1, v.kind)
	}
	return kind, nil
}

// promoteFloats returns a value's elements as float64s, widening integers.
func promoteFloats(v Value) []float64 {
	if v.kind == Float {
		return v.floats
	}
	out := make([]float64, len(v.ints))
	for i, n := range v.ints {
		out[i] = float64(n)
	}
	return out
}

func numeric(k Kind) bool { return k == Integer || k == Float }

func isSequence(t cty.Type) bool {
	return t.IsTupleType() || t.IsListType() || t.IsSetType()
}
