// Package eidos models the typed values that can be injected into a SLiM
// model's namespace and renders them as Eidos literal expressions.
//
// Values are built through explicit typed constructors, never inferred from
// runtime types. The kind of every element (string, logical, integer, float)
// is fixed at construction, so a logical value can never be mistaken for an
// integer the way a dynamically typed host would allow.
package eidos
