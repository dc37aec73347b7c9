// Package types models the Barracuda value-type lattice: primitive
// numeric/bool/none kinds, pointers, fixed-length arrays, and the
// polymorphic environment-variable pseudo-type, plus the `const`/`mut`
// qualifiers and the widening/assignability rules that govern them.
package types

import "fmt"

// Kind is a closed enumeration of the primitive and composite type kinds,
// mirroring the closed token-kind set in package token.
type Kind int

const (
	I8 Kind = iota
	I16
	I32
	I64
	I128
	F8
	F16
	F32
	F64
	F128
	Bool
	None
	Pointer
	Array
	EnvVar
)

var kindNames = map[Kind]string{
	I8: "i8", I16: "i16", I32: "i32", I64: "i64", I128: "i128",
	F8: "f8", F16: "f16", F32: "f32", F64: "f64", F128: "f128",
	Bool: "bool", None: "none", Pointer: "pointer", Array: "array", EnvVar: "envvar",
}

func (k Kind) String() string { return kindNames[k] }

// integerWidth maps an integer Kind to its bit width.
var integerWidth = map[Kind]int{I8: 8, I16: 16, I32: 32, I64: 64, I128: 128}

// floatWidth maps a float Kind to its bit width.
var floatWidth = map[Kind]int{F8: 8, F16: 16, F32: 32, F64: 64, F128: 128}

func IsInteger(k Kind) bool { _, ok := integerWidth[k]; return ok }
func IsFloat(k Kind) bool   { _, ok := floatWidth[k]; return ok }
func IsNumeric(k Kind) bool { return IsInteger(k) || IsFloat(k) }

// Width returns the bit width of a primitive numeric kind, or 0 if k is
// not numeric.
func Width(k Kind) int {
	if w, ok := integerWidth[k]; ok {
		return w
	}
	if w, ok := floatWidth[k]; ok {
		return w
	}
	return 0
}

// Qualifier is the `const`/`mut` storage qualifier attached to every `let`
// binding and function parameter; it participates in assignability checks
// and in overload-resolution signature matching.
type Qualifier int

const (
	ConstQualifier Qualifier = iota
	MutQualifier
)

func (q Qualifier) String() string {
	if q == MutQualifier {
		return "mut"
	}
	return "const"
}

// Type is implemented by every concrete type value in the lattice.
type Type interface {
	Kind() Kind
	String() string
	// Size returns the type's size in user-space storage slots (each slot
	// holding one numeric value at the compiler's configured precision).
	Size() int
}

// Primitive is a scalar numeric, bool, or none type.
type Primitive struct{ K Kind }

func (p Primitive) Kind() Kind    { return p.K }
func (p Primitive) String() string { return p.K.String() }
func (p Primitive) Size() int      { return 1 }

// PointerType is `&T`, a reference to storage holding a T.
type PointerType struct{ Elem Type }

func (p PointerType) Kind() Kind     { return Pointer }
func (p PointerType) String() string { return "&" + p.Elem.String() }
func (p PointerType) Size() int      { return 1 }

// ArrayType is a fixed-length, value-like array of Len elements of Elem.
type ArrayType struct {
	Elem Type
	Len  int
}

func (a ArrayType) Kind() Kind { return Array }
func (a ArrayType) String() string {
	return fmt.Sprintf("[%s; %d]", a.Elem.String(), a.Len)
}
func (a ArrayType) Size() int { return a.Elem.Size() * a.Len }

// EnvVarType is the polymorphic pseudo-type of a host-declared environment
// variable: it may be read as a value, referenced as a pointer, or (when
// the host declares it as such) indexed as an array, all against the same
// host-assigned slot.
type EnvVarType struct{ Elem Type }

func (e EnvVarType) Kind() Kind     { return EnvVar }
func (e EnvVarType) String() string { return "env<" + e.Elem.String() + ">" }
func (e EnvVarType) Size() int      { return e.Elem.Size() }

// Equal reports whether two types denote the same shape.
func Equal(a, b Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	switch av := a.(type) {
	case Primitive:
		bv, ok := b.(Primitive)
		return ok && av.K == bv.K
	case PointerType:
		bv, ok := b.(PointerType)
		return ok && Equal(av.Elem, bv.Elem)
	case ArrayType:
		bv, ok := b.(ArrayType)
		return ok && av.Len == bv.Len && Equal(av.Elem, bv.Elem)
	case EnvVarType:
		bv, ok := b.(EnvVarType)
		return ok && Equal(av.Elem, bv.Elem)
	}
	return false
}

// Widen returns the common type two numeric operands widen to (the wider
// of the two, with any float outranking any integer regardless of width),
// or false if neither operand is numeric.
func Widen(a, b Type) (Type, bool) {
	ap, aok := a.(Primitive)
	bp, bok := b.(Primitive)
	if !aok || !bok || !IsNumeric(ap.K) || !IsNumeric(bp.K) {
		return nil, false
	}
	aFloat, bFloat := IsFloat(ap.K), IsFloat(bp.K)
	switch {
	case aFloat && !bFloat:
		return ap, true
	case bFloat && !aFloat:
		return bp, true
	case aFloat && bFloat:
		if Width(ap.K) >= Width(bp.K) {
			return ap, true
		}
		return bp, true
	default: // both integer
		if Width(ap.K) >= Width(bp.K) {
			return ap, true
		}
		return bp, true
	}
}

// AssignableTo reports whether a value of type `from` may be stored into a
// binding of type `to`: identical composite shapes, or an integer/float
// primitive no wider than the target.
func AssignableTo(from, to Type) bool {
	if Equal(from, to) {
		return true
	}
	fp, fok := from.(Primitive)
	tp, tok := to.(Primitive)
	if !fok || !tok {
		return false
	}
	if IsInteger(fp.K) && IsInteger(tp.K) {
		return Width(fp.K) <= Width(tp.K)
	}
	if IsFloat(fp.K) && IsFloat(tp.K) {
		return Width(fp.K) <= Width(tp.K)
	}
	return false
}

// Precision is the compiler-wide numeric storage width used to pack every
// value (including characters of a string literal) into the value pool.
type Precision int

const (
	PrecisionF32 Precision = 32
	PrecisionF64 Precision = 64
)
