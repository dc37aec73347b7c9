package scope

import (
	"fmt"
	"strings"

	"barracuda/types"
)

// FuncParam is one parameter's (type, qualifier) pair, the tuple that
// overload resolution matches call sites against.
type FuncParam struct {
	Type      types.Type
	Qualifier types.Qualifier
}

// FunctionImpl is a single declared overload of a function name: its
// parameter signature, return type, and (assigned by the bytecode
// generator) the label of its entry point.
type FunctionImpl struct {
	Name       string
	Params     []FuncParam
	ReturnType types.Type
	Extern     bool
	Label      string
}

// signatureString renders a FunctionImpl's name and parameter list the way
// a diagnostic should show a candidate: `name(mut i32, const &f64)`.
func signatureString(impl *FunctionImpl) string {
	params := make([]string, len(impl.Params))
	for i, p := range impl.Params {
		params[i] = fmt.Sprintf("%s %s", p.Qualifier, p.Type)
	}
	return fmt.Sprintf("%s(%s)", impl.Name, strings.Join(params, ", "))
}

// candidateList renders every overload of a name as a comma-separated list
// of signatures, for reporting alongside a resolution failure.
func candidateList(overloads []*FunctionImpl) string {
	sigs := make([]string, len(overloads))
	for i, impl := range overloads {
		sigs[i] = signatureString(impl)
	}
	return strings.Join(sigs, ", ")
}

func sameSignature(a, b *FunctionImpl) bool {
	if len(a.Params) != len(b.Params) {
		return false
	}
	for i := range a.Params {
		if !types.Equal(a.Params[i].Type, b.Params[i].Type) || a.Params[i].Qualifier != b.Params[i].Qualifier {
			return false
		}
	}
	return true
}

// functionSet is every overload declared under one function name.
type functionSet struct {
	overloads []*FunctionImpl
}

// FunctionTable tracks every function name's overload set, keyed by
// (arity, ordered (type, qualifier) tuples), the signature shape the
// overload-resolution rule dispatches on.
type FunctionTable struct {
	sets map[string]*functionSet
}

func NewFunctionTable() *FunctionTable {
	return &FunctionTable{sets: map[string]*functionSet{}}
}

// Declare registers a new overload, failing if an identical signature
// already exists for this name.
func (ft *FunctionTable) Declare(impl *FunctionImpl) error {
	set, ok := ft.sets[impl.Name]
	if !ok {
		set = &functionSet{}
		ft.sets[impl.Name] = set
	}
	for _, existing := range set.overloads {
		if sameSignature(existing, impl) {
			return fmt.Errorf("function %q is already declared with this exact parameter signature", impl.Name)
		}
	}
	set.overloads = append(set.overloads, impl)
	return nil
}

// Exists reports whether any overload of name has been declared.
func (ft *FunctionTable) Exists(name string) bool {
	_, ok := ft.sets[name]
	return ok
}

// Resolve picks the single overload of name whose signature accepts
// argTypes/argQualifiers, preferring an exact type match over one that
// only matches after integer/float widening. It fails if no overload
// matches, or if more than one matches with no exact winner.
func (ft *FunctionTable) Resolve(name string, argTypes []types.Type, argQualifiers []types.Qualifier) (*FunctionImpl, error) {
	set, ok := ft.sets[name]
	if !ok {
		return nil, fmt.Errorf("undefined function %q", name)
	}

	var candidates []*FunctionImpl
	for _, impl := range set.overloads {
		if len(impl.Params) != len(argTypes) {
			continue
		}
		match := true
		for i, p := range impl.Params {
			if p.Qualifier != argQualifiers[i] || !types.AssignableTo(argTypes[i], p.Type) {
				match = false
				break
			}
		}
		if match {
			candidates = append(candidates, impl)
		}
	}

	switch len(candidates) {
	case 0:
		return nil, fmt.Errorf("no overload of %q matches the given argument types and qualifiers; candidates are: %s", name, candidateList(set.overloads))
	case 1:
		return candidates[0], nil
	default:
		for _, c := range candidates {
			exact := true
			for i, p := range c.Params {
				if !types.Equal(argTypes[i], p.Type) {
					exact = false
					break
				}
			}
			if exact {
				return c, nil
			}
		}
		return nil, fmt.Errorf("ambiguous call to %q: %d overloads match after widening; candidates are: %s", name, len(candidates), candidateList(candidates))
	}
}
