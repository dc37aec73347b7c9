package scope

import (
	"strings"
	"testing"

	"barracuda/types"
)

func TestDeclareAndResolve(t *testing.T) {
	tree := NewTree()
	root := tree.Root()

	sym := &Symbol{Name: "x", Type: types.Primitive{K: types.I32}, Storage: StorageGlobal}
	if err := tree.Declare(root, sym); err != nil {
		t.Fatalf("Declare failed: %v", err)
	}

	child := tree.Open(root)
	got, ok := tree.Resolve(child, "x")
	if !ok || got != sym {
		t.Fatalf("expected to resolve 'x' from child scope, got %v, %v", got, ok)
	}
}

func TestRedeclarationInSameScopeFails(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	if err := tree.Declare(root, &Symbol{Name: "x"}); err != nil {
		t.Fatal(err)
	}
	if err := tree.Declare(root, &Symbol{Name: "x"}); err == nil {
		t.Fatal("expected redeclaration to fail")
	}
}

func TestShadowingInChildScopeIsAllowed(t *testing.T) {
	tree := NewTree()
	root := tree.Root()
	tree.Declare(root, &Symbol{Name: "x", Storage: StorageGlobal})

	child := tree.Open(root)
	if err := tree.Declare(child, &Symbol{Name: "x", Storage: StorageLocal}); err != nil {
		t.Fatalf("shadowing should be allowed: %v", err)
	}
	sym, _ := tree.ResolveLocal(child, "x")
	if sym.Storage != StorageLocal {
		t.Errorf("expected to resolve the shadowing local, got %v", sym.Storage)
	}
}

func TestTrackerReenterMatchesOpenOrder(t *testing.T) {
	tree := NewTree()
	analyser := NewTracker(tree)

	a := analyser.OpenNew()
	analyser.Close()
	b := analyser.OpenNew()
	analyser.Close()

	generator := NewTracker(tree)
	gotA := generator.Reenter()
	generator.Close()
	gotB := generator.Reenter()
	generator.Close()

	if gotA != a || gotB != b {
		t.Errorf("Reenter order mismatch: got (%v, %v), want (%v, %v)", gotA, gotB, a, b)
	}
}

func TestFunctionTableOverloadResolution(t *testing.T) {
	ft := NewFunctionTable()
	i32 := types.Primitive{K: types.I32}
	f64 := types.Primitive{K: types.F64}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ft.Declare(&FunctionImpl{Name: "add", Params: []FuncParam{{Type: i32}, {Type: i32}}, ReturnType: i32}))
	must(ft.Declare(&FunctionImpl{Name: "add", Params: []FuncParam{{Type: f64}, {Type: f64}}, ReturnType: f64}))

	impl, err := ft.Resolve("add", []types.Type{i32, i32}, []types.Qualifier{types.ConstQualifier, types.ConstQualifier})
	if err != nil {
		t.Fatal(err)
	}
	if !types.Equal(impl.ReturnType, i32) {
		t.Errorf("expected the i32 overload to win an exact match, got %v", impl.ReturnType)
	}
}

func TestFunctionTableResolveFailureListsCandidates(t *testing.T) {
	ft := NewFunctionTable()
	i32 := types.Primitive{K: types.I32}
	f64 := types.Primitive{K: types.F64}
	boolT := types.Primitive{K: types.Bool}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	must(ft.Declare(&FunctionImpl{Name: "add", Params: []FuncParam{{Type: i32}, {Type: i32}}, ReturnType: i32}))
	must(ft.Declare(&FunctionImpl{Name: "add", Params: []FuncParam{{Type: f64}, {Type: f64}}, ReturnType: f64}))

	_, err := ft.Resolve("add", []types.Type{boolT, boolT}, []types.Qualifier{types.ConstQualifier, types.ConstQualifier})
	if err == nil {
		t.Fatal("expected resolution to fail for a mismatched argument type")
	}
	for _, want := range []string{"add(const i32, const i32)", "add(const f64, const f64)"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q does not mention candidate signature %q", err.Error(), want)
		}
	}
}

func TestFunctionTableAmbiguousCallListsCandidates(t *testing.T) {
	ft := NewFunctionTable()
	i8 := types.Primitive{K: types.I8}
	i32 := types.Primitive{K: types.I32}
	i64 := types.Primitive{K: types.I64}

	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatal(err)
		}
	}
	// Two overloads both accept an i8 argument only after widening, so
	// neither is an exact match and resolution is ambiguous.
	must(ft.Declare(&FunctionImpl{Name: "f", Params: []FuncParam{{Type: i32}}, ReturnType: i32}))
	must(ft.Declare(&FunctionImpl{Name: "f", Params: []FuncParam{{Type: i64}}, ReturnType: i64}))

	_, err := ft.Resolve("f", []types.Type{i8}, []types.Qualifier{types.ConstQualifier})
	if err == nil {
		t.Fatal("expected an ambiguous-call error")
	}
	if !strings.Contains(err.Error(), "f(const i32)") || !strings.Contains(err.Error(), "f(const i64)") {
		t.Errorf("ambiguous-call error %q does not list both candidate signatures", err.Error())
	}
}

func TestFunctionTableRejectsDuplicateSignature(t *testing.T) {
	ft := NewFunctionTable()
	i32 := types.Primitive{K: types.I32}
	must := ft.Declare(&FunctionImpl{Name: "f", Params: []FuncParam{{Type: i32}}})
	if must != nil {
		t.Fatal(must)
	}
	if err := ft.Declare(&FunctionImpl{Name: "f", Params: []FuncParam{{Type: i32}}}); err == nil {
		t.Fatal("expected duplicate signature to be rejected")
	}
}
