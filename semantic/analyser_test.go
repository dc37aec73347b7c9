package semantic

import (
	"testing"

	"barracuda/lexer"
	"barracuda/parser"
	"barracuda/types"
)

func analyse(t *testing.T, source string) (*Result, error) {
	t.Helper()
	tokens, lexErr := lexer.New(source).Scan()
	if lexErr != nil {
		t.Fatalf("unexpected lexer error: %v", lexErr)
	}
	statements, parseErrors := parser.Make(tokens).Parse()
	if len(parseErrors) > 0 {
		t.Fatalf("unexpected parser errors: %v", parseErrors)
	}
	return NewAnalyser(types.PrecisionF64, nil).Analyse(statements)
}

func TestLetInferredType(t *testing.T) {
	result, err := analyse(t, `let x = 5;`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Globals) != 1 {
		t.Fatalf("expected 1 global, got %d", len(result.Globals))
	}
	if !types.Equal(result.Globals[0].Type, types.Primitive{K: types.I8}) {
		t.Errorf("expected narrowest int type i8 for literal 5, got %s", result.Globals[0].Type)
	}
}

func TestLetWithoutTypeOrInitIsError(t *testing.T) {
	_, err := analyse(t, `let x;`)
	if err == nil {
		t.Fatal("expected an error for a let with no type and no initialiser")
	}
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestAssignToConstIsRejected(t *testing.T) {
	_, err := analyse(t, `
		let x = 1;
		x = 2;
	`)
	if err == nil {
		t.Fatal("expected an error assigning to a const binding")
	}
	if _, ok := err.(QualifierError); !ok {
		t.Errorf("expected a QualifierError, got %T: %v", err, err)
	}
}

func TestAssignToMutSucceeds(t *testing.T) {
	_, err := analyse(t, `
		let mut x = 1;
		x = 2;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestUndefinedIdentifierIsResolutionError(t *testing.T) {
	_, err := analyse(t, `print y;`)
	if _, ok := err.(ResolutionError); !ok {
		t.Errorf("expected a ResolutionError, got %T: %v", err, err)
	}
}

func TestDivisionByLiteralZeroIsRejected(t *testing.T) {
	_, err := analyse(t, `let x = 1 / 0;`)
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestFunctionCallResolvesOverloadByWidening(t *testing.T) {
	result, err := analyse(t, `
		fn add(a: i32, b: i32) -> i32 { return a + b; }
		fn add(a: f64, b: f64) -> f64 { return a + b; }
		let x: i32 = add(1, 2);
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !result.Functions.Exists("add") {
		t.Fatal("expected 'add' to be declared")
	}
}

func TestReturnTypeMismatchIsError(t *testing.T) {
	_, err := analyse(t, `
		fn f() -> i32 {
			return true;
		}
	`)
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestBreakOutsideLoopIsError(t *testing.T) {
	_, err := analyse(t, `break;`)
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestWhileConditionMustBeBool(t *testing.T) {
	_, err := analyse(t, `while (1) { break; }`)
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestForLoopScopesInitVariable(t *testing.T) {
	_, err := analyse(t, `
		for (let mut i = 0; i < 3; i = i + 1) {
			print i;
		}
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestExternDeclaresEnvVarWithSequentialIndices(t *testing.T) {
	result, err := analyse(t, `
		extern a: f32;
		extern b: f32;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.EnvVars) != 2 {
		t.Fatalf("expected 2 env vars, got %d", len(result.EnvVars))
	}
	if result.EnvVars[0].Slot != 0 || result.EnvVars[1].Slot != 1 {
		t.Errorf("expected sequential indices 0,1, got %d,%d", result.EnvVars[0].Slot, result.EnvVars[1].Slot)
	}
}

func TestArrayIndexOutOfBoundsIsError(t *testing.T) {
	_, err := analyse(t, `
		let xs = [1, 2, 3];
		print xs[5];
	`)
	if _, ok := err.(TypeError); !ok {
		t.Errorf("expected a TypeError, got %T: %v", err, err)
	}
}

func TestPointerReferenceAndDerefRoundTrip(t *testing.T) {
	result, err := analyse(t, `
		let mut x = 1;
		let p = &x;
		print *p;
	`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !types.Equal(result.Globals[1].Type, types.PointerType{Elem: types.Primitive{K: types.I8}}) {
		t.Errorf("expected p to be &i8, got %s", result.Globals[1].Type)
	}
}
