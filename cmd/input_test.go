package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"polyglot/uast"
)

const scenarioJSON = `{
  "name": "f",
  "params": [],
  "return_type": "int",
  "body": [
    {"stmt": "return", "value": {
      "expr": "binop", "op": "+",
      "lhs": {"expr": "literal", "type": "int", "value": 1},
      "rhs": {"expr": "literal", "type": "int", "value": 2}
    }}
  ]
}`

func TestDecodeScenarioFunction(t *testing.T) {
	fn, err := DecodeFunction([]byte(scenarioJSON))
	if err != nil {
		t.Fatalf("DecodeFunction: %v", err)
	}

	if fn.Name != "f" || len(fn.Params) != 0 || fn.ReturnType != uast.TypeInt {
		t.Fatalf("unexpected header: %+v", fn)
	}

	if !fn.Nullary() {
		t.Fatal("scenario function is nullary")
	}

	if len(fn.Body) != 1 {
		t.Fatalf("body has %d statements", len(fn.Body))
	}

	ret, ok := fn.Body[0].(*uast.Return)
	if !ok {
		t.Fatalf("statement is %T, want *uast.Return", fn.Body[0])
	}

	binop, ok := ret.Value.(*uast.BinOp)
	if !ok || binop.Op != uast.OpAdd {
		t.Fatalf("return value is %#v", ret.Value)
	}

	if violations := uast.CheckWellFormed(fn); len(violations) != 0 {
		t.Fatalf("decoded function is malformed: %v", violations)
	}
}

func TestDecodeEveryNodeKind(t *testing.T) {
	data := `{
  "name": "kitchen",
  "params": [
    {"name": "a", "type": "int"},
    {"name": "x", "type": "float"},
    {"name": "flag", "type": "bool"},
    {"name": "label", "type": "string"}
  ],
  "return_type": "void",
  "body": [
    {"stmt": "assign", "target": "i", "value": {"expr": "literal", "type": "int", "value": 0}},
    {"stmt": "assign", "target": "ok", "value": {"expr": "unaryop", "op": "not", "operand": {"expr": "var", "name": "flag"}}},
    {"stmt": "if",
     "cond": {"expr": "binop", "op": "and", "lhs": {"expr": "var", "name": "ok"}, "rhs": {"expr": "binop", "op": "<", "lhs": {"expr": "var", "name": "i"}, "rhs": {"expr": "var", "name": "a"}}},
     "then": [{"stmt": "expr", "expr": {"expr": "call", "callee": "kitchen", "args": [{"expr": "var", "name": "a"}, {"expr": "literal", "type": "float", "value": 1.5}, {"expr": "literal", "type": "bool", "value": true}, {"expr": "literal", "type": "string", "value": "again"}]}}],
     "else": [{"stmt": "return"}]},
    {"stmt": "while",
     "cond": {"expr": "binop", "op": ">", "lhs": {"expr": "var", "name": "i"}, "rhs": {"expr": "literal", "type": "int", "value": 0}},
     "body": [{"stmt": "assign", "target": "i", "value": {"expr": "binop", "op": "-", "lhs": {"expr": "var", "name": "i"}, "rhs": {"expr": "literal", "type": "int", "value": 1}}}]},
    {"stmt": "return"}
  ]
}`

	fn, err := DecodeFunction([]byte(data))
	if err != nil {
		t.Fatalf("DecodeFunction: %v", err)
	}

	if len(fn.Body) != 5 {
		t.Fatalf("body has %d statements", len(fn.Body))
	}

	ifStmt, ok := fn.Body[2].(*uast.If)
	if !ok {
		t.Fatalf("statement 2 is %T", fn.Body[2])
	}
	if ifStmt.Else == nil {
		t.Fatal("else branch lost in decoding")
	}

	call := ifStmt.Then[0].(*uast.ExprStmt).Expr.(*uast.Call)
	if call.Callee != "kitchen" || len(call.Args) != 4 {
		t.Fatalf("call decoded as %+v", call)
	}

	if violations := uast.CheckWellFormed(fn); len(violations) != 0 {
		t.Fatalf("decoded function is malformed: %v", violations)
	}
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		errPart string
	}{
		{
			"not json",
			`definitely not json`,
			"invalid character",
		},
		{
			"missing name",
			`{"return_type": "void", "body": []}`,
			"no name",
		},
		{
			"unknown param type",
			`{"name": "f", "params": [{"name": "n", "type": "complex"}], "return_type": "void", "body": []}`,
			"unknown type tag `complex`",
		},
		{
			"void parameter",
			`{"name": "f", "params": [{"name": "n", "type": "void"}], "return_type": "void", "body": []}`,
			"unknown type tag `void`",
		},
		{
			"unknown statement kind",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "for"}]}`,
			"unknown statement kind `for`",
		},
		{
			"unknown expression kind",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "expr", "expr": {"expr": "lambda"}}]}`,
			"unknown expression kind `lambda`",
		},
		{
			"unknown binary operator",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "expr", "expr": {"expr": "binop", "op": "**"}}]}`,
			"unknown binary operator `**`",
		},
		{
			"unknown unary operator",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "expr", "expr": {"expr": "unaryop", "op": "~"}}]}`,
			"unknown unary operator `~`",
		},
		{
			"assign without target",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "assign", "value": {"expr": "literal", "type": "int", "value": 1}}]}`,
			"no target",
		},
		{
			"literal value of the wrong shape",
			`{"name": "f", "return_type": "void", "body": [{"stmt": "expr", "expr": {"expr": "literal", "type": "int", "value": "three"}}]}`,
			"int literal",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DecodeFunction([]byte(tc.data))
			if err == nil {
				t.Fatal("decode succeeded")
			}

			if !strings.Contains(err.Error(), tc.errPart) {
				t.Fatalf("err = %q, want substring %q", err, tc.errPart)
			}
		})
	}
}

func TestDecodeFunctionFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "f.json")
	if err := os.WriteFile(path, []byte(scenarioJSON), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}

	fn, err := DecodeFunctionFile(path)
	if err != nil {
		t.Fatalf("DecodeFunctionFile: %v", err)
	}

	if fn.Name != "f" {
		t.Fatalf("decoded name = %q", fn.Name)
	}

	if _, err := DecodeFunctionFile(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatal("missing file accepted")
	}
}
