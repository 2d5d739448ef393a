package cmd

import (
	"encoding/json"
	"fmt"
	"os"

	"polyglot/uast"
)

// This file is the input boundary: it decodes the JSON encoding of a UAST
// function produced by an external collaborator (the LLM-prompt path or a
// manually written file).  Decoding only checks that the input parses into the
// schema; structural well-formedness is the pipeline's job.
//
// The encoding mirrors the schema one-to-one:
//
//	{
//	  "name": "f",
//	  "params": [{"name": "n", "type": "int"}],
//	  "return_type": "int",
//	  "body": [
//	    {"stmt": "return", "value": {
//	      "expr": "binop", "op": "+",
//	      "lhs": {"expr": "literal", "type": "int", "value": 1},
//	      "rhs": {"expr": "literal", "type": "int", "value": 2}
//	    }}
//	  ]
//	}

type jsonFunction struct {
	Name       string            `json:"name"`
	Params     []jsonParam       `json:"params"`
	ReturnType string            `json:"return_type"`
	Body       []json.RawMessage `json:"body"`
}

type jsonParam struct {
	Name string `json:"name"`
	Type string `json:"type"`
}

type jsonStmt struct {
	Stmt   string            `json:"stmt"`
	Target string            `json:"target"`
	Value  json.RawMessage   `json:"value"`
	Cond   json.RawMessage   `json:"cond"`
	Then   []json.RawMessage `json:"then"`
	Else   []json.RawMessage `json:"else"`
	Body   []json.RawMessage `json:"body"`
	Expr   json.RawMessage   `json:"expr"`
}

type jsonExpr struct {
	Expr    string            `json:"expr"`
	Type    string            `json:"type"`
	Value   json.RawMessage   `json:"value"`
	Name    string            `json:"name"`
	Op      string            `json:"op"`
	Lhs     json.RawMessage   `json:"lhs"`
	Rhs     json.RawMessage   `json:"rhs"`
	Operand json.RawMessage   `json:"operand"`
	Callee  string            `json:"callee"`
	Args    []json.RawMessage `json:"args"`
}

// DecodeFunctionFile reads and decodes a UAST function from a JSON file.
func DecodeFunctionFile(path string) (*uast.Function, error) {
	buff, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read `%s`: %w", path, err)
	}

	return DecodeFunction(buff)
}

// DecodeFunction decodes a UAST function from its JSON encoding.
func DecodeFunction(data []byte) (*uast.Function, error) {
	jfn := &jsonFunction{}
	if err := json.Unmarshal(data, jfn); err != nil {
		return nil, err
	}

	if jfn.Name == "" {
		return nil, fmt.Errorf("function has no name")
	}

	fn := &uast.Function{Name: jfn.Name}

	for _, jparam := range jfn.Params {
		typ, err := decodeTypeTag(jparam.Type, false)
		if err != nil {
			return nil, fmt.Errorf("parameter `%s`: %w", jparam.Name, err)
		}

		fn.Params = append(fn.Params, uast.Param{Name: jparam.Name, Type: typ})
	}

	retType, err := decodeTypeTag(jfn.ReturnType, true)
	if err != nil {
		return nil, fmt.Errorf("return type: %w", err)
	}
	fn.ReturnType = retType

	fn.Body, err = decodeBlock(jfn.Body)
	if err != nil {
		return nil, err
	}

	return fn, nil
}

// decodeTypeTag decodes a type tag name; void is only accepted in return
// position.
func decodeTypeTag(name string, allowVoid bool) (uast.TypeTag, error) {
	switch name {
	case "int":
		return uast.TypeInt, nil
	case "float":
		return uast.TypeFloat, nil
	case "bool":
		return uast.TypeBool, nil
	case "string":
		return uast.TypeString, nil
	case "void":
		if allowVoid {
			return uast.TypeVoid, nil
		}
	}

	return uast.TypeVoid, fmt.Errorf("unknown type tag `%s`", name)
}

func decodeBlock(raw []json.RawMessage) ([]uast.Stmt, error) {
	block := make([]uast.Stmt, len(raw))

	for i, rawStmt := range raw {
		stmt, err := decodeStmt(rawStmt)
		if err != nil {
			return nil, err
		}

		block[i] = stmt
	}

	return block, nil
}

func decodeStmt(raw json.RawMessage) (uast.Stmt, error) {
	jstmt := &jsonStmt{}
	if err := json.Unmarshal(raw, jstmt); err != nil {
		return nil, err
	}

	switch jstmt.Stmt {
	case "assign":
		if jstmt.Target == "" {
			return nil, fmt.Errorf("assign statement has no target")
		}

		value, err := decodeExpr(jstmt.Value)
		if err != nil {
			return nil, err
		}

		return &uast.Assign{Target: jstmt.Target, Value: value}, nil
	case "return":
		if jstmt.Value == nil {
			return &uast.Return{}, nil
		}

		value, err := decodeExpr(jstmt.Value)
		if err != nil {
			return nil, err
		}

		return &uast.Return{Value: value}, nil
	case "if":
		cond, err := decodeExpr(jstmt.Cond)
		if err != nil {
			return nil, err
		}

		thenBlock, err := decodeBlock(jstmt.Then)
		if err != nil {
			return nil, err
		}

		ifStmt := &uast.If{Cond: cond, Then: thenBlock}

		if jstmt.Else != nil {
			ifStmt.Else, err = decodeBlock(jstmt.Else)
			if err != nil {
				return nil, err
			}
		}

		return ifStmt, nil
	case "while":
		cond, err := decodeExpr(jstmt.Cond)
		if err != nil {
			return nil, err
		}

		body, err := decodeBlock(jstmt.Body)
		if err != nil {
			return nil, err
		}

		return &uast.While{Cond: cond, Body: body}, nil
	case "expr":
		expr, err := decodeExpr(jstmt.Expr)
		if err != nil {
			return nil, err
		}

		return &uast.ExprStmt{Expr: expr}, nil
	}

	return nil, fmt.Errorf("unknown statement kind `%s`", jstmt.Stmt)
}

// binOpsByName maps operator spellings to binary operator kinds.
var binOpsByName = map[string]uast.OpKind{
	"+": uast.OpAdd, "-": uast.OpSub, "*": uast.OpMul, "/": uast.OpDiv,
	"%": uast.OpMod, "==": uast.OpEq, "!=": uast.OpNotEq, "<": uast.OpLt,
	"<=": uast.OpLtEq, ">": uast.OpGt, ">=": uast.OpGtEq,
	"and": uast.OpAnd, "or": uast.OpOr,
}

// unaryOpsByName maps operator spellings to unary operator kinds.
var unaryOpsByName = map[string]uast.OpKind{
	"-":   uast.OpNeg,
	"not": uast.OpNot,
}

func decodeExpr(raw json.RawMessage) (uast.Expr, error) {
	if raw == nil {
		return nil, fmt.Errorf("missing expression")
	}

	jexpr := &jsonExpr{}
	if err := json.Unmarshal(raw, jexpr); err != nil {
		return nil, err
	}

	switch jexpr.Expr {
	case "literal":
		return decodeLiteral(jexpr)
	case "var":
		if jexpr.Name == "" {
			return nil, fmt.Errorf("variable reference has no name")
		}

		return &uast.VarRef{Name: jexpr.Name}, nil
	case "binop":
		op, ok := binOpsByName[jexpr.Op]
		if !ok {
			return nil, fmt.Errorf("unknown binary operator `%s`", jexpr.Op)
		}

		lhs, err := decodeExpr(jexpr.Lhs)
		if err != nil {
			return nil, err
		}

		rhs, err := decodeExpr(jexpr.Rhs)
		if err != nil {
			return nil, err
		}

		return &uast.BinOp{Op: op, Lhs: lhs, Rhs: rhs}, nil
	case "unaryop":
		op, ok := unaryOpsByName[jexpr.Op]
		if !ok {
			return nil, fmt.Errorf("unknown unary operator `%s`", jexpr.Op)
		}

		operand, err := decodeExpr(jexpr.Operand)
		if err != nil {
			return nil, err
		}

		return &uast.UnaryOp{Op: op, Operand: operand}, nil
	case "call":
		if jexpr.Callee == "" {
			return nil, fmt.Errorf("call has no callee")
		}

		args := make([]uast.Expr, len(jexpr.Args))
		for i, rawArg := range jexpr.Args {
			arg, err := decodeExpr(rawArg)
			if err != nil {
				return nil, err
			}

			args[i] = arg
		}

		return &uast.Call{Callee: jexpr.Callee, Args: args}, nil
	}

	return nil, fmt.Errorf("unknown expression kind `%s`", jexpr.Expr)
}

func decodeLiteral(jexpr *jsonExpr) (uast.Expr, error) {
	typ, err := decodeTypeTag(jexpr.Type, false)
	if err != nil {
		return nil, fmt.Errorf("literal: %w", err)
	}

	switch typ {
	case uast.TypeInt:
		var v int64
		if err := json.Unmarshal(jexpr.Value, &v); err != nil {
			return nil, fmt.Errorf("int literal: %w", err)
		}

		return uast.IntLit(v), nil
	case uast.TypeFloat:
		var v float64
		if err := json.Unmarshal(jexpr.Value, &v); err != nil {
			return nil, fmt.Errorf("float literal: %w", err)
		}

		return uast.FloatLit(v), nil
	case uast.TypeBool:
		var v bool
		if err := json.Unmarshal(jexpr.Value, &v); err != nil {
			return nil, fmt.Errorf("bool literal: %w", err)
		}

		return uast.BoolLit(v), nil
	default:
		var v string
		if err := json.Unmarshal(jexpr.Value, &v); err != nil {
			return nil, fmt.Errorf("string literal: %w", err)
		}

		return uast.StringLit(v), nil
	}
}
