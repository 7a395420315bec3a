package driver

import (
	"encoding/json"
	"fmt"

	"delta/interpreter-go/pkg/ast"
)

// DecodeModule decodes a JSON syntax tree. The root must be a Module node;
// path is recorded on the module for diagnostics.
func DecodeModule(data []byte, path string) (*ast.Module, error) {
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	node, err := decodeNode(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	mod, ok := node.(*ast.Module)
	if !ok {
		return nil, fmt.Errorf("decode %s: root must be a Module, found %s", path, node.NodeType())
	}
	mod.Path = path
	return mod, nil
}

func decodeNode(node map[string]any) (ast.Node, error) {
	decoded, err := decodeNodeKind(node)
	if err != nil {
		return nil, err
	}
	if span, ok := decodeSpan(node["span"]); ok {
		ast.SetSpan(decoded, span)
	}
	return decoded, nil
}

func decodeNodeKind(node map[string]any) (ast.Node, error) {
	typ, _ := node["type"].(string)
	switch ast.NodeType(typ) {
	case ast.NodeModule:
		members, err := decodeList(node["members"], "module member", func(n ast.Node) (ast.Member, bool) {
			m, ok := n.(ast.Member)
			return m, ok
		})
		if err != nil {
			return nil, err
		}
		path, _ := node["path"].(string)
		return ast.NewModule(path, members), nil
	case ast.NodeIdentifier:
		name, _ := node["name"].(string)
		return ast.NewIdentifier(name), nil
	case ast.NodeTypeAnnotation:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		return ast.NewTypeAnnotation(name), nil
	case ast.NodeFunctionDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		params, err := decodeParameters(node["params"])
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptionalType(node["returnType"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		return ast.NewFunctionDeclaration(name, params, ret, body), nil
	case ast.NodeClassDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		members, err := decodeList(node["members"], "class member", func(n ast.Node) (ast.ClassMember, bool) {
			m, ok := n.(ast.ClassMember)
			return m, ok
		})
		if err != nil {
			return nil, err
		}
		return ast.NewClassDeclaration(name, members), nil
	case ast.NodePropertyDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		typ, err := decodeOptionalType(node["propType"])
		if err != nil {
			return nil, err
		}
		init, err := decodeOptionalExpression(node["initializer"])
		if err != nil {
			return nil, err
		}
		access, err := decodeAccess(node["access"])
		if err != nil {
			return nil, err
		}
		return ast.NewPropertyDeclaration(access, boolField(node, "static"), boolField(node, "mutable"), name, typ, init), nil
	case ast.NodeMethodDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		params, err := decodeParameters(node["params"])
		if err != nil {
			return nil, err
		}
		ret, err := decodeOptionalType(node["returnType"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		access, err := decodeAccess(node["access"])
		if err != nil {
			return nil, err
		}
		return ast.NewMethodDeclaration(access, boolField(node, "static"), name, params, ret, body), nil
	case ast.NodeConstructorDeclaration:
		params, err := decodeParameters(node["params"])
		if err != nil {
			return nil, err
		}
		body, err := decodeBlock(node["body"])
		if err != nil {
			return nil, err
		}
		access, err := decodeAccess(node["access"])
		if err != nil {
			return nil, err
		}
		return ast.NewConstructorDeclaration(access, params, body), nil
	case ast.NodeParameter:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, err
		}
		typ, err := decodeOptionalType(node["paramType"])
		if err != nil {
			return nil, err
		}
		if typ == nil {
			return nil, fmt.Errorf("parameter %q missing paramType", name.Name)
		}
		return ast.NewParameter(name, typ), nil
	}
	if decoded, ok, err := decodeStatementNode(node, typ); ok || err != nil {
		return decoded, err
	}
	if decoded, ok, err := decodeExpressionNode(node, typ); ok || err != nil {
		return decoded, err
	}
	return nil, fmt.Errorf("unsupported node type %q", typ)
}

func decodeStatementNode(node map[string]any, typ string) (ast.Node, bool, error) {
	switch ast.NodeType(typ) {
	case ast.NodeExpressionStatement:
		expr, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewExpressionStatement(expr), true, nil
	case ast.NodeVariableDeclaration:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		typ, err := decodeOptionalType(node["varType"])
		if err != nil {
			return nil, true, err
		}
		init, err := decodeExpression(node["initializer"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewVariableDeclaration(name, boolField(node, "mutable"), typ, init), true, nil
	case ast.NodeBlockStatement:
		stmts, err := decodeList(node["statements"], "statement", func(n ast.Node) (ast.Statement, bool) {
			s, ok := n.(ast.Statement)
			return s, ok
		})
		if err != nil {
			return nil, true, err
		}
		return ast.NewBlockStatement(stmts), true, nil
	case ast.NodeIfStatement:
		cond, err := decodeOptionalExpression(node["condition"])
		if err != nil {
			return nil, true, err
		}
		then, err := decodeStatement(node["then"])
		if err != nil {
			return nil, true, err
		}
		var elseStmt ast.Statement
		if node["else"] != nil {
			if elseStmt, err = decodeStatement(node["else"]); err != nil {
				return nil, true, err
			}
		}
		return ast.NewIfStatement(cond, then, elseStmt), true, nil
	case ast.NodeLoopStatement:
		cond, err := decodeOptionalExpression(node["condition"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewLoopStatement(cond, body), true, nil
	case ast.NodeForStatement:
		variable, err := decodeIdentifier(node["variable"])
		if err != nil {
			return nil, true, err
		}
		start, err := decodeExpression(node["start"])
		if err != nil {
			return nil, true, err
		}
		end, err := decodeExpression(node["end"])
		if err != nil {
			return nil, true, err
		}
		step, err := decodeOptionalExpression(node["step"])
		if err != nil {
			return nil, true, err
		}
		body, err := decodeStatement(node["body"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewForStatement(variable, start, end, step, body), true, nil
	case ast.NodeReturnStatement:
		value, err := decodeOptionalExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewReturnStatement(value), true, nil
	case ast.NodeBreakStatement:
		return ast.NewBreakStatement(), true, nil
	case ast.NodeContinueStatement:
		return ast.NewContinueStatement(), true, nil
	default:
		return nil, false, nil
	}
}

func decodeExpressionNode(node map[string]any, typ string) (ast.Node, bool, error) {
	switch ast.NodeType(typ) {
	case ast.NodeNumberLiteral:
		val, ok := node["value"].(float64)
		if !ok {
			return nil, true, fmt.Errorf("number literal requires a numeric value")
		}
		return ast.NewNumberLiteral(val), true, nil
	case ast.NodeStringLiteral:
		val, _ := node["value"].(string)
		return ast.NewStringLiteral(val), true, nil
	case ast.NodeBooleanLiteral:
		val, _ := node["value"].(bool)
		return ast.NewBooleanLiteral(val), true, nil
	case ast.NodeUnaryExpression:
		op, _ := node["operator"].(string)
		operand, err := decodeExpression(node["operand"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewUnaryExpression(op, operand), true, nil
	case ast.NodeBinaryExpression:
		op, _ := node["operator"].(string)
		left, err := decodeExpression(node["left"])
		if err != nil {
			return nil, true, err
		}
		right, err := decodeExpression(node["right"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewBinaryExpression(op, left, right), true, nil
	case ast.NodeGroupingExpression:
		inner, err := decodeExpression(node["expression"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewGroupingExpression(inner), true, nil
	case ast.NodeNameExpression:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewNameExpression(name), true, nil
	case ast.NodeAssignmentExpression:
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewAssignmentExpression(name, value), true, nil
	case ast.NodeCallExpression:
		callee, err := decodeIdentifier(node["callee"])
		if err != nil {
			return nil, true, err
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewCallExpression(callee, args), true, nil
	case ast.NodeGetExpression:
		receiver, err := decodeExpression(node["receiver"])
		if err != nil {
			return nil, true, err
		}
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewGetExpression(receiver, name), true, nil
	case ast.NodeSetExpression:
		receiver, err := decodeExpression(node["receiver"])
		if err != nil {
			return nil, true, err
		}
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		value, err := decodeExpression(node["value"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewSetExpression(receiver, name, value), true, nil
	case ast.NodeMethodCallExpression:
		receiver, err := decodeExpression(node["receiver"])
		if err != nil {
			return nil, true, err
		}
		name, err := decodeIdentifier(node["name"])
		if err != nil {
			return nil, true, err
		}
		args, err := decodeExpressions(node["arguments"])
		if err != nil {
			return nil, true, err
		}
		return ast.NewMethodCallExpression(receiver, name, args), true, nil
	default:
		return nil, false, nil
	}
}

func decodeChild(raw any, what string) (ast.Node, error) {
	child, ok := raw.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%s must be an object, found %T", what, raw)
	}
	return decodeNode(child)
}

func decodeList[T ast.Node](raw any, what string, convert func(ast.Node) (T, bool)) ([]T, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%s list must be an array, found %T", what, raw)
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		node, err := decodeChild(item, what)
		if err != nil {
			return nil, err
		}
		converted, ok := convert(node)
		if !ok {
			return nil, fmt.Errorf("invalid %s %s", what, node.NodeType())
		}
		out = append(out, converted)
	}
	return out, nil
}

func decodeExpression(raw any) (ast.Expression, error) {
	node, err := decodeChild(raw, "expression")
	if err != nil {
		return nil, err
	}
	expr, ok := node.(ast.Expression)
	if !ok {
		return nil, fmt.Errorf("expected an expression, found %s", node.NodeType())
	}
	return expr, nil
}

func decodeOptionalExpression(raw any) (ast.Expression, error) {
	if raw == nil {
		return nil, nil
	}
	return decodeExpression(raw)
}

func decodeExpressions(raw any) ([]ast.Expression, error) {
	return decodeList(raw, "argument", func(n ast.Node) (ast.Expression, bool) {
		e, ok := n.(ast.Expression)
		return e, ok
	})
}

func decodeStatement(raw any) (ast.Statement, error) {
	node, err := decodeChild(raw, "statement")
	if err != nil {
		return nil, err
	}
	stmt, ok := node.(ast.Statement)
	if !ok {
		return nil, fmt.Errorf("expected a statement, found %s", node.NodeType())
	}
	return stmt, nil
}

func decodeBlock(raw any) (*ast.BlockStatement, error) {
	if raw == nil {
		return ast.NewBlockStatement(nil), nil
	}
	stmt, err := decodeStatement(raw)
	if err != nil {
		return nil, err
	}
	block, ok := stmt.(*ast.BlockStatement)
	if !ok {
		return nil, fmt.Errorf("body must be a BlockStatement, found %s", stmt.NodeType())
	}
	return block, nil
}

func decodeParameters(raw any) ([]*ast.Parameter, error) {
	return decodeList(raw, "parameter", func(n ast.Node) (*ast.Parameter, bool) {
		p, ok := n.(*ast.Parameter)
		return p, ok
	})
}

// decodeIdentifier accepts an Identifier node or a bare string.
func decodeIdentifier(raw any) (*ast.Identifier, error) {
	switch v := raw.(type) {
	case string:
		return ast.NewIdentifier(v), nil
	case map[string]any:
		node, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		id, ok := node.(*ast.Identifier)
		if !ok {
			return nil, fmt.Errorf("expected an Identifier, found %s", node.NodeType())
		}
		return id, nil
	default:
		return nil, fmt.Errorf("expected an identifier, found %T", raw)
	}
}

// decodeOptionalType accepts a TypeAnnotation node, a bare type name or
// nothing.
func decodeOptionalType(raw any) (*ast.TypeAnnotation, error) {
	switch v := raw.(type) {
	case nil:
		return nil, nil
	case string:
		return ast.NewTypeAnnotation(ast.NewIdentifier(v)), nil
	case map[string]any:
		node, err := decodeNode(v)
		if err != nil {
			return nil, err
		}
		typ, ok := node.(*ast.TypeAnnotation)
		if !ok {
			return nil, fmt.Errorf("expected a TypeAnnotation, found %s", node.NodeType())
		}
		return typ, nil
	default:
		return nil, fmt.Errorf("expected a type annotation, found %T", raw)
	}
}

func decodeAccess(raw any) (ast.Accessibility, error) {
	if raw == nil {
		return ast.AccessUnspecified, nil
	}
	s, _ := raw.(string)
	switch access := ast.Accessibility(s); access {
	case ast.AccessUnspecified, ast.AccessPublic, ast.AccessPrivate:
		return access, nil
	default:
		return "", fmt.Errorf("unknown access modifier %q", s)
	}
}

func boolField(node map[string]any, key string) bool {
	v, _ := node[key].(bool)
	return v
}

func decodeSpan(raw any) (ast.Span, bool) {
	m, ok := raw.(map[string]any)
	if !ok {
		return ast.Span{}, false
	}
	return ast.Span{Start: decodePosition(m["start"]), End: decodePosition(m["end"])}, true
}

func decodePosition(raw any) ast.Position {
	m, _ := raw.(map[string]any)
	line, _ := m["line"].(float64)
	column, _ := m["column"].(float64)
	return ast.Position{Line: int(line), Column: int(column)}
}
