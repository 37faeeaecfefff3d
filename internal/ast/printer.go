package ast

import (
	"fmt"
	"strings"
)

// Print returns a tree-like string representation of the AST for debugging
func Print(node Node) string {
	var sb strings.Builder
	printNode(&sb, node, 0)
	return sb.String()
}

func printNode(sb *strings.Builder, node Node, indent int) {
	if node == nil {
		return
	}

	prefix := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *Program:
		sb.WriteString(prefix + "Program\n")
		for _, d := range n.Declarations {
			printNode(sb, d, indent+1)
		}

	case *Declaration:
		modifiers := []string{n.Visibility.String()}
		for _, h := range n.Headers {
			modifiers = append(modifiers, h.Kind.String())
		}
		sb.WriteString(fmt.Sprintf("%sDeclaration (%s)\n", prefix, strings.Join(modifiers, " ")))
		printNode(sb, n.Body, indent+1)

	case *ModuleDecl:
		sb.WriteString(fmt.Sprintf("%sModule: %s\n", prefix, strings.Join(n.Path, "::")))

	case *FunctionDecl:
		sb.WriteString(fmt.Sprintf("%sFunction: %s\n", prefix, n.Name))

		if len(n.Params) > 0 {
			sb.WriteString(fmt.Sprintf("%s  Params:\n", prefix))
			for _, p := range n.Params {
				printNode(sb, p, indent+2)
			}
		} else {
			sb.WriteString(fmt.Sprintf("%s  Params: none\n", prefix))
		}

		if n.ReturnType != nil {
			sb.WriteString(fmt.Sprintf("%s  Returns: %s\n", prefix, n.ReturnType))
		}

		if n.Body != nil {
			sb.WriteString(fmt.Sprintf("%s  Body:\n", prefix))
			printNode(sb, n.Body, indent+2)
		}

	case *Param:
		sb.WriteString(fmt.Sprintf("%s%s: %s\n", prefix, n.Name, n.Type))

	case *Block:
		ret := ""
		if n.ReturnsLast {
			ret = " (returns last)"
		}
		sb.WriteString(fmt.Sprintf("%sBlock%s\n", prefix, ret))
		for _, stmt := range n.Statements {
			printNode(sb, stmt, indent+1)
		}

	case *LetStmt:
		sb.WriteString(fmt.Sprintf("%sLet: %s\n", prefix, n.Name))
		printNode(sb, n.Value, indent+1)

	case *ExprStmt:
		sb.WriteString(prefix + "ExprStmt\n")
		printNode(sb, n.Expr, indent+1)

	case *BinaryExpr:
		sb.WriteString(fmt.Sprintf("%sBinary: %s\n", prefix, n.Op))
		printNode(sb, n.Left, indent+1)
		printNode(sb, n.Right, indent+1)

	case *ParenExpr:
		sb.WriteString(prefix + "Paren\n")
		printNode(sb, n.Inner, indent+1)

	case *IfExpr:
		sb.WriteString(prefix + "If\n")
		for i, c := range n.Clauses {
			label := "if"
			if i > 0 {
				label = "elif"
			}
			sb.WriteString(fmt.Sprintf("%s  %s:\n", prefix, label))
			printNode(sb, c.Condition, indent+2)
			printNode(sb, c.Block, indent+2)
		}
		if n.Else != nil {
			sb.WriteString(fmt.Sprintf("%s  else:\n", prefix))
			printNode(sb, n.Else.Block, indent+2)
		}

	case *IntLit:
		sb.WriteString(fmt.Sprintf("%sInt: %s%s\n", prefix, n.Digits, n.Suffix))

	case *FloatLit:
		sb.WriteString(fmt.Sprintf("%sFloat: %s%s\n", prefix, n.Digits, n.Suffix))

	case *BoolLit:
		sb.WriteString(fmt.Sprintf("%sBool: %t\n", prefix, n.Value))

	case *Identifier:
		sb.WriteString(fmt.Sprintf("%sIdent: %s\n", prefix, n.Name))

	default:
		sb.WriteString(fmt.Sprintf("%s<unknown node %T>\n", prefix, node))
	}
}
