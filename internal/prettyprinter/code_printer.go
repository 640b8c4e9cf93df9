package prettyprinter

import (
	"bytes"
	"strings"

	"github.com/bloch-lang/bloch/internal/ast"
)

// --- Code Printer (Output looks like source code) ---

type CodePrinter struct {
	buf    bytes.Buffer
	indent int
}

func NewCodePrinter() *CodePrinter {
	return &CodePrinter{}
}

// Print renders program as canonical Bloch source.
func Print(program *ast.Program) string {
	p := NewCodePrinter()
	p.PrintProgram(program)
	return p.String()
}

func (p *CodePrinter) String() string {
	return p.buf.String()
}

func (p *CodePrinter) write(s string) {
	p.buf.WriteString(s)
}

func (p *CodePrinter) writeIndent() {
	for i := 0; i < p.indent; i++ {
		p.buf.WriteString("    ")
	}
}

func (p *CodePrinter) line(s string) {
	p.writeIndent()
	p.write(s)
	p.write("\n")
}

func (p *CodePrinter) PrintProgram(program *ast.Program) {
	sections := 0
	sep := func() {
		if sections > 0 {
			p.write("\n")
		}
		sections++
	}

	if len(program.Imports) > 0 {
		sep()
		for _, imp := range program.Imports {
			p.line("import " + imp.Path + ";")
		}
	}
	for _, cls := range program.Classes {
		sep()
		p.printClass(cls)
	}
	for _, fn := range program.Functions {
		sep()
		p.printFunction(fn)
	}
	if len(program.Statements) > 0 {
		sep()
		for _, stmt := range program.Statements {
			p.printStatement(stmt)
		}
	}
}

func (p *CodePrinter) printClass(cls *ast.ClassDeclaration) {
	p.line("class " + cls.Name + " {")
	p.indent++
	if len(cls.Members) > 0 {
		p.line("@members:")
		p.indent++
		for _, m := range cls.Members {
			p.writeIndent()
			if m.Visibility != "" {
				p.write(m.Visibility + " ")
			}
			p.write(declaration(m))
			p.write("\n")
		}
		p.indent--
	}
	if len(cls.Methods) > 0 {
		p.line("@methods:")
		p.indent++
		for _, fn := range cls.Methods {
			p.printFunction(fn)
		}
		p.indent--
	}
	p.indent--
	p.line("}")
}

func (p *CodePrinter) printFunction(fn *ast.FunctionDeclaration) {
	for _, a := range fn.Annotations {
		p.line("@" + a)
	}
	p.writeIndent()
	if fn.Visibility != "" {
		p.write(fn.Visibility + " ")
	}
	params := make([]string, len(fn.Params))
	for i, param := range fn.Params {
		params[i] = param.Type.String() + " " + param.Name
	}
	p.write("function " + fn.Name + "(" + strings.Join(params, ", ") + ") -> " + fn.ReturnType.String() + " ")
	p.printBlock(fn.Body)
	p.write("\n")
}

// printBlock writes a block starting at the current column; the caller
// decides what follows the closing brace.
func (p *CodePrinter) printBlock(block *ast.BlockStatement) {
	p.write("{\n")
	p.indent++
	for _, stmt := range block.Statements {
		p.printStatement(stmt)
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

func (p *CodePrinter) printStatement(stmt ast.Statement) {
	p.writeIndent()
	p.printInline(stmt)
	p.write("\n")
}

// printInline writes stmt without leading indentation or trailing newline.
func (p *CodePrinter) printInline(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStatement:
		p.printBlock(s)
	case *ast.VariableDeclaration:
		p.write(declaration(s))
	case *ast.ExpressionStatement:
		p.write(Expr(s.Expression) + ";")
	case *ast.ReturnStatement:
		if s.Value == nil {
			p.write("return;")
		} else {
			p.write("return " + Expr(s.Value) + ";")
		}
	case *ast.IfStatement:
		p.write("if (" + Expr(s.Condition) + ") ")
		p.printInline(s.Then)
		if s.Else != nil {
			p.write(" else ")
			p.printInline(s.Else)
		}
	case *ast.ForStatement:
		p.write("for (")
		switch init := s.Initializer.(type) {
		case nil:
			p.write(";")
		case *ast.VariableDeclaration:
			p.write(declaration(init))
		case *ast.ExpressionStatement:
			p.write(Expr(init.Expression) + ";")
		}
		if s.Condition != nil {
			p.write(" " + Expr(s.Condition))
		}
		p.write(";")
		if s.Increment != nil {
			p.write(" " + Expr(s.Increment))
		}
		p.write(") ")
		p.printInline(s.Body)
	case *ast.EchoStatement:
		p.write("echo(" + Expr(s.Value) + ");")
	case *ast.ResetStatement:
		p.write("reset " + Expr(s.Target) + ";")
	case *ast.MeasureStatement:
		p.write("measure " + Expr(s.Qubit) + ";")
	case *ast.AssignmentStatement:
		p.write(s.Name + " = " + Expr(s.Value) + ";")
	default:
		p.write("<???>")
	}
}

func declaration(d *ast.VariableDeclaration) string {
	var sb strings.Builder
	if d.IsFinal {
		sb.WriteString("final ")
	}
	sb.WriteString(d.VarType.String())
	sb.WriteString(" ")
	sb.WriteString(d.Name)
	if d.Initializer != nil {
		sb.WriteString(" = ")
		sb.WriteString(Expr(d.Initializer))
	}
	sb.WriteString(";")
	return sb.String()
}

// Expr renders a single expression. Grouping is kept only where the source
// had explicit parentheses, so the output reparses to the same tree.
func Expr(expr ast.Expression) string {
	switch e := expr.(type) {
	case *ast.LiteralExpression:
		switch e.LiteralType {
		case ast.LiteralString:
			return `"` + e.Value + `"`
		case ast.LiteralChar:
			return "'" + e.Value + "'"
		case ast.LiteralBit:
			return e.Value + "b"
		}
		return e.Value
	case *ast.VariableExpression:
		return e.Name
	case *ast.BinaryExpression:
		return Expr(e.Left) + " " + e.Op + " " + Expr(e.Right)
	case *ast.UnaryExpression:
		return e.Op + Expr(e.Right)
	case *ast.ParenthesizedExpression:
		return "(" + Expr(e.Expression) + ")"
	case *ast.MeasureExpression:
		return "measure " + Expr(e.Qubit)
	case *ast.AssignmentExpression:
		return e.Name + " = " + Expr(e.Value)
	case *ast.CallExpression:
		return Expr(e.Callee) + "(" + exprList(e.Arguments) + ")"
	case *ast.ConstructorCallExpression:
		return e.ClassName + "(" + exprList(e.Arguments) + ")"
	case *ast.IndexExpression:
		return Expr(e.Collection) + "[" + Expr(e.Index) + "]"
	case *ast.MemberAccessExpression:
		return Expr(e.Object) + "." + e.Member
	}
	return "<???>"
}

func exprList(exprs []ast.Expression) string {
	parts := make([]string, len(exprs))
	for i, e := range exprs {
		parts[i] = Expr(e)
	}
	return strings.Join(parts, ", ")
}
