package evaluator

import (
	"fmt"

	"github.com/bloch-lang/bloch/internal/ast"
	"github.com/bloch-lang/bloch/internal/config"
)

func (e *Evaluator) exec(stmt ast.Statement) error {
	switch s := stmt.(type) {
	case nil:
		return nil
	case *ast.VariableDeclaration:
		return e.execVariableDeclaration(s)
	case *ast.BlockStatement:
		return e.execBlock(s)
	case *ast.ExpressionStatement:
		_, err := e.evalOptional(s.Expression)
		return err
	case *ast.ReturnStatement:
		if s.Value != nil {
			v, err := e.eval(s.Value)
			if err != nil {
				return err
			}
			e.returnValue = v
		}
		e.returning = true
		return nil
	case *ast.IfStatement:
		cond, err := e.evalOptional(s.Condition)
		if err != nil {
			return err
		}
		if cond.Truthy() {
			return e.exec(s.Then)
		}
		return e.exec(s.Else)
	case *ast.ForStatement:
		return e.execFor(s)
	case *ast.EchoStatement:
		v, err := e.evalOptional(s.Value)
		if err != nil {
			return err
		}
		fmt.Fprintln(e.Out, v.EchoString())
		return nil
	case *ast.ResetStatement:
		// The target is not evaluated and qubit state is left untouched.
		return nil
	case *ast.MeasureStatement:
		q, err := e.evalOptional(s.Qubit)
		if err != nil {
			return err
		}
		_, err = e.measure(s.Token, q)
		return err
	case *ast.AssignmentStatement:
		v, err := e.evalOptional(s.Value)
		if err != nil {
			return err
		}
		e.assign(s.Name, v)
		return nil
	default:
		panic(fmt.Sprintf("evaluator: unhandled statement %T", stmt))
	}
}

func (e *Evaluator) execVariableDeclaration(decl *ast.VariableDeclaration) error {
	typeName := ""
	if prim, ok := decl.VarType.(*ast.PrimitiveType); ok {
		typeName = prim.Name
	}

	v := defaultValue(typeName)
	if typeName == config.QubitTypeName {
		index, err := e.allocateTrackedQubit(decl.Name)
		if err != nil {
			return e.wrapError(decl.Token, err, "cannot allocate qubit '%s'", decl.Name)
		}
		v = QubitValue(index)
	}

	if decl.Initializer != nil {
		init, err := e.eval(decl.Initializer)
		if err != nil {
			return err
		}
		v = init
	}

	e.env.Declare(decl.Name, v)
	return nil
}

func (e *Evaluator) execBlock(block *ast.BlockStatement) error {
	e.env.BeginScope()
	defer e.env.EndScope()

	for _, stmt := range block.Statements {
		if err := e.exec(stmt); err != nil {
			return err
		}
		if e.returning {
			break
		}
	}
	return nil
}

// execFor treats a missing condition as false: the body never runs.
func (e *Evaluator) execFor(loop *ast.ForStatement) error {
	e.env.BeginScope()
	defer e.env.EndScope()

	if err := e.exec(loop.Initializer); err != nil {
		return err
	}

	for {
		if err := e.context().Err(); err != nil {
			return e.wrapError(loop.Token, err, "loop interrupted")
		}

		cond := BitValue(0)
		if loop.Condition != nil {
			c, err := e.eval(loop.Condition)
			if err != nil {
				return err
			}
			cond = c
		}
		if !cond.Truthy() {
			return nil
		}

		if err := e.exec(loop.Body); err != nil {
			return err
		}
		if e.returning {
			return nil
		}

		if _, err := e.evalOptional(loop.Increment); err != nil {
			return err
		}
	}
}
