package ast

import "fmt"

type (
	Node interface {
	}

	Expr interface {
		Node
		expr()
	}

	Stmt interface {
		Node
		stmt()
	}

	Base struct {
		Pos int
		End int
	}

	Program struct {
		Base `tlog:",embed"`

		Func *Func
	}

	Func struct {
		Base `tlog:",embed"`

		Name string
		Body Stmt
	}

	Return struct {
		Base `tlog:",embed"`

		Value Expr
	}

	Constant struct {
		Base `tlog:",embed"`

		Value int32
	}

	Unary struct {
		Base `tlog:",embed"`

		Op UnaryOp
		X  Expr
	}

	Binary struct {
		Base `tlog:",embed"`

		Op    BinaryOp
		Left  Expr
		Right Expr
	}

	UnaryOp int

	BinaryOp int
)

const (
	Negate UnaryOp = iota
	Complement
	Not
)

const (
	Add BinaryOp = iota
	Sub
	Mul
	Div
	Rem
	BitAnd
	BitOr
	BitXor
	Shl
	Shr
	LogAnd
	LogOr
	Eq
	Ne
	Lt
	Le
	Gt
	Ge
)

var unaryOps = [...]string{
	Negate:     "-",
	Complement: "~",
	Not:        "!",
}

var binaryOps = [...]string{
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Rem:    "%",
	BitAnd: "&",
	BitOr:  "|",
	BitXor: "^",
	Shl:    "<<",
	Shr:    ">>",
	LogAnd: "&&",
	LogOr:  "||",
	Eq:     "==",
	Ne:     "!=",
	Lt:     "<",
	Le:     "<=",
	Gt:     ">",
	Ge:     ">=",
}

func (Return) stmt() {}

func (Constant) expr() {}
func (Unary) expr()    {}
func (Binary) expr()   {}

func (op UnaryOp) String() string {
	if op >= 0 && int(op) < len(unaryOps) {
		return unaryOps[op]
	}

	return fmt.Sprintf("UnaryOp(%d)", int(op))
}

func (op BinaryOp) String() string {
	if op >= 0 && int(op) < len(binaryOps) {
		return binaryOps[op]
	}

	return fmt.Sprintf("BinaryOp(%d)", int(op))
}

// Logical reports whether the operator short-circuits.
func (op BinaryOp) Logical() bool {
	return op == LogAnd || op == LogOr
}
