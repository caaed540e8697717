package format

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/slowlang/subc/compiler/asm"
	"github.com/slowlang/subc/compiler/ast"
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/ir"
	"github.com/slowlang/subc/compiler/parse"
	"github.com/slowlang/subc/compiler/target"
)

func mustTarget(t *testing.T, name string) target.Target {
	t.Helper()

	tg, err := target.Lookup(name)
	require.NoError(t, err)

	return tg
}

func TestFormatAsm(t *testing.T) {
	p := &asm.Program{
		Func: &asm.Func{
			Name: "main",
			Body: []asm.Instr{
				asm.Push{Src: asm.RBP},
				asm.Mov{Dst: asm.RBP, Src: asm.RSP},
				asm.AllocateStack{Size: 16},
				asm.Mov{Dst: asm.Stack{Offset: -8, Width: asm.Quad}, Src: asm.Imm(7)},
				asm.Cmp{Left: asm.Stack{Offset: -8, Width: asm.Quad}, Right: asm.Imm(0)},
				asm.JmpCC{Cond: asm.E, Label: "and_false.0"},
				asm.SetCC{Cond: asm.LE, Dst: asm.Stack{Offset: -8, Width: asm.Byte}},
				asm.Jmp{Label: "and_end.1"},
				asm.Label{Name: "and_false.0"},
				asm.Mov{Dst: asm.RAX, Src: asm.Imm(1)},
				asm.Cdq{},
				asm.Idiv{Src: asm.R10},
				asm.Unary{Op: asm.Neg, Dst: asm.RAX},
				asm.Binary{Op: asm.Sal, Dst: asm.RAX, Src: asm.CL},
				asm.Label{Name: "and_end.1"},
				asm.Mov{Dst: asm.RSP, Src: asm.RBP},
				asm.Pop{Dst: asm.RBP},
				asm.Ret{},
			},
		},
	}

	exp := `    .intel_syntax noprefix
    .globl main
main:
    push rbp
    mov rbp, rsp
    sub rsp, 16
    mov QWORD PTR [rbp-8], 7
    cmp QWORD PTR [rbp-8], 0
    je .Land_false.0
    setle BYTE PTR [rbp-8]
    jmp .Land_end.1
.Land_false.0:
    mov rax, 1
    cqo
    idiv r10
    neg rax
    sal rax, cl
.Land_end.1:
    mov rsp, rbp
    pop rbp
    ret
    .section .note.GNU-stack,"",@progbits
`

	b, err := New(mustTarget(t, "linux")).Format(context.Background(), nil, p)
	require.NoError(t, err)
	assert.Equal(t, exp, string(b))
}

func TestFormatAsmDarwin(t *testing.T) {
	p := &asm.Program{
		Func: &asm.Func{
			Name: "main",
			Body: []asm.Instr{
				asm.Jmp{Label: "x"},
				asm.Label{Name: "x"},
				asm.Ret{},
			},
		},
	}

	exp := `    .intel_syntax noprefix
    .globl _main
_main:
    jmp Lx
Lx:
    ret
`

	b, err := New(mustTarget(t, "darwin")).Format(context.Background(), nil, p)
	require.NoError(t, err)
	assert.Equal(t, exp, string(b))
}

func TestFormatAsmErrors(t *testing.T) {
	ctx := context.Background()

	_, err := Format(ctx, nil, &asm.Program{})
	assert.True(t, diag.IsInternal(err), "err: %v", err)

	_, err = Format(ctx, nil, &asm.Program{Func: &asm.Func{Name: "f", Body: []asm.Instr{nil}}})
	assert.True(t, diag.IsInternal(err), "err: %v", err)

	_, err = Format(ctx, nil, 5)
	assert.Error(t, err)
}

func TestFormatIR(t *testing.T) {
	p := &ir.Program{
		Func: &ir.Func{
			Name: "main",
			Body: []ir.Instr{
				ir.JumpIfZero{Cond: ir.Constant(1), Target: "l"},
				ir.Unary{Op: ir.Negate, Src: ir.Constant(2), Dst: "a"},
				ir.Binary{Op: ir.Add, Src1: ir.Var("a"), Src2: ir.Constant(3), Dst: "b"},
				ir.Label{Name: "l"},
				ir.Copy{Dst: "b", Src: ir.Constant(0)},
				ir.Return{Value: ir.Var("b")},
			},
		},
	}

	exp := `func main {
    jz 1, l
    a = neg 2
    b = add a, 3
l:
    b = 0
    return b
}
`

	b, err := Format(context.Background(), nil, p)
	require.NoError(t, err)
	assert.Equal(t, exp, string(b))
}

func TestFormatAST(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct {
		src string
		exp string
	}{
		{"1 + 2 * 3", "1 + 2 * 3"},
		{"(1 + 2) * 3", "(1 + 2) * 3"},
		{"1 - (2 - 3)", "1 - (2 - 3)"},
		{"(1 - 2) - 3", "1 - 2 - 3"},
		{"-(-1)", "-(-1)"},
		{"!(1 < 2) || ~3 && 4", "!(1 < 2) || ~3 && 4"},
		{"(1 || 2) && 3", "(1 || 2) && 3"},
		{"1 << (2 >> 3)", "1 << (2 >> 3)"},
	} {
		t.Run(tc.src, func(t *testing.T) {
			p, err := parse.Parse(ctx, "", []byte("int main(void) { return "+tc.src+"; }"))
			require.NoError(t, err)

			b, err := Format(ctx, nil, p)
			require.NoError(t, err)
			assert.Equal(t, "int main(void) {\n    return "+tc.exp+";\n}\n", string(b))

			q, err := parse.Parse(ctx, "", b)
			require.NoError(t, err)

			b2, err := Format(ctx, nil, q)
			require.NoError(t, err)
			assert.Equal(t, string(b), string(b2))
		})
	}

	_, err := Format(ctx, nil, &ast.Program{Func: &ast.Func{Name: "f"}})
	assert.Error(t, err)
}
