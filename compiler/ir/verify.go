package ir

import (
	"github.com/slowlang/subc/compiler/diag"
	"github.com/slowlang/subc/compiler/set"
)

type names map[string]int

// Verify checks the structural invariants every later stage relies on:
// the body ends with Return, labels are unique, jump targets exist,
// and no variable is read before the first instruction writing it.
func (f *Func) Verify() error {
	if len(f.Body) == 0 {
		return diag.Internal("ir", "func %v: empty body", f.Name)
	}

	if _, ok := f.Body[len(f.Body)-1].(Return); !ok {
		return diag.Internal("ir", "func %v: last instruction is %T, not Return", f.Name, f.Body[len(f.Body)-1])
	}

	labels := names{}
	defined := set.MakeBits[int]()

	for i, x := range f.Body {
		l, ok := x.(Label)
		if !ok {
			continue
		}

		id := labels.id(l.Name)
		if defined.IsSet(id) {
			return diag.Internal("ir", "func %v: instr %d: label %v redefined", f.Name, i, l.Name)
		}

		defined.Set(id)
	}

	vars := names{}
	written := set.MakeBits[int]()

	read := func(i int, v Value) error {
		if v == nil {
			return diag.Internal("ir", "func %v: instr %d: nil value", f.Name, i)
		}

		n, ok := v.(Var)
		if !ok {
			return nil
		}

		if !written.IsSet(vars.id(string(n))) {
			return diag.Internal("ir", "func %v: instr %d: %v read before write", f.Name, i, n)
		}

		return nil
	}

	target := func(i int, name string) error {
		id, ok := labels[name]
		if !ok || !defined.IsSet(id) {
			return diag.Internal("ir", "func %v: instr %d: jump to undefined label %v", f.Name, i, name)
		}

		return nil
	}

	for i, x := range f.Body {
		var err error

		switch x := x.(type) {
		case Return:
			err = read(i, x.Value)
		case Unary:
			err = read(i, x.Src)
			written.Set(vars.id(string(x.Dst)))
		case Binary:
			err = read(i, x.Src1)
			if err == nil {
				err = read(i, x.Src2)
			}

			written.Set(vars.id(string(x.Dst)))
		case Copy:
			err = read(i, x.Src)
			written.Set(vars.id(string(x.Dst)))
		case Jump:
			err = target(i, x.Target)
		case JumpIfZero:
			err = read(i, x.Cond)
			if err == nil {
				err = target(i, x.Target)
			}
		case JumpIfNotZero:
			err = read(i, x.Cond)
			if err == nil {
				err = target(i, x.Target)
			}
		case Label:
		default:
			err = diag.Internal("ir", "func %v: instr %d: unsupported instruction %T", f.Name, i, x)
		}

		if err != nil {
			return err
		}
	}

	return nil
}

func (n names) id(name string) int {
	id, ok := n[name]
	if !ok {
		id = len(n)
		n[name] = id
	}

	return id
}
