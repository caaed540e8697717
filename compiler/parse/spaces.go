package parse

import (
	"bytes"
	"context"

	"github.com/slowlang/subc/compiler/ast"
)

type (
	Skipper interface {
		Skip(b []byte, st int) int
	}

	Spaces uint64

	// Blanks skips spaces and C comments.
	Blanks struct {
		Spaces Spaces
	}

	Spacer struct {
		Skipper Skipper
		Of      Parser
	}
)

var (
	SpaceAll = NewSpaces(' ', '\t', '\r', '\n', '\v', '\f')

	Blank = Blanks{Spaces: SpaceAll}
)

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

func (s Blanks) Skip(b []byte, st int) (i int) {
	i = st

	for {
		i = s.Spaces.Skip(b, i)

		switch {
		case bytes.HasPrefix(b[i:], []byte("//")):
			end := bytes.IndexByte(b[i:], '\n')
			if end < 0 {
				return len(b)
			}

			i += end + 1
		case bytes.HasPrefix(b[i:], []byte("/*")):
			end := bytes.Index(b[i+2:], []byte("*/"))
			if end < 0 {
				return len(b)
			}

			i += 2 + end + 2
		default:
			return i
		}
	}
}

// Spaced skips blanks before p.
func Spaced(p Parser) Spacer {
	return Spacer{
		Skipper: Blank,
		Of:      p,
	}
}

func (p Spacer) Parse(ctx context.Context, b []byte, st int) (x ast.Node, i int, err error) {
	vst := p.Skipper.Skip(b, st)

	x, i, err = p.Of.Parse(ctx, b, vst)
	if err != nil && i == vst {
		i = st
	}

	return
}

func (p Spacer) String() string {
	return describe(p.Of)
}
