package sexpobj

import (
	"io"
	"strings"
)

// String renders r, or "!!(<error>)!!" when r cannot be printed.
func (a *Arena) String(r Ref) string {
	var sb strings.Builder

	err := a.appendToBuilder(&sb, r, make(map[Ref]struct{}))
	if err != nil {
		return "!!(" + err.Error() + ")!!"
	}

	return sb.String()
}

// Print writes the textual form of r to w. Atoms print verbatim, lists as
// (a b c) with a dotted tail when improper, and Nil as (). A cons that
// contains itself yields ErrCycle; shared substructure prints in full.
func (a *Arena) Print(w io.Writer, r Ref) (err error) {
	var sb strings.Builder

	err = a.appendToBuilder(&sb, r, make(map[Ref]struct{}))
	if err != nil {
		return
	}

	_, err = io.WriteString(w, sb.String())
	return
}

// path holds the conses currently being printed.
func (a *Arena) appendToBuilder(sb *strings.Builder, r Ref, path map[Ref]struct{}) (err error) {
	switch o := a.Get(r).(type) {
	case *Atom:
		sb.Write(o.name[:o.length])
		return
	case *Cons:
		sb.WriteRune('(')
		var spine []Ref
		defer func() {
			for _, c := range spine {
				delete(path, c)
			}
		}()

		for {
			if _, ok := path[r]; ok {
				return ErrCycle
			}
			path[r] = struct{}{}
			spine = append(spine, r)

			c := a.cons(r)
			err = a.appendToBuilder(sb, c.Car, path)
			if err != nil {
				return
			}

			r = c.Cdr
			if a.IsNil(r) {
				break
			}
			if !a.IsCons(r) {
				sb.WriteString(" . ")
				err = a.appendToBuilder(sb, r, path)
				if err != nil {
					return
				}
				break
			}
			sb.WriteRune(' ')
		}
		sb.WriteRune(')')
		return
	default:
		if IsNil(o) {
			sb.WriteString("()")
		}
		return
	}
}
