package sexpobj

import (
	"errors"
	"fmt"
)

type Kind uint8

var (
	ErrInvalidKind         = errors.New("invalid object kind")
	ErrInvalidRef          = errors.New("invalid object reference")
	ErrNotCons             = errors.New("object is not a cons")
	ErrCycle               = errors.New("cyclic structure")
	ErrImproperList        = errors.New("improper list")
	ErrTableNotInitialized = errors.New("table not initialized")
	ErrTableReleased       = errors.New("table already released")
	ErrIndexOutOfRange     = errors.New("table index out of range")
	ErrShortImage          = errors.New("object image too short")
	ErrAtomLength          = errors.New("atom length exceeds capacity")
)

const (
	KindAtom Kind = iota + 1
	KindCons
	KindNil
)

// MaxAtomSize is the fixed capacity of an atom's name buffer.
const MaxAtomSize = 128

func (k Kind) Valid() bool {
	return k >= KindAtom && k <= KindNil
}

func (k Kind) String() string {
	switch k {
	case KindAtom:
		return "atom"
	case KindCons:
		return "cons"
	case KindNil:
		return "nil"
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Object is one of *Atom, *Cons or Nil. The set is closed: only this
// package can implement it.
type Object interface {
	Kind() Kind
	MarshalBinary() ([]byte, error)

	object()
}

// Atom holds up to MaxAtomSize bytes of name. Longer input is truncated.
type Atom struct {
	length uint8
	name   [MaxAtomSize]byte
}

func (a *Atom) Kind() Kind { return KindAtom }
func (a *Atom) object()    {}

func (a *Atom) Len() int { return int(a.length) }

// Bytes returns a copy of the stored name.
func (a *Atom) Bytes() []byte {
	b := make([]byte, a.length)
	copy(b, a.name[:a.length])
	return b
}

func (a *Atom) Name() string { return string(a.name[:a.length]) }

// Cons is a pair of handles into the Arena that allocated it. An empty
// slot is NilRef, never a zero Object.
type Cons struct {
	Car Ref
	Cdr Ref
}

func (c *Cons) Kind() Kind { return KindCons }
func (c *Cons) object()    {}

type null struct {
	kind Kind
}

func (n *null) Kind() Kind { return n.kind }
func (n *null) object()    {}

// Nil is the shared empty list. It is never allocated again.
var Nil Object = &null{kind: KindNil}

func NilObject() Object { return Nil }

// MakeAtom copies min(len(p), MaxAtomSize) bytes of p into a new Atom.
func MakeAtom(p []byte) *Atom {
	a := &Atom{}
	n := copy(a.name[:], p)
	a.length = uint8(n)
	return a
}

func MakeAtomString(s string) *Atom {
	a := &Atom{}
	n := copy(a.name[:], s)
	a.length = uint8(n)
	return a
}

// MakeCons stores car and cdr verbatim. No cycle check is made.
func MakeCons(car, cdr Ref) *Cons {
	return &Cons{Car: car, Cdr: cdr}
}

// KindOf returns the validated kind of o. A nil interface or a kind
// outside the closed set means an invariant was broken and panics.
func KindOf(o Object) Kind {
	if o == nil {
		panic(fmt.Errorf("%w: nil object", ErrInvalidKind))
	}
	k := o.Kind()
	if !k.Valid() {
		panic(fmt.Errorf("%w: %v", ErrInvalidKind, k))
	}
	return k
}

func IsAtom(o Object) bool { return KindOf(o) == KindAtom }
func IsCons(o Object) bool { return KindOf(o) == KindCons }
func IsNil(o Object) bool  { return KindOf(o) == KindNil }
