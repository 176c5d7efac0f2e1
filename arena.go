package sexpobj

import "fmt"

// Ref is a handle to an object owned by an Arena. NilRef always denotes
// Nil; any other value is only meaningful to the arena that issued it.
type Ref uint32

const NilRef Ref = 0

// Arena owns every atom and cons it allocates. Conses refer to their car
// and cdr by Ref, so shared and cyclic structure needs no ownership
// tracking: objects live as long as the arena does.
type Arena struct {
	objs Table[Object]
}

func NewArena() *Arena {
	return NewArenaWithOptions(DefaultOptions())
}

func NewArenaWithOptions(opts Options) *Arena {
	a := &Arena{}
	a.objs.Init()
	a.objs.Adjust(opts.Table.InitialCapacity)
	return a
}

func (a *Arena) alloc(o Object) Ref {
	return Ref(a.objs.Insert(o) + 1)
}

// Valid reports whether r is NilRef or was issued by a.
func (a *Arena) Valid(r Ref) bool {
	return r == NilRef || uint64(r) <= uint64(a.objs.Len())
}

func (a *Arena) mustValid(r Ref) {
	if !a.Valid(r) {
		panic(fmt.Errorf("%w: %d", ErrInvalidRef, r))
	}
}

func (a *Arena) Nil() Ref { return NilRef }

// Atom allocates an atom from p; see MakeAtom for truncation.
func (a *Arena) Atom(p []byte) Ref {
	return a.alloc(MakeAtom(p))
}

func (a *Arena) AtomString(s string) Ref {
	return a.alloc(MakeAtomString(s))
}

func (a *Arena) Cons(car, cdr Ref) Ref {
	a.mustValid(car)
	a.mustValid(cdr)
	return a.alloc(MakeCons(car, cdr))
}

// Get returns the object r refers to. The returned object is live: it is
// the arena's own copy.
func (a *Arena) Get(r Ref) Object {
	a.mustValid(r)
	if r == NilRef {
		return Nil
	}
	return a.objs.Item(int(r) - 1)
}

func (a *Arena) IsAtom(r Ref) bool { return IsAtom(a.Get(r)) }
func (a *Arena) IsCons(r Ref) bool { return IsCons(a.Get(r)) }
func (a *Arena) IsNil(r Ref) bool  { return IsNil(a.Get(r)) }

func (a *Arena) cons(r Ref) *Cons {
	c, ok := a.Get(r).(*Cons)
	if !ok {
		panic(fmt.Errorf("%w: %d is %v", ErrNotCons, r, KindOf(a.Get(r))))
	}
	return c
}

func (a *Arena) Car(r Ref) Ref { return a.cons(r).Car }
func (a *Arena) Cdr(r Ref) Ref { return a.cons(r).Cdr }

func (a *Arena) SetCar(r, v Ref) {
	a.mustValid(v)
	a.cons(r).Car = v
}

func (a *Arena) SetCdr(r, v Ref) {
	a.mustValid(v)
	a.cons(r).Cdr = v
}

// Len returns the number of allocated objects, Nil excluded.
func (a *Arena) Len() int {
	return a.objs.Len()
}

// Each visits every allocated object in allocation order.
func (a *Arena) Each(fn func(r Ref, o Object) bool) {
	a.objs.Each(func(i int, o Object) bool {
		return fn(Ref(i+1), o)
	})
}
