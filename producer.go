package sexpobj

type Producer interface {
	Atom(p []byte) Ref
	Cons(car, cdr Ref) Ref
	List(children ...Ref) Ref
}

var _ Producer = (*Arena)(nil)

// List builds a proper list of children. An empty list is NilRef.
func (a *Arena) List(children ...Ref) (r Ref) {
	return a.Dotted(NilRef, children...)
}

// Dotted builds a list of children ending in tail instead of Nil.
func (a *Arena) Dotted(tail Ref, children ...Ref) (r Ref) {
	r = tail
	for i := len(children) - 1; i >= 0; i-- {
		r = a.Cons(children[i], r)
	}
	return
}

// ListToSlice returns the elements of the proper list r.
func (a *Arena) ListToSlice(r Ref) (refs []Ref, err error) {
	seen := make(map[Ref]struct{})
	refs = make([]Ref, 0, 10)
	for {
		if a.IsNil(r) {
			return
		}
		if !a.IsCons(r) {
			return nil, ErrImproperList
		}
		if _, ok := seen[r]; ok {
			return nil, ErrCycle
		}
		seen[r] = struct{}{}

		refs = append(refs, a.Car(r))
		r = a.Cdr(r)
	}
}
