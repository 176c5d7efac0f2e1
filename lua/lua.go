// Package lua exposes arena objects to gopher-lua.
//
// Objects map to tables:
//
//	atom           {atom="name"}
//	proper list    {list={...}}      () is {list={}}
//	dotted cons    {car=..., cdr=...}
package lua

import (
	"errors"
	"fmt"
	"math"

	"github.com/alttpo/sexpobj"
	"github.com/tliron/commonlog"
	lua "github.com/yuin/gopher-lua"
)

var ErrBadTable = errors.New("table is not an s-expression")

var log = commonlog.GetLogger("sexpobj.lua")

// ToLua converts r into Lua tables. Cyclic structure yields
// sexpobj.ErrCycle.
func ToLua(l *lua.LState, a *sexpobj.Arena, r sexpobj.Ref) (v lua.LValue, err error) {
	v, err = toLua(l, a, r, make(map[sexpobj.Ref]struct{}))
	if err != nil {
		return lua.LNil, err
	}
	log.Debugf("converted %d to lua", r)
	return
}

func toLua(l *lua.LState, a *sexpobj.Arena, r sexpobj.Ref, path map[sexpobj.Ref]struct{}) (v lua.LValue, err error) {
	t := l.NewTable()

	switch o := a.Get(r).(type) {
	case *sexpobj.Atom:
		t.RawSetString("atom", lua.LString(o.Name()))
		return t, nil
	case *sexpobj.Cons:
		// handled below
	default:
		t.RawSetString("list", l.NewTable())
		return t, nil
	}

	if _, ok := path[r]; ok {
		return nil, sexpobj.ErrCycle
	}
	path[r] = struct{}{}
	defer delete(path, r)

	var items []sexpobj.Ref
	items, err = a.ListToSlice(r)
	if errors.Is(err, sexpobj.ErrImproperList) {
		var car, cdr lua.LValue
		car, err = toLua(l, a, a.Car(r), path)
		if err != nil {
			return
		}
		cdr, err = toLua(l, a, a.Cdr(r), path)
		if err != nil {
			return
		}
		t.RawSetString("car", car)
		t.RawSetString("cdr", cdr)
		return t, nil
	}
	if err != nil {
		return
	}

	list := l.NewTable()
	for _, c := range items {
		var cv lua.LValue
		cv, err = toLua(l, a, c, path)
		if err != nil {
			return
		}
		list.Append(cv)
	}
	t.RawSetString("list", list)
	return t, nil
}

// FromLua allocates the object described by v in a. lua nil is Nil.
// A table that contains itself is rejected with ErrBadTable.
func FromLua(a *sexpobj.Arena, v lua.LValue) (r sexpobj.Ref, err error) {
	return fromLua(a, v, make(map[*lua.LTable]struct{}))
}

func fromLua(a *sexpobj.Arena, v lua.LValue, path map[*lua.LTable]struct{}) (r sexpobj.Ref, err error) {
	if v == lua.LNil {
		return sexpobj.NilRef, nil
	}

	t, ok := v.(*lua.LTable)
	if !ok {
		err = fmt.Errorf("%w: got %s", ErrBadTable, v.Type())
		return
	}

	if s, ok := t.RawGetString("atom").(lua.LString); ok {
		return a.AtomString(string(s)), nil
	}

	if _, ok := path[t]; ok {
		err = fmt.Errorf("%w: %w", ErrBadTable, sexpobj.ErrCycle)
		return
	}
	path[t] = struct{}{}
	defer delete(path, t)

	if list, ok := t.RawGetString("list").(*lua.LTable); ok {
		if _, ok := path[list]; ok {
			err = fmt.Errorf("%w: %w", ErrBadTable, sexpobj.ErrCycle)
			return
		}
		path[list] = struct{}{}
		defer delete(path, list)

		refs := make([]sexpobj.Ref, 0, list.Len())
		for i := 1; i <= list.Len(); i++ {
			var c sexpobj.Ref
			c, err = fromLua(a, list.RawGetInt(i), path)
			if err != nil {
				return
			}
			refs = append(refs, c)
		}
		return a.List(refs...), nil
	}

	car, cdr := t.RawGetString("car"), t.RawGetString("cdr")
	if car == lua.LNil && cdr == lua.LNil {
		err = ErrBadTable
		return
	}

	var carRef, cdrRef sexpobj.Ref
	carRef, err = fromLua(a, car, path)
	if err != nil {
		return
	}
	cdrRef, err = fromLua(a, cdr, path)
	if err != nil {
		return
	}
	return a.Cons(carRef, cdrRef), nil
}

// Open installs a global "sexp" module whose functions allocate in a.
// Handles are plain Lua numbers.
//
//	sexp.atom(s)          -> ref
//	sexp.cons(car, cdr)   -> ref
//	sexp.list(...)        -> ref
//	sexp.tostring(ref)    -> string
//	sexp.totable(ref)     -> table
//	sexp.fromtable(t)     -> ref
func Open(l *lua.LState, a *sexpobj.Arena) {
	mod := l.NewTable()
	l.SetFuncs(mod, map[string]lua.LGFunction{
		"atom": func(l *lua.LState) int {
			l.Push(lua.LNumber(a.AtomString(l.CheckString(1))))
			return 1
		},
		"cons": func(l *lua.LState) int {
			car, cdr := checkRef(l, a, 1), checkRef(l, a, 2)
			l.Push(lua.LNumber(a.Cons(car, cdr)))
			return 1
		},
		"list": func(l *lua.LState) int {
			refs := make([]sexpobj.Ref, 0, l.GetTop())
			for i := 1; i <= l.GetTop(); i++ {
				refs = append(refs, checkRef(l, a, i))
			}
			l.Push(lua.LNumber(a.List(refs...)))
			return 1
		},
		"tostring": func(l *lua.LState) int {
			l.Push(lua.LString(a.String(checkRef(l, a, 1))))
			return 1
		},
		"totable": func(l *lua.LState) int {
			v, err := ToLua(l, a, checkRef(l, a, 1))
			if err != nil {
				l.RaiseError("%v", err)
				return 0
			}
			l.Push(v)
			return 1
		},
		"fromtable": func(l *lua.LState) int {
			r, err := FromLua(a, l.CheckTable(1))
			if err != nil {
				l.RaiseError("%v", err)
				return 0
			}
			l.Push(lua.LNumber(r))
			return 1
		},
	})
	l.SetGlobal("sexp", mod)
}

func checkRef(l *lua.LState, a *sexpobj.Arena, n int) sexpobj.Ref {
	v := l.CheckInt64(n)
	if v < 0 || v > math.MaxUint32 || !a.Valid(sexpobj.Ref(v)) {
		l.ArgError(n, fmt.Sprintf("invalid handle %d", v))
		return sexpobj.NilRef
	}
	return sexpobj.Ref(v)
}
