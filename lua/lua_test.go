package lua

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"testing"

	"github.com/alttpo/sexpobj"
	lua "github.com/yuin/gopher-lua"
)

func TestToLua(t *testing.T) {
	a := sexpobj.NewArena()
	x, y := a.AtomString("a+1"), a.AtomString("b-2")

	type test struct {
		name string
		r    sexpobj.Ref
		want string
	}
	var cases = []test{
		{name: "()", r: sexpobj.NilRef, want: `{"list"={}}`},
		{name: "a+1", r: x, want: `{"atom"="a+1"}`},
		{name: "(a+1 b-2)", r: a.List(x, y), want: `{"list"={1={"atom"="a+1"},2={"atom"="b-2"}}}`},
		{name: "((a+1))", r: a.List(a.List(x)), want: `{"list"={1={"list"={1={"atom"="a+1"}}}}}`},
		{name: "(a+1 . b-2)", r: a.Cons(x, y), want: `{"car"={"atom"="a+1"},"cdr"={"atom"="b-2"}}`},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			l := lua.NewState(lua.Options{})
			defer l.Close()

			v, err := ToLua(l, a, tt.r)
			if err != nil {
				t.Fatal(err)
			}
			if got := fmtLua(v); got != tt.want {
				t.Fatalf("want %s\ngot  %s", tt.want, got)
			}

			r, err := FromLua(a, v)
			if err != nil {
				t.Fatal(err)
			}
			if got, want := a.String(r), a.String(tt.r); got != want {
				t.Errorf("round trip = %v, want %v", got, want)
			}
		})
	}
}

func TestToLua_cycle(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	a := sexpobj.NewArena()
	c := a.Cons(a.AtomString("x"), sexpobj.NilRef)
	a.SetCar(c, c)

	v, err := ToLua(l, a, c)
	if !errors.Is(err, sexpobj.ErrCycle) {
		t.Fatalf("ToLua() error = %v, want %v", err, sexpobj.ErrCycle)
	}
	if v != lua.LNil {
		t.Errorf("ToLua() = %v, want nil", v)
	}

	d := a.List(a.AtomString("y"))
	a.SetCdr(d, d)
	if _, err = ToLua(l, a, d); !errors.Is(err, sexpobj.ErrCycle) {
		t.Errorf("ToLua() error = %v, want %v", err, sexpobj.ErrCycle)
	}
}

func TestFromLua_errors(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	err := l.DoString(`
		bad = {
			number = 1,
			empty = {},
			nested = {list = {{oops = true}}},
		}

		local self_cdr = {car = {atom = "x"}}
		self_cdr.cdr = self_cdr
		bad.self_cdr = self_cdr

		local self_list = {list = {}}
		self_list.list[1] = self_list
		bad.self_list = self_list

		local own_list = {}
		own_list.list = own_list
		bad.own_list = own_list

		local inner = {list = {}}
		local outer = {car = inner, cdr = {atom = "y"}}
		inner.list[1] = {car = {atom = "z"}, cdr = outer}
		bad.deep_loop = outer
	`)
	if err != nil {
		t.Fatal(err)
	}
	bad := l.GetGlobal("bad").(*lua.LTable)

	a := sexpobj.NewArena()
	for _, key := range []string{"number", "empty", "nested"} {
		t.Run(key, func(t *testing.T) {
			if _, err := FromLua(a, bad.RawGetString(key)); !errors.Is(err, ErrBadTable) {
				t.Errorf("FromLua() error = %v, want %v", err, ErrBadTable)
			}
		})
	}
	for _, key := range []string{"self_cdr", "self_list", "own_list", "deep_loop"} {
		t.Run(key, func(t *testing.T) {
			_, err := FromLua(a, bad.RawGetString(key))
			if !errors.Is(err, ErrBadTable) || !errors.Is(err, sexpobj.ErrCycle) {
				t.Errorf("FromLua() error = %v, want %v and %v", err, ErrBadTable, sexpobj.ErrCycle)
			}
		})
	}
}

func TestFromLua_sharedTable(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	err := l.DoString(`
		local x = {list = {{atom = "x"}}}
		shared = {list = {x, x, {car = x, cdr = x}}}
	`)
	if err != nil {
		t.Fatal(err)
	}

	a := sexpobj.NewArena()
	r, err := FromLua(a, l.GetGlobal("shared"))
	if err != nil {
		t.Fatal(err)
	}
	if got := a.String(r); got != "((x) (x) ((x) x))" {
		t.Errorf("String() = %v", got)
	}
}

func TestOpen_fromtableCycle(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	Open(l, sexpobj.NewArena())
	err := l.DoString(`
		local t = {car = {atom = "x"}}
		t.cdr = t
		sexp.fromtable(t)
	`)
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestOpen(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	a := sexpobj.NewArena()
	Open(l, a)

	err := l.DoString(`
		local x = sexp.atom("x")
		local y = sexp.atom("y")
		l = sexp.list(x, sexp.cons(x, y), sexp.list())
		s = sexp.tostring(l)
		t = sexp.totable(sexp.cons(x, y))
		r = sexp.fromtable({list = {{atom = "z"}}})
	`)
	if err != nil {
		t.Fatal(err)
	}

	if got := l.GetGlobal("s").String(); got != "(x (x . y) ())" {
		t.Errorf("sexp.tostring() = %v", got)
	}
	if got := fmtLua(l.GetGlobal("t")); got != `{"car"={"atom"="x"},"cdr"={"atom"="y"}}` {
		t.Errorf("sexp.totable() = %v", got)
	}
	r := sexpobj.Ref(l.GetGlobal("r").(lua.LNumber))
	if got := a.String(r); got != "(z)" {
		t.Errorf("sexp.fromtable() = %v", got)
	}
}

func TestOpen_badHandle(t *testing.T) {
	l := lua.NewState(lua.Options{})
	defer l.Close()

	a := sexpobj.NewArena()
	Open(l, a)

	for _, script := range []string{
		`sexp.cons(1, 0)`,
		`sexp.tostring(-1)`,
		`sexp.list(0, "x")`,
	} {
		if err := l.DoString(script); err == nil {
			t.Errorf("%s: expected error", script)
		}
	}

	// handles that wrap around to a live object once truncated to 32 bits
	a.AtomString("x")
	for _, script := range []string{
		`sexp.tostring(4294967297)`,
		`sexp.cons(4294967297, 0)`,
		`sexp.list(1, 4294967296 + 1)`,
	} {
		if err := l.DoString(script); err == nil {
			t.Errorf("%s: expected error", script)
		}
	}
}

func fmtLua(v lua.LValue) string {
	if v == nil {
		return ""
	}

	switch v.Type() {
	case lua.LTTable:
		// string keys live in a map, so sort for a stable rendering
		var entries []string
		v.(*lua.LTable).ForEach(func(key lua.LValue, val lua.LValue) {
			entries = append(entries, fmtLua(key)+"="+fmtLua(val))
		})
		sort.Strings(entries)
		return "{" + strings.Join(entries, ",") + "}"
	case lua.LTString:
		st := string(v.(lua.LString))
		return fmt.Sprintf("%q", st)
	default:
		return v.String()
	}
}
