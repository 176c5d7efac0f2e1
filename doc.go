// s-expression values: atoms, cons cells and nil
//
// every value is one of three kinds:
//   1. atom: up to 128 bytes of name. longer input is silently truncated.
//   2. cons: a pair of handles (car, cdr) into the arena that owns them.
//   3. nil:  the single shared empty list, handle 0 in every arena.
//
// an Arena owns the objects it allocates, so conses may share structure or
// form cycles freely. printing a cycle reports ErrCycle.
//
// examples:
//
//   a := sexpobj.NewArena()
//   l := a.List(a.AtomString("a"), a.AtomString("b"))
//   a.String(l)                            // (a b)
//   a.String(a.Cons(l, a.AtomString("c"))) // ((a b) . c)
//
// tables:
//
//   Table[T]     growable array, starts at 32 slots and doubles when full.
//   ObjectTable  Table[Object] storing value copies of objects.
//   ImageTable   Table[[]byte] storing fixed-size object images:
//
//   <atom-image>  :: 0x01 <length:u8> <name:128 bytes> ;
//   <cons-image>  :: 0x02 <car:u32le> <cdr:u32le> ;
//   <nil-image>   :: 0x03 ;
//
// snapshots of a whole arena use canonical CBOR, see MarshalArena.

package sexpobj
