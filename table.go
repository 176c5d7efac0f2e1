package sexpobj

import (
	"fmt"

	"github.com/tliron/commonlog"
)

// InitTableSize is the capacity every table starts with.
const InitTableSize = 32

var tableLog = commonlog.GetLogger("sexpobj.table")

type tableState uint8

const (
	tableUninitialized tableState = iota
	tableInitialized
	tableReleased
)

// Table is a growable array of T values. The zero value must be Init'd
// before use. Free is final: a released table panics on every call but Free.
//
// A Table is not safe for concurrent use.
type Table[T any] struct {
	items    []T
	used     int
	capacity int
	resizes  int
	state    tableState
}

func NewTable[T any]() *Table[T] {
	t := &Table[T]{}
	t.Init()
	return t
}

// Init resets t to an empty table of InitTableSize slots.
func (t *Table[T]) Init() {
	if t.state == tableReleased {
		panic(ErrTableReleased)
	}
	t.items = make([]T, InitTableSize)
	t.used = 0
	t.capacity = InitTableSize
	t.resizes = 0
	t.state = tableInitialized
}

func (t *Table[T]) check() {
	switch t.state {
	case tableUninitialized:
		panic(ErrTableNotInitialized)
	case tableReleased:
		panic(ErrTableReleased)
	}
}

// Adjust grows the backing storage to exactly n slots when n exceeds the
// current capacity. Entries keep their indices. It never shrinks.
func (t *Table[T]) Adjust(n int) {
	t.check()
	if n <= t.capacity {
		return
	}

	items := make([]T, n)
	copy(items, t.items[:t.used])
	tableLog.Debugf("resize %d -> %d slots (%d used)", t.capacity, n, t.used)

	t.items = items
	t.capacity = n
	t.resizes++
}

// Insert stores v at the next free index and returns that index. A full
// table doubles first, so N inserts cost O(log N) resizes.
func (t *Table[T]) Insert(v T) int {
	t.check()
	if t.used == t.capacity {
		t.Adjust(max(2*t.capacity, t.used+1))
	}

	i := t.used
	t.items[i] = v
	t.used++
	return i
}

func (t *Table[T]) Item(i int) T {
	t.check()
	if i < 0 || i >= t.used {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, t.used))
	}
	return t.items[i]
}

// set overwrites an existing entry in place.
func (t *Table[T]) set(i int, v T) {
	t.check()
	if i < 0 || i >= t.used {
		panic(fmt.Errorf("%w: %d not in [0, %d)", ErrIndexOutOfRange, i, t.used))
	}
	t.items[i] = v
}

func (t *Table[T]) Len() int {
	t.check()
	return t.used
}

func (t *Table[T]) Cap() int {
	t.check()
	return t.capacity
}

// Resizes reports how many times Adjust reallocated since Init.
func (t *Table[T]) Resizes() int {
	t.check()
	return t.resizes
}

// Each calls fn for every entry in insertion order until fn returns false.
func (t *Table[T]) Each(fn func(i int, v T) bool) {
	t.check()
	for i := 0; i < t.used; i++ {
		if !fn(i, t.items[i]) {
			return
		}
	}
}

// Free drops the backing storage and zeroes the counters.
func (t *Table[T]) Free() {
	if t.state != tableInitialized {
		return
	}
	t.items = nil
	t.used = 0
	t.capacity = 0
	t.state = tableReleased
}
