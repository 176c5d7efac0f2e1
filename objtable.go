package sexpobj

import "fmt"

// ObjectTable holds value copies of objects. Atoms and conses are copied
// on insert; Nil is stored as the shared singleton.
type ObjectTable struct {
	Table[Object]
}

func NewObjectTable() *ObjectTable {
	t := &ObjectTable{}
	t.Init()
	return t
}

// InsertObject copies o according to its kind and returns its index.
func (t *ObjectTable) InsertObject(o Object) int {
	return t.Insert(copyObject(o))
}

func copyObject(o Object) Object {
	switch KindOf(o) {
	case KindAtom:
		a := *o.(*Atom)
		return &a
	case KindCons:
		c := *o.(*Cons)
		return &c
	default:
		return Nil
	}
}

// ImageTable holds object images, each in a slot sized exactly to the
// object's footprint.
type ImageTable struct {
	Table[[]byte]
}

func NewImageTable() *ImageTable {
	t := &ImageTable{}
	t.Init()
	return t
}

// InsertBytes copies the first size bytes of p into a fresh slot.
func (t *ImageTable) InsertBytes(p []byte, size int) int {
	if size < 0 || len(p) < size {
		panic(fmt.Errorf("%w: want %d bytes, have %d", ErrShortImage, size, len(p)))
	}
	slot := make([]byte, size)
	copy(slot, p)
	return t.Insert(slot)
}

// InsertImage stores the binary image of o, sized by its kind.
func (t *ImageTable) InsertImage(o Object) int {
	size := Footprint(KindOf(o))
	img, err := o.MarshalBinary()
	if err != nil {
		panic(err)
	}
	return t.InsertBytes(img, size)
}

// Object decodes the image stored at index i.
func (t *ImageTable) Object(i int) (Object, error) {
	return UnmarshalObject(t.Item(i))
}
