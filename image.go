package sexpobj

import (
	"encoding/binary"
	"fmt"
)

// Image sizes of each variant. An image is the tag byte followed by the
// variant's fields at fixed offsets.
const (
	atomFootprint = 1 + 1 + MaxAtomSize
	consFootprint = 1 + 4 + 4
	nilFootprint  = 1
)

// Footprint returns the size in bytes of the binary image of kind k.
func Footprint(k Kind) int {
	switch k {
	case KindAtom:
		return atomFootprint
	case KindCons:
		return consFootprint
	case KindNil:
		return nilFootprint
	}
	panic(fmt.Errorf("%w: %v", ErrInvalidKind, k))
}

// MarshalBinary returns the full atom image, unused name bytes included.
func (a *Atom) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, atomFootprint)
	b = append(b, byte(KindAtom), a.length)
	b = append(b, a.name[:]...)
	return b, nil
}

func (c *Cons) MarshalBinary() ([]byte, error) {
	b := make([]byte, 0, consFootprint)
	b = append(b, byte(KindCons))
	b = binary.LittleEndian.AppendUint32(b, uint32(c.Car))
	b = binary.LittleEndian.AppendUint32(b, uint32(c.Cdr))
	return b, nil
}

func (n *null) MarshalBinary() ([]byte, error) {
	return []byte{byte(n.kind)}, nil
}

// UnmarshalObject decodes one image. A Nil image yields the Nil singleton.
func UnmarshalObject(b []byte) (o Object, err error) {
	if len(b) < 1 {
		err = ErrShortImage
		return
	}

	k := Kind(b[0])
	if !k.Valid() {
		err = fmt.Errorf("%w: %v", ErrInvalidKind, k)
		return
	}
	if len(b) < Footprint(k) {
		err = fmt.Errorf("%w: %v needs %d bytes, have %d", ErrShortImage, k, Footprint(k), len(b))
		return
	}

	switch k {
	case KindAtom:
		n := int(b[1])
		if n > MaxAtomSize {
			err = fmt.Errorf("%w: %d", ErrAtomLength, n)
			return
		}
		a := &Atom{length: uint8(n)}
		copy(a.name[:], b[2:atomFootprint])
		o = a
	case KindCons:
		o = &Cons{
			Car: Ref(binary.LittleEndian.Uint32(b[1:5])),
			Cdr: Ref(binary.LittleEndian.Uint32(b[5:9])),
		}
	case KindNil:
		o = Nil
	}
	return
}
