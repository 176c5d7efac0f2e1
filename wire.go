package sexpobj

import (
	"fmt"
	"math"

	"github.com/fxamacker/cbor/v2"
	"github.com/tliron/commonlog"
)

const snapshotVersion = 1

var wireLog = commonlog.GetLogger("sexpobj.wire")

var (
	cborEncMode cbor.EncMode
	cborDecMode cbor.DecMode
)

func init() {
	em, err := cbor.CanonicalEncOptions().EncMode()
	if err != nil {
		panic(fmt.Sprintf("sexpobj: failed to create CBOR enc mode: %v", err))
	}
	cborEncMode = em

	// the default limit of 131072 elements is far below what an arena holds
	dm, err := cbor.DecOptions{MaxArrayElements: math.MaxInt32}.DecMode()
	if err != nil {
		panic(fmt.Sprintf("sexpobj: failed to create CBOR dec mode: %v", err))
	}
	cborDecMode = dm
}

type objectRecord struct {
	_    struct{} `cbor:",toarray"`
	Kind Kind
	Name []byte
	Car  Ref
	Cdr  Ref
}

type arenaSnapshot struct {
	_       struct{} `cbor:",toarray"`
	Version uint
	Objects []objectRecord
}

// MarshalArena serializes every object of a, in allocation order, to
// canonical CBOR. Refs stay valid across a round trip.
func MarshalArena(a *Arena) ([]byte, error) {
	s := arenaSnapshot{
		Version: snapshotVersion,
		Objects: make([]objectRecord, 0, a.Len()),
	}
	a.Each(func(_ Ref, o Object) bool {
		switch v := o.(type) {
		case *Atom:
			s.Objects = append(s.Objects, objectRecord{Kind: KindAtom, Name: v.Bytes()})
		case *Cons:
			s.Objects = append(s.Objects, objectRecord{Kind: KindCons, Car: v.Car, Cdr: v.Cdr})
		}
		return true
	})

	data, err := cborEncMode.Marshal(&s)
	if err != nil {
		return nil, fmt.Errorf("sexpobj: marshal arena: %w", err)
	}
	wireLog.Debugf("marshaled %d objects into %d bytes", len(s.Objects), len(data))
	return data, nil
}

// UnmarshalArena rebuilds an arena from MarshalArena output.
func UnmarshalArena(data []byte) (*Arena, error) {
	var s arenaSnapshot
	if err := cborDecMode.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("sexpobj: unmarshal arena: %w", err)
	}
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("sexpobj: unmarshal arena: unsupported version %d", s.Version)
	}
	if uint64(len(s.Objects)) > math.MaxUint32 {
		return nil, fmt.Errorf("sexpobj: unmarshal arena: %w: %d objects", ErrInvalidRef, len(s.Objects))
	}

	opts := DefaultOptions()
	opts.Table.InitialCapacity = len(s.Objects)
	a := NewArenaWithOptions(opts)

	n := Ref(len(s.Objects))
	for i, rec := range s.Objects {
		switch rec.Kind {
		case KindAtom:
			if len(rec.Name) > MaxAtomSize {
				return nil, fmt.Errorf("sexpobj: unmarshal arena: object %d: %w: %d", i+1, ErrAtomLength, len(rec.Name))
			}
			a.alloc(MakeAtom(rec.Name))
		case KindCons:
			if rec.Car > n || rec.Cdr > n {
				return nil, fmt.Errorf("sexpobj: unmarshal arena: object %d: %w", i+1, ErrInvalidRef)
			}
			// handles may point forward; check against the snapshot
			// rather than the arena built so far.
			a.alloc(MakeCons(rec.Car, rec.Cdr))
		default:
			return nil, fmt.Errorf("sexpobj: unmarshal arena: object %d: %w: %v", i+1, ErrInvalidKind, rec.Kind)
		}
	}

	wireLog.Debugf("unmarshaled %d objects from %d bytes", a.Len(), len(data))
	return a, nil
}
