package depot

import (
	"reflect"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/TheBitDrifter/mask"

	"github.com/TheBitDrifter/depot/pool"
	"github.com/TheBitDrifter/depot/sparse"
)

// MaxKinds is the number of kind slots that can be registered at once. It
// matches the width of an entity's kind signature.
const MaxKinds = 256

// kindSlot owns everything stored under one kind name. A slot's storage is
// bound to a value type on first attach and stays bound until the slot is
// recycled by Cleanup.
type kindSlot struct {
	name    string
	index   int
	bit     mask.Mask
	members *roaring.Bitmap
	values  *sparse.Map
	storage pool.Erased
	typ     reflect.Type
}

func newKindSlot(name string, pages *pool.Pool[sparse.Page]) *kindSlot {
	return &kindSlot{
		name:    name,
		members: roaring.New(),
		values:  sparse.New(pages),
	}
}

func (k *kindSlot) setIndex(index int) {
	k.index = index
	k.bit = kindBit(index)
}

// bind returns the slot's pool for T, creating it on first use.
func bind[T any](k *kindSlot, opts ...pool.Option) (*pool.Pool[T], error) {
	if k.storage == nil {
		p := pool.New[T](opts...)
		k.storage = p
		k.typ = p.Type()
		return p, nil
	}
	p, ok := k.storage.(*pool.Pool[T])
	if !ok {
		return nil, TypeMismatchError{Kind: k.name, Want: k.typ, Have: reflect.TypeFor[T]()}
	}
	return p, nil
}

// typed returns the slot's pool for T without binding an unbound slot.
func typed[T any](k *kindSlot) (*pool.Pool[T], error) {
	if k.storage == nil {
		return nil, nil
	}
	p, ok := k.storage.(*pool.Pool[T])
	if !ok {
		return nil, TypeMismatchError{Kind: k.name, Want: k.typ, Have: reflect.TypeFor[T]()}
	}
	return p, nil
}

// remove erases e from the slot and releases its value. It reports whether
// a value was present.
func (k *kindSlot) remove(e Entity) bool {
	k.members.Remove(uint32(e))
	h := k.values.Erase(uint32(e))
	if h == 0 {
		return false
	}
	k.storage.Release(h)
	return true
}

// reset releases every value and drops the slot's storage so the slot can be
// reused under another name and type.
func (k *kindSlot) reset() {
	if k.storage != nil {
		it := k.members.Iterator()
		for it.HasNext() {
			if h := k.values.Read(it.Next()); h != 0 {
				k.storage.Release(h)
			}
		}
	}
	k.values.Reset()
	k.members.Clear()
	k.storage = nil
	k.typ = nil
}

func (k *kindSlot) stats() KindStats {
	st := KindStats{
		Slot:    k.index,
		Members: k.members.GetCardinality(),
		Values:  k.values.Len(),
		Pages:   k.values.Pages(),
		Bound:   k.storage != nil,
	}
	if k.storage != nil {
		st.Pool = k.storage.Stats()
	}
	return st
}
