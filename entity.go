package depot

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"
)

// entities hands out entity handles. Destroyed handles go on a LIFO free
// list; a handle at or above next has never been issued.
type entities struct {
	next       Entity
	free       []Entity
	alive      *roaring.Bitmap
	signatures []mask.Mask
}

func newEntities() entities {
	return entities{alive: roaring.New()}
}

func (es *entities) create() Entity {
	var e Entity
	if n := len(es.free); n > 0 {
		e = es.free[n-1]
		es.free = es.free[:n-1]
	} else {
		e = es.next
		es.next++
		es.signatures = append(es.signatures, mask.Mask{})
	}
	es.alive.Add(uint32(e))
	return e
}

func (es *entities) release(e Entity) {
	es.signatures[e] = mask.Mask{}
	es.alive.Remove(uint32(e))
	es.free = append(es.free, e)
}

func (es *entities) signature(e Entity) mask.Mask {
	if int(e) >= len(es.signatures) {
		return mask.Mask{}
	}
	return es.signatures[e]
}

func (es *entities) mark(e Entity, slot int) {
	es.signatures[e].Mark(uint32(slot))
}

func (es *entities) unmark(e Entity, slot int) {
	es.signatures[e].Unmark(uint32(slot))
}

func (r *registry) Create() Entity {
	return r.entities.create()
}

func (r *registry) Alive(e Entity) bool {
	return r.entities.alive.Contains(uint32(e))
}

// Destroy removes every value held by e and recycles the handle.
func (r *registry) Destroy(e Entity) error {
	if !r.entities.alive.Contains(uint32(e)) {
		return UnknownEntityError{Entity: e}
	}
	sig := r.entities.signature(e)
	if sig != (mask.Mask{}) {
		for _, item := range r.kinds.All() {
			k := *item
			if sig.ContainsAll(k.bit) {
				k.remove(e)
			}
		}
	}
	r.entities.release(e)
	r.log.Debug("entity destroyed", zap.Uint32("entity", uint32(e)))
	return nil
}
