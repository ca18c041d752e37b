package depot

import (
	"github.com/RoaringBitmap/roaring/v2"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"

	"github.com/TheBitDrifter/depot/filter"
)

type query struct {
	reg   *registry
	kinds []string
	slots []*kindSlot
}

func newQuery(reg *registry, kinds []string) *query {
	return &query{
		reg:   reg,
		kinds: append([]string(nil), kinds...),
		slots: make([]*kindSlot, 0, len(kinds)),
	}
}

func (q *query) Kinds() []string {
	return q.kinds
}

// Filter evaluates expr and returns a View over the matching entities with
// one column per selected kind. A matching entity must also hold every
// selected kind.
func (q *query) Filter(expr string) (*View, error) {
	v := &View{}
	if err := q.FilterInto(v, expr); err != nil {
		return nil, err
	}
	return v, nil
}

// FilterInto is like Filter but reuses dst's buffers.
func (q *query) FilterInto(dst *View, expr string) error {
	tree, err := q.reg.compile(expr)
	if err != nil {
		return err
	}
	if err := q.reg.resolve(tree); err != nil {
		return err
	}
	q.slots = q.slots[:0]
	for _, name := range q.kinds {
		k, err := q.reg.slotFor(name)
		if err != nil {
			return err
		}
		q.slots = append(q.slots, k)
	}

	result := filter.Eval[*roaring.Bitmap](tree, bitmapAdapter{q.reg})
	if len(q.slots) > 0 {
		matched := roaring.And(result, q.slots[0].members)
		for _, k := range q.slots[1:] {
			matched.And(k.members)
		}
		result = matched
	}
	dst.fill(result, q.slots)
	return nil
}

func (r *registry) compile(expr string) (filter.Expr, error) {
	if tree, ok := r.filter.get(expr); ok {
		return tree, nil
	}
	tree, err := filter.Parse(expr)
	if err != nil {
		r.log.Debug("filter rejected", zap.String("filter", expr), zap.Error(err))
		return nil, BadQuerySyntaxError{Filter: expr, Err: err}
	}
	r.filter.put(expr, tree)
	r.log.Debug("filter compiled", zap.String("filter", expr), zap.Stringer("expr", tree))
	return tree, nil
}

// bitmapAdapter evaluates filters over membership bitmaps. Leaves return the
// live membership bitmap, so combinators always build new bitmaps.
type bitmapAdapter struct {
	reg *registry
}

var _ filter.Adapter[*roaring.Bitmap] = bitmapAdapter{}

func (a bitmapAdapter) Evaluate(name string) *roaring.Bitmap {
	if k := a.reg.slot(name); k != nil {
		return k.members
	}
	return roaring.New()
}

func (bitmapAdapter) And(x, y *roaring.Bitmap) *roaring.Bitmap {
	return roaring.And(x, y)
}

func (bitmapAdapter) Or(x, y *roaring.Bitmap) *roaring.Bitmap {
	return roaring.Or(x, y)
}

// Not complements x over [0, number of kind slots). This range is the kind
// count, not the entity space; ComplementOverEntities switches to live entities.
func (a bitmapAdapter) Not(x *roaring.Bitmap) *roaring.Bitmap {
	if a.reg.opts.ComplementOverEntities {
		return roaring.AndNot(a.reg.entities.alive, x)
	}
	return roaring.Flip(x, 0, uint64(a.reg.kinds.Len()))
}

type cachedFilter struct {
	src  string
	tree filter.Expr
}

// filterCache keeps parsed filters keyed by the hash of their source.
type filterCache struct {
	capacity int
	entries  map[uint64]cachedFilter
}

func newFilterCache(capacity int) *filterCache {
	return &filterCache{
		capacity: capacity,
		entries:  make(map[uint64]cachedFilter, capacity),
	}
}

func (c *filterCache) get(src string) (filter.Expr, bool) {
	entry, ok := c.entries[xxhash.Sum64String(src)]
	if !ok || entry.src != src {
		return nil, false
	}
	return entry.tree, true
}

func (c *filterCache) put(src string, tree filter.Expr) {
	if len(c.entries) >= c.capacity {
		clear(c.entries)
	}
	c.entries[xxhash.Sum64String(src)] = cachedFilter{src: src, tree: tree}
}

func (c *filterCache) len() int {
	return len(c.entries)
}
