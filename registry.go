package depot

import (
	"github.com/TheBitDrifter/mask"
	"go.uber.org/zap"

	"github.com/TheBitDrifter/depot/filter"
	"github.com/TheBitDrifter/depot/pool"
	"github.com/TheBitDrifter/depot/sparse"
)

var _ Registry = &registry{}

type registry struct {
	opts   Options
	log    *zap.Logger
	kinds  Cache[*kindSlot]
	pages  *pool.Pool[sparse.Page]
	filter *filterCache

	entities entities
}

func newRegistry(opts ...Option) (*registry, error) {
	s := settings{opts: DefaultOptions()}
	for _, opt := range opts {
		opt(&s)
	}
	s.opts = s.opts.normalized()
	logger := s.logger
	if logger == nil {
		built, err := s.opts.buildLogger()
		if err != nil {
			return nil, err
		}
		logger = built
	}
	return &registry{
		opts:     s.opts,
		log:      logger,
		kinds:    FactoryNewCache[*kindSlot](MaxKinds),
		pages:    sparse.NewPagePool(pool.WithBlockBytes(s.opts.BlockBytes)),
		filter:   newFilterCache(s.opts.FilterCacheSize),
		entities: newEntities(),
	}, nil
}

// slot returns the slot registered under name, or nil.
func (r *registry) slot(name string) *kindSlot {
	idx, ok := r.kinds.GetIndex(name)
	if !ok {
		return nil
	}
	return *r.kinds.GetItem(idx)
}

// slotFor returns the slot registered under name, registering an empty one
// if the name was never seen.
func (r *registry) slotFor(name string) (*kindSlot, error) {
	if k := r.slot(name); k != nil {
		return k, nil
	}
	k := newKindSlot(name, r.pages)
	idx, err := r.kinds.Register(name, k)
	if err != nil {
		return nil, err
	}
	k.setIndex(idx)
	r.log.Debug("kind slot registered", zap.String("kind", name), zap.Int("slot", idx))
	return k, nil
}

func (r *registry) poolOptions(kind string) []pool.Option {
	opts := []pool.Option{pool.WithBlockBytes(r.opts.BlockBytes)}
	if n := r.opts.SizeHints[kind]; n > 0 {
		opts = append(opts, pool.WithSizeHint(n))
	}
	return opts
}

func (r *registry) Has(e Entity, kind string) bool {
	k := r.slot(kind)
	if k == nil || !r.entities.alive.Contains(uint32(e)) {
		return false
	}
	sig := r.entities.signature(e)
	if !sig.ContainsAll(k.bit) {
		return false
	}
	return k.members.Contains(uint32(e))
}

// Detach removes the value of kind from e and reports whether one was present.
func (r *registry) Detach(e Entity, kind string) bool {
	k := r.slot(kind)
	if k == nil || !r.entities.alive.Contains(uint32(e)) {
		return false
	}
	r.entities.unmark(e, k.index)
	return k.remove(e)
}

// SizeHint advises the block capacity of kind's pool. It only has an effect
// before the kind's first value is attached.
func (r *registry) SizeHint(kind string, n int) {
	if r.opts.SizeHints == nil {
		r.opts.SizeHints = make(map[string]int)
	}
	r.opts.SizeHints[kind] = n
}

func (r *registry) Select(kinds ...string) Query {
	return newQuery(r, kinds)
}

// Cleanup recycles every kind slot without members and compacts the
// membership bitmaps of the rest. Entities that hold no components are left
// alive.
func (r *registry) Cleanup() {
	var recycled []string
	for _, item := range r.kinds.All() {
		k := *item
		if k.members.IsEmpty() {
			recycled = append(recycled, k.name)
			continue
		}
		k.members.RunOptimize()
	}
	for _, name := range recycled {
		k := r.slot(name)
		k.reset()
		r.kinds.Unregister(name)
		r.log.Debug("kind slot recycled", zap.String("kind", name), zap.Int("slot", k.index))
	}
	r.entities.alive.RunOptimize()
}

// Reset destroys every entity and drops every kind slot. Values are torn
// down as they are released. Options and compiled filters are kept.
func (r *registry) Reset() {
	for _, item := range r.kinds.All() {
		(*item).reset()
	}
	r.kinds.Clear()
	r.entities = newEntities()
	r.log.Debug("registry reset")
}

func (r *registry) Len() int {
	return int(r.entities.alive.GetCardinality())
}

// Kinds returns the number of kind slots handed out, recycled ones included.
func (r *registry) Kinds() int {
	return r.kinds.Len()
}

func (r *registry) KindStats(kind string) (KindStats, bool) {
	k := r.slot(kind)
	if k == nil {
		return KindStats{}, false
	}
	return k.stats(), true
}

func (r *registry) Batch() *Batch {
	return &Batch{reg: r}
}

// Attach stores value under kind for e, replacing any value already there,
// and returns a pointer to the stored copy. The first attach to a kind binds
// it to T.
func Attach[T any](r Registry, e Entity, kind string, value T) (*T, error) {
	reg := r.(*registry)
	if !reg.entities.alive.Contains(uint32(e)) {
		return nil, UnknownEntityError{Entity: e}
	}
	k, err := reg.slotFor(kind)
	if err != nil {
		return nil, err
	}
	unbound := k.storage == nil
	p, err := bind[T](k, reg.poolOptions(kind)...)
	if err != nil {
		reg.log.Warn("attach rejected", zap.String("kind", kind), zap.Error(err))
		return nil, err
	}
	if unbound {
		reg.log.Debug("kind slot bound",
			zap.String("kind", kind),
			zap.Stringer("type", p.Type()),
			zap.Int("block_capacity", p.BlockCapacity()),
		)
	}
	if prev := k.values.Read(uint32(e)); prev != 0 {
		p.Release(prev)
	}
	h, ptr := p.Acquire()
	*ptr = value
	k.values.Write(uint32(e), h)
	k.members.Add(uint32(e))
	reg.entities.mark(e, k.index)
	return ptr, nil
}

// Get returns the value of kind held by e.
func Get[T any](r Registry, e Entity, kind string) (*T, error) {
	reg := r.(*registry)
	if !reg.entities.alive.Contains(uint32(e)) {
		return nil, UnknownEntityError{Entity: e}
	}
	k := reg.slot(kind)
	if k == nil {
		return nil, ComponentNotFoundError{Entity: e, Kind: kind}
	}
	p, err := typed[T](k)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ComponentNotFoundError{Entity: e, Kind: kind}
	}
	v := p.Get(k.values.Read(uint32(e)))
	if v == nil {
		return nil, ComponentNotFoundError{Entity: e, Kind: kind}
	}
	return v, nil
}

// resolve registers every leaf of e so evaluation never meets an unknown kind.
func (r *registry) resolve(e filter.Expr) error {
	for _, name := range filter.Leaves(e) {
		if _, err := r.slotFor(name); err != nil {
			return err
		}
	}
	return nil
}

func kindBit(index int) mask.Mask {
	var m mask.Mask
	m.Mark(uint32(index))
	return m
}
