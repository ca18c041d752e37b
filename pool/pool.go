// Package pool provides a slab allocator for fixed-size values.
//
// A Pool hands out slots from fixed-capacity blocks and recycles released
// slots through a per-block free stack. Slots are addressed by a packed
// Handle rather than a raw pointer, so the owning block of a released slot
// is known without scanning, and a stale Handle resolves to nil instead of
// aliasing whatever value reused the slot.
package pool

import (
	"reflect"
	"unsafe"
)

const (
	// DefaultBlockBytes is the byte budget used to size blocks when no size hint is given.
	DefaultBlockBytes = 32768
	// MaxBlockBytes caps the byte budget of a single block.
	MaxBlockBytes = 65536
	// MaxBlockCapacity is the largest number of slots a block can hold.
	MaxBlockCapacity = 1 << slotBits
)

// Teardowner is implemented by values that must release resources when
// their slot is returned to the pool.
type Teardowner interface {
	Teardown()
}

// Erased is the type-erased view of a Pool used by owners that hold pools of
// different element types side by side.
type Erased interface {
	Release(Handle) bool
	Live() int
	Stats() Stats
	Type() reflect.Type
	BlockCapacity() int
}

var _ Erased = &Pool[int]{}

// Stats reports allocation counters for a Pool.
type Stats struct {
	Live            int
	Blocks          int
	BlockCapacity   int
	Acquired        uint64
	Released        uint64
	BlocksAllocated uint64
	BlocksFreed     uint64
}

// block tracks, per slot, the last generation handed out. Generations of a
// slot only grow, so a released Handle can never match a later one. A slot
// whose generation is exhausted is retired instead of returned to the free
// stack.
type block[T any] struct {
	items   []T
	gens    []uint32
	live    []bool
	free    []uint16
	retired int
}

func newBlock[T any](capacity int, base uint32) *block[T] {
	b := &block[T]{
		items: make([]T, capacity),
		gens:  make([]uint32, capacity),
		live:  make([]bool, capacity),
		free:  make([]uint16, capacity),
	}
	// Lowest slot on top of the stack.
	for i := range b.free {
		b.free[i] = uint16(capacity - 1 - i)
		b.gens[i] = base
	}
	return b
}

func (b *block[T]) vacant() bool {
	return len(b.free)+b.retired == len(b.items)
}

// epoch is the highest generation issued by any slot of b.
func (b *block[T]) epoch() uint32 {
	var m uint32
	for _, g := range b.gens {
		m = max(m, g)
	}
	return m
}

// Pool allocates values of type T from fixed-capacity blocks.
// The zero Pool is not usable; create one with New.
type Pool[T any] struct {
	blocks   []*block[T] // nil entries are dropped blocks
	epochs   []uint32    // per block id, the generation a replacement block starts from
	freeIDs  []int
	active   int
	live     int
	capacity int
	stats    Stats
	typ      reflect.Type
}

// New creates a Pool for T.
func New[T any](opts ...Option) *Pool[T] {
	cfg := config{blockBytes: DefaultBlockBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	var zero T
	return &Pool[T]{
		capacity: blockCapacity(int(unsafe.Sizeof(zero)), cfg.blockBytes, cfg.sizeHint),
		typ:      reflect.TypeFor[T](),
	}
}

// blockCapacity derives the slot count of a block from the element size, the
// byte budget and an optional size hint, clamped to [1, MaxBlockCapacity].
func blockCapacity(size, budget, hint int) int {
	if size <= 0 {
		size = 1
	}
	if budget <= 0 {
		budget = DefaultBlockBytes
	}
	budget = min(budget, MaxBlockBytes)
	maxc := MaxBlockBytes / size
	defc := budget / size
	if hint > 0 {
		defc = hint
	}
	return max(1, min(defc, maxc, MaxBlockCapacity))
}

// Acquire returns a zeroed slot and the Handle that addresses it.
func (p *Pool[T]) Acquire() (Handle, *T) {
	id := -1
	for i, b := range p.blocks {
		if b != nil && len(b.free) > 0 {
			id = i
			break
		}
	}
	if id < 0 {
		id = p.grow()
	}
	b := p.blocks[id]
	n := len(b.free) - 1
	slot := int(b.free[n])
	b.free = b.free[:n]

	b.gens[slot]++
	b.live[slot] = true
	p.live++
	p.stats.Acquired++
	return makeHandle(b.gens[slot], id, slot), &b.items[slot]
}

func (p *Pool[T]) grow() int {
	p.stats.BlocksAllocated++
	p.active++
	if n := len(p.freeIDs); n > 0 {
		id := p.freeIDs[n-1]
		p.freeIDs = p.freeIDs[:n-1]
		p.blocks[id] = newBlock[T](p.capacity, p.epochs[id])
		return id
	}
	if len(p.blocks) > blockMask {
		panic("pool: block id space exhausted")
	}
	p.blocks = append(p.blocks, newBlock[T](p.capacity, 0))
	p.epochs = append(p.epochs, 0)
	return len(p.blocks) - 1
}

// Get resolves h to its value, or nil when h is zero or no longer live.
func (p *Pool[T]) Get(h Handle) *T {
	b, slot, ok := p.locate(h)
	if !ok {
		return nil
	}
	return &b.items[slot]
}

func (p *Pool[T]) locate(h Handle) (*block[T], int, bool) {
	if h == 0 {
		return nil, 0, false
	}
	id := h.block()
	if id >= len(p.blocks) || p.blocks[id] == nil {
		return nil, 0, false
	}
	b := p.blocks[id]
	slot := h.slot()
	if slot >= len(b.items) || !b.live[slot] || b.gens[slot] != h.stamp() {
		return nil, 0, false
	}
	return b, slot, true
}

// Release tears down the value addressed by h and returns its slot to the
// owning block. A block left fully vacant is dropped unless it is the last
// one. Releasing a zero or stale Handle reports false.
func (p *Pool[T]) Release(h Handle) bool {
	b, slot, ok := p.locate(h)
	if !ok {
		return false
	}
	if td, ok := any(&b.items[slot]).(Teardowner); ok {
		td.Teardown()
	}
	var zero T
	b.items[slot] = zero
	b.live[slot] = false
	if b.gens[slot] == stampMask {
		b.retired++
	} else {
		b.free = append(b.free, uint16(slot))
	}
	p.live--
	p.stats.Released++

	if b.vacant() && p.active > 1 {
		p.drop(h.block())
	}
	return true
}

// drop discards the block at id. The id is recycled unless its generations
// are exhausted.
func (p *Pool[T]) drop(id int) {
	epoch := p.blocks[id].epoch()
	p.blocks[id] = nil
	p.active--
	p.stats.BlocksFreed++
	if epoch < stampMask {
		p.epochs[id] = epoch
		p.freeIDs = append(p.freeIDs, id)
	}
}

// Live returns the number of outstanding slots.
func (p *Pool[T]) Live() int {
	return p.live
}

// BlockCapacity returns the number of slots per block.
func (p *Pool[T]) BlockCapacity() int {
	return p.capacity
}

// Type returns the element type of the pool.
func (p *Pool[T]) Type() reflect.Type {
	return p.typ
}

func (p *Pool[T]) Stats() Stats {
	s := p.stats
	s.Live = p.live
	s.Blocks = p.active
	s.BlockCapacity = p.capacity
	return s
}
