package depot

import (
	"iter"

	"github.com/TheBitDrifter/depot/pool"
)

// Entity is an opaque, recyclable handle grouping component values.
type Entity uint32

type Registry interface {
	Create() Entity
	Destroy(Entity) error
	Alive(Entity) bool
	Has(Entity, string) bool
	Detach(Entity, string) bool
	Select(kinds ...string) Query
	SizeHint(kind string, n int)
	Cleanup()
	Reset()
	Batch() *Batch
	Len() int
	Kinds() int
	KindStats(kind string) (KindStats, bool)
}

type Query interface {
	Kinds() []string
	Filter(expr string) (*View, error)
	FilterInto(dst *View, expr string) error
}

type Cache[T any] interface {
	GetIndex(string) (int, bool)
	GetItem(int) *T
	Register(string, T) (int, error)
	Unregister(string) bool
	All() iter.Seq2[int, *T]
	Len() int
	Live() int
	Clear()
}

// KindStats describes the storage of one kind slot.
type KindStats struct {
	Slot    int
	Members uint64
	Values  int
	Pages   int
	Bound   bool
	Pool    pool.Stats
}

// Warning: internal dependencies abound!
type View struct {
	entities []Entity
	columns  []column
}

type SimpleCache[T any] struct {
	items       []T
	used        []bool
	itemIndices map[string]int
	freeIndices []int
	maxCapacity int
}
