// Package sparse implements a paged map from dense-ish integer indices to
// pool handles. Pages are materialized on first write into their index range
// and handed back to their pool as soon as they hold no entries.
package sparse

import "github.com/TheBitDrifter/depot/pool"

// PageSize is the number of entries held by one page.
const PageSize = 512

// Page is the unit of storage of a Map.
type Page struct {
	slots [PageSize]pool.Handle
	count int
}

type pageRef struct {
	handle pool.Handle
	page   *Page
}

// Map stores pool handles by index. The zero handle is the absent value and
// is never stored.
type Map struct {
	pages []pageRef
	pool  *pool.Pool[Page]
	size  int
}

// NewPagePool returns a pool suitable for sharing between maps.
func NewPagePool(opts ...pool.Option) *pool.Pool[Page] {
	return pool.New[Page](opts...)
}

// New creates a Map drawing its pages from pages. A nil pool gives the map a
// private one.
func New(pages *pool.Pool[Page]) *Map {
	if pages == nil {
		pages = NewPagePool()
	}
	return &Map{pool: pages}
}

func split(index uint32) (int, int) {
	return int(index / PageSize), int(index % PageSize)
}

// Read returns the handle stored at index, or zero.
func (m *Map) Read(index uint32) pool.Handle {
	pi, off := split(index)
	if pi >= len(m.pages) || m.pages[pi].page == nil {
		return 0
	}
	return m.pages[pi].page.slots[off]
}

// Write stores v at index and returns the previous handle. Writing the zero
// handle erases the entry.
func (m *Map) Write(index uint32, v pool.Handle) pool.Handle {
	if v == 0 {
		return m.Erase(index)
	}
	pi, off := split(index)
	if pi >= len(m.pages) {
		m.pages = append(m.pages, make([]pageRef, pi+1-len(m.pages))...)
	}
	ref := &m.pages[pi]
	if ref.page == nil {
		ref.handle, ref.page = m.pool.Acquire()
	}
	prev := ref.page.slots[off]
	ref.page.slots[off] = v
	if prev == 0 {
		ref.page.count++
		m.size++
	}
	return prev
}

// Erase clears index and returns the handle it held. The page is released
// when its last entry goes away.
func (m *Map) Erase(index uint32) pool.Handle {
	pi, off := split(index)
	if pi >= len(m.pages) || m.pages[pi].page == nil {
		return 0
	}
	ref := &m.pages[pi]
	prev := ref.page.slots[off]
	if prev == 0 {
		return 0
	}
	ref.page.slots[off] = 0
	ref.page.count--
	m.size--
	if ref.page.count == 0 {
		m.pool.Release(ref.handle)
		*ref = pageRef{}
	}
	return prev
}

// Len returns the number of stored entries.
func (m *Map) Len() int {
	return m.size
}

// Pages returns the number of materialized pages.
func (m *Map) Pages() int {
	n := 0
	for _, ref := range m.pages {
		if ref.page != nil {
			n++
		}
	}
	return n
}

// Reset releases every page back to the pool and empties the map.
func (m *Map) Reset() {
	for _, ref := range m.pages {
		if ref.page != nil {
			m.pool.Release(ref.handle)
		}
	}
	m.pages = m.pages[:0]
	m.size = 0
}
