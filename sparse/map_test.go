package sparse

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/depot/pool"
)

func TestReadAbsent(t *testing.T) {
	m := New(nil)
	assert.Equal(t, pool.Handle(0), m.Read(0))
	assert.Equal(t, pool.Handle(0), m.Read(1<<30))
	assert.Equal(t, pool.Handle(0), m.Erase(12))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Pages())
}

func TestWriteReadErase(t *testing.T) {
	m := New(nil)

	assert.Equal(t, pool.Handle(0), m.Write(5, 42))
	assert.Equal(t, pool.Handle(42), m.Read(5))
	assert.Equal(t, 1, m.Len())

	assert.Equal(t, pool.Handle(42), m.Write(5, 43), "overwrite returns the previous handle")
	assert.Equal(t, 1, m.Len(), "overwrite does not change the count")

	assert.Equal(t, pool.Handle(43), m.Erase(5))
	assert.Equal(t, pool.Handle(0), m.Read(5))
	assert.Equal(t, 0, m.Len())
}

func TestWriteZeroErases(t *testing.T) {
	m := New(nil)
	m.Write(7, 9)
	assert.Equal(t, pool.Handle(9), m.Write(7, 0))
	assert.Equal(t, 0, m.Len())
	assert.Equal(t, 0, m.Pages())

	assert.Equal(t, pool.Handle(0), m.Write(1000, 0), "zero write never materializes a page")
	assert.Equal(t, 0, m.Pages())
}

func TestPagesReclaimed(t *testing.T) {
	pages := NewPagePool()
	m := New(pages)

	m.Write(1, 1)
	m.Write(PageSize+1, 2)
	m.Write(10*PageSize, 3)
	require.Equal(t, 3, m.Pages())
	require.Equal(t, 3, pages.Live())

	m.Erase(PageSize + 1)
	assert.Equal(t, 2, m.Pages())
	assert.Equal(t, 2, pages.Live())

	m.Write(2, 4)
	m.Erase(1)
	assert.Equal(t, 2, m.Pages(), "page with a remaining entry stays")
	m.Erase(2)
	m.Erase(10 * PageSize)
	assert.Equal(t, 0, m.Pages())
	assert.Equal(t, 0, pages.Live())
}

func TestRecycledPageIsEmpty(t *testing.T) {
	pages := NewPagePool()
	m := New(pages)

	for i := range uint32(PageSize) {
		m.Write(i, pool.Handle(i+1))
	}
	for i := range uint32(PageSize) {
		m.Erase(i)
	}
	require.Equal(t, 0, pages.Live())

	m.Write(PageSize*3, 77)
	assert.Equal(t, pool.Handle(77), m.Read(PageSize*3))
	for i := uint32(1); i < PageSize; i++ {
		require.Equal(t, pool.Handle(0), m.Read(PageSize*3+i), "offset %d", i)
	}
	assert.Equal(t, 1, m.Len())
}

func TestSharedPagePool(t *testing.T) {
	pages := NewPagePool()
	a, b := New(pages), New(pages)
	a.Write(0, 1)
	b.Write(0, 2)
	assert.Equal(t, 2, pages.Live())
	assert.Equal(t, pool.Handle(1), a.Read(0))
	assert.Equal(t, pool.Handle(2), b.Read(0))

	a.Reset()
	assert.Equal(t, 1, pages.Live())
	assert.Equal(t, 0, a.Len())
	assert.Equal(t, pool.Handle(0), a.Read(0))
	assert.Equal(t, pool.Handle(2), b.Read(0))
}

func BenchmarkWriteRead(b *testing.B) {
	m := New(nil)
	var i uint32
	for b.Loop() {
		m.Write(i%100000, pool.Handle(i+1))
		_ = m.Read(i % 100000)
		i++
	}
}
