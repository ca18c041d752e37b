package depot

import (
	"iter"
	"reflect"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/TheBitDrifter/depot/pool"
)

// column holds one selected kind's handles in row order, together with the
// kind's storage and type as they were when the view was filled.
type column struct {
	kind    string
	typ     reflect.Type
	storage pool.Erased
	handles []pool.Handle
}

func (v *View) fill(result *roaring.Bitmap, slots []*kindSlot) {
	n := int(result.GetCardinality())
	v.entities = grow(v.entities, n)
	if cap(v.columns) < len(slots) {
		v.columns = make([]column, len(slots))
	}
	v.columns = v.columns[:len(slots)]

	it := result.Iterator()
	for i := 0; it.HasNext(); i++ {
		v.entities[i] = Entity(it.Next())
	}
	for c, k := range slots {
		col := &v.columns[c]
		col.kind = k.name
		col.typ = k.typ
		col.storage = k.storage
		col.handles = grow(col.handles, n)
		for i, e := range v.entities {
			col.handles[i] = k.values.Read(uint32(e))
		}
	}
}

func grow[S ~[]E, E any](s S, n int) S {
	if cap(s) < n {
		return make(S, n)
	}
	return s[:n]
}

// Size returns the number of rows.
func (v *View) Size() int {
	return len(v.entities)
}

// Columns returns the number of selected kinds.
func (v *View) Columns() int {
	return len(v.columns)
}

// Entity returns the entity of row.
func (v *View) Entity(row int) Entity {
	return v.entities[row]
}

// Entities yields the rows in ascending entity order.
func (v *View) Entities() iter.Seq2[int, Entity] {
	return func(yield func(int, Entity) bool) {
		for i, e := range v.entities {
			if !yield(i, e) {
				return
			}
		}
	}
}

// Kind returns the kind name of col.
func (v *View) Kind(col int) string {
	return v.columns[col].kind
}

// typedColumn checks T against the type bound to col when the view was filled.
func typedColumn[T any](v *View, col int) (*pool.Pool[T], []pool.Handle, error) {
	if col < 0 || col >= len(v.columns) {
		return nil, nil, ColumnRangeError{Row: -1, Col: col}
	}
	c := &v.columns[col]
	if c.storage == nil {
		return nil, c.handles, nil
	}
	p, ok := c.storage.(*pool.Pool[T])
	if !ok {
		return nil, nil, TypeMismatchError{Kind: c.kind, Want: c.typ, Have: reflect.TypeFor[T]()}
	}
	return p, c.handles, nil
}

func deref[T any](p *pool.Pool[T], h pool.Handle) *T {
	if p == nil {
		return nil
	}
	return p.Get(h)
}

// At returns the value of column col at row. The pointer is nil when the
// value was detached after the view was filled.
func At[T any](v *View, row, col int) (*T, error) {
	if row < 0 || row >= len(v.entities) {
		return nil, ColumnRangeError{Row: row, Col: col}
	}
	p, handles, err := typedColumn[T](v, col)
	if err != nil {
		return nil, err
	}
	return deref(p, handles[row]), nil
}

func (v *View) arity(n int) error {
	if len(v.columns) != n {
		return ColumnCountError{Want: len(v.columns), Have: n}
	}
	return nil
}
