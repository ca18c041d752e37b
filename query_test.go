package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/TheBitDrifter/depot/filter"
)

// populate creates one entity per entry of kinds and attaches a Position
// under every kind name listed for it.
func populate(t *testing.T, r *registry, kinds ...[]string) []Entity {
	t.Helper()
	entities := make([]Entity, len(kinds))
	for i, names := range kinds {
		entities[i] = r.Create()
		for _, name := range names {
			_, err := Attach(r, entities[i], name, Position{X: float64(i)})
			require.NoError(t, err)
		}
	}
	return entities
}

func rows(v *View) []Entity {
	var out []Entity
	v.EachEntity(func(e Entity) {
		out = append(out, e)
	})
	return out
}

func TestQueryFilter(t *testing.T) {
	tests := []struct {
		name     string
		selected []string
		expr     string
		want     []Entity
	}{
		{"Intersection", []string{"A", "B"}, "A & B", []Entity{0}},
		{"Union without selection", nil, "A | B", []Entity{0, 1, 2, 3}},
		{"Union narrowed by selection", []string{"A"}, "A | B", []Entity{0, 1}},
		{"Parenthesised", nil, "(A | B) & C", []Entity{3}},
		{"Precedence", nil, "C | A & B", []Entity{0, 3}},
		{"Empty groups ignored", nil, "() A & (()) B", []Entity{0}},
		{"No match", []string{"C"}, "A & B", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			populate(t, r,
				[]string{"A", "B"},
				[]string{"A"},
				[]string{"B"},
				[]string{"B", "C"},
			)

			v, err := r.Select(tt.selected...).Filter(tt.expr)
			require.NoError(t, err)
			assert.Equal(t, tt.want, rows(v))
			assert.Equal(t, len(tt.selected), v.Columns())
		})
	}
}

func TestFilterRowsAscending(t *testing.T) {
	r := newTestRegistry(t)
	for range 10 {
		r.Create()
	}
	for _, e := range []Entity{9, 2, 7, 0, 5} {
		_, err := Attach(r, e, "A", Position{})
		require.NoError(t, err)
	}

	v, err := r.Select("A").Filter("A")
	require.NoError(t, err)
	assert.Equal(t, []Entity{0, 2, 5, 7, 9}, rows(v))
	for i := range v.Size() {
		assert.Equal(t, rows(v)[i], v.Entity(i))
	}
}

func TestFilterExcludesDestroyed(t *testing.T) {
	r := newTestRegistry(t)
	entities := populate(t, r, []string{"A"}, []string{"A"}, []string{"A"})

	require.NoError(t, r.Destroy(entities[1]))
	v, err := r.Select("A").Filter("A")
	require.NoError(t, err)
	assert.Equal(t, []Entity{0, 2}, rows(v))
}

func TestNotComplementsOverKindSlots(t *testing.T) {
	r := newTestRegistry(t)
	populate(t, r,
		[]string{"B"},
		[]string{"A"},
		nil,
		nil,
		[]string{"A"},
	)
	require.Equal(t, 2, r.Kinds())

	// '!' flips bits [0, 2): entity 0 is added, entity 4 keeps its bit.
	v, err := r.Select().Filter("!A")
	require.NoError(t, err)
	assert.Equal(t, []Entity{0, 4}, rows(v))
}

func TestNotComplementsOverEntities(t *testing.T) {
	r := newTestRegistry(t, WithOptions(Options{ComplementOverEntities: true}))
	entities := populate(t, r,
		[]string{"B"},
		[]string{"A"},
		nil,
		nil,
		[]string{"A"},
	)
	require.NoError(t, r.Destroy(entities[3]))

	v, err := r.Select().Filter("!A")
	require.NoError(t, err)
	assert.Equal(t, []Entity{0, 2}, rows(v))

	v, err = r.Select("B").Filter("!A")
	require.NoError(t, err)
	assert.Equal(t, []Entity{0}, rows(v))
}

func TestBadQuerySyntax(t *testing.T) {
	tests := []struct {
		name string
		expr string
	}{
		{"Empty", ""},
		{"Blank", "   "},
		{"Only empty groups", "(())"},
		{"Dangling operator", "A &"},
		{"Leading operator", "| A"},
		{"Adjacent leaves", "A B"},
		{"Unbalanced open", "(A & B"},
		{"Unbalanced close", "A & B)"},
		{"Operator in group", "( & )"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			_, err := r.Select().Filter(tt.expr)

			var bad BadQuerySyntaxError
			require.ErrorAs(t, err, &bad)
			assert.Equal(t, tt.expr, bad.Filter)

			var syntax *filter.SyntaxError
			assert.ErrorAs(t, err, &syntax)
			assert.Equal(t, 0, r.filter.len(), "rejected filters are not cached")
		})
	}
}

func TestUnknownLeafCreatesSlot(t *testing.T) {
	r := newTestRegistry(t)
	populate(t, r, []string{"A"})

	v, err := r.Select().Filter("Ghost")
	require.NoError(t, err)
	assert.Zero(t, v.Size())
	assert.Equal(t, 2, r.Kinds())

	st, ok := r.KindStats("Ghost")
	require.True(t, ok)
	assert.False(t, st.Bound)

	// Selecting an unseen kind also registers it and matches nothing.
	v, err = r.Select("Phantom").Filter("A")
	require.NoError(t, err)
	assert.Zero(t, v.Size())
	assert.Equal(t, 3, r.Kinds())
}

func TestFilterCache(t *testing.T) {
	r := newTestRegistry(t, WithOptions(Options{FilterCacheSize: 2}))
	populate(t, r, []string{"A", "B"})
	q := r.Select()

	for range 3 {
		_, err := q.Filter("A & B")
		require.NoError(t, err)
	}
	assert.Equal(t, 1, r.filter.len())

	_, err := q.Filter("A | B")
	require.NoError(t, err)
	assert.Equal(t, 2, r.filter.len())

	// A full cache starts over.
	_, err = q.Filter("!A")
	require.NoError(t, err)
	assert.Equal(t, 1, r.filter.len())

	tree, ok := r.filter.get("!A")
	require.True(t, ok)
	assert.Equal(t, "!A", tree.String())
}

func TestFilterInto(t *testing.T) {
	r := newTestRegistry(t)
	populate(t, r, []string{"A"}, []string{"A", "B"}, []string{"B"})
	q := r.Select("B")

	var v View
	require.NoError(t, q.FilterInto(&v, "A | B"))
	assert.Equal(t, []Entity{1, 2}, rows(&v))

	require.NoError(t, q.FilterInto(&v, "A"))
	assert.Equal(t, []Entity{1}, rows(&v))
	assert.Equal(t, 1, v.Columns())
	assert.Equal(t, "B", v.Kind(0))

	require.Error(t, q.FilterInto(&v, "A &"))
	assert.Equal(t, []Entity{1}, rows(&v), "failed filter leaves the view untouched")
}

func TestQueryKinds(t *testing.T) {
	r := newTestRegistry(t)
	kinds := []string{"A", "B"}
	q := r.Select(kinds...)
	kinds[0] = "C"

	assert.Equal(t, []string{"A", "B"}, q.Kinds())
}
