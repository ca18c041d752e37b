package depot

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Test component types
type Position struct {
	X, Y float64
}

type Velocity struct {
	X, Y float64
}

type Health struct {
	Current, Max int
}

func newTestRegistry(t testing.TB, opts ...Option) *registry {
	t.Helper()
	r, err := newRegistry(opts...)
	require.NoError(t, err)
	return r
}

func TestEntityCreation(t *testing.T) {
	tests := []struct {
		name  string
		count int
	}{
		{"Single entity", 1},
		{"Small batch", 10},
		{"Large batch", 5000},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRegistry(t)
			for i := 0; i < tt.count; i++ {
				e := r.Create()
				assert.Equal(t, Entity(i), e)
				assert.True(t, r.Alive(e))
			}
			assert.Equal(t, tt.count, r.Len())
		})
	}
}

func TestEntityRecycling(t *testing.T) {
	r := newTestRegistry(t)
	for range 5 {
		r.Create()
	}

	require.NoError(t, r.Destroy(1))
	require.NoError(t, r.Destroy(3))
	assert.False(t, r.Alive(1))
	assert.False(t, r.Alive(3))
	assert.Equal(t, 3, r.Len())

	// Most recently destroyed first.
	assert.Equal(t, Entity(3), r.Create())
	assert.Equal(t, Entity(1), r.Create())
	assert.Equal(t, Entity(5), r.Create())
}

func TestDestroyUnknownEntity(t *testing.T) {
	r := newTestRegistry(t)

	err := r.Destroy(7)
	var unknown UnknownEntityError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, Entity(7), unknown.Entity)

	e := r.Create()
	require.NoError(t, r.Destroy(e))
	assert.ErrorAs(t, r.Destroy(e), &unknown, "double destroy")
}

func TestDestroyReleasesValues(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create()
	other := r.Create()

	_, err := Attach(r, e, "Position", Position{X: 1})
	require.NoError(t, err)
	_, err = Attach(r, e, "Health", Health{Current: 3, Max: 10})
	require.NoError(t, err)
	_, err = Attach(r, other, "Position", Position{X: 2})
	require.NoError(t, err)

	require.NoError(t, r.Destroy(e))

	assert.False(t, r.Has(e, "Position"))
	assert.False(t, r.Has(e, "Health"))
	assert.True(t, r.Has(other, "Position"))

	pos, _ := r.KindStats("Position")
	assert.Equal(t, uint64(1), pos.Members)
	assert.Equal(t, 1, pos.Pool.Live)
	health, _ := r.KindStats("Health")
	assert.Equal(t, uint64(0), health.Members)
	assert.Equal(t, 0, health.Pool.Live)

	// A recycled handle starts with no components.
	again := r.Create()
	require.Equal(t, e, again)
	assert.False(t, r.Has(again, "Position"))
	_, err = Get[Position](r, again, "Position")
	var notFound ComponentNotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestAttachToUnknownEntity(t *testing.T) {
	r := newTestRegistry(t)

	_, err := Attach(r, 3, "Position", Position{})
	var unknown UnknownEntityError
	require.ErrorAs(t, err, &unknown)

	// The failed attach registers nothing.
	assert.Equal(t, 0, r.Kinds())
	assert.False(t, r.Detach(3, "Position"))
	assert.False(t, r.Has(3, "Position"))
}

func TestSignatureTracksKinds(t *testing.T) {
	r := newTestRegistry(t)
	e := r.Create()

	_, err := Attach(r, e, "Position", Position{})
	require.NoError(t, err)
	_, err = Attach(r, e, "Velocity", Velocity{})
	require.NoError(t, err)

	pos := r.slot("Position")
	vel := r.slot("Velocity")
	sig := r.entities.signature(e)
	assert.True(t, sig.ContainsAll(pos.bit))
	assert.True(t, sig.ContainsAll(vel.bit))

	r.Detach(e, "Position")
	sig = r.entities.signature(e)
	assert.False(t, sig.ContainsAll(pos.bit))
	assert.True(t, sig.ContainsAll(vel.bit))
}
