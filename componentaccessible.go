package depot

// Kind is a typed accessor for the values stored under one kind name.
// It carries no state beyond the name and can be shared freely.
type Kind[T any] struct {
	name string
}

// Name returns the kind name.
func (k Kind[T]) Name() string {
	return k.name
}

// Attach stores value for e, replacing any previous value.
func (k Kind[T]) Attach(r Registry, e Entity, value T) (*T, error) {
	return Attach(r, e, k.name, value)
}

// Get retrieves the value held by e.
func (k Kind[T]) Get(r Registry, e Entity) (*T, error) {
	return Get[T](r, e, k.name)
}

// GetSafe retrieves the value held by e, reporting whether it exists instead of failing.
func (k Kind[T]) GetSafe(r Registry, e Entity) (bool, *T) {
	v, err := Get[T](r, e, k.name)
	if err != nil {
		return false, nil
	}
	return true, v
}

func (k Kind[T]) Detach(r Registry, e Entity) bool {
	return r.Detach(e, k.name)
}

func (k Kind[T]) Has(r Registry, e Entity) bool {
	return r.Has(e, k.name)
}

// At returns the value of column col at row of v.
func (k Kind[T]) At(v *View, row, col int) (*T, error) {
	return At[T](v, row, col)
}

// Enqueue queues an attach of value for e on b.
func (k Kind[T]) Enqueue(b *Batch, e Entity, value T) {
	EnqueueAttach(b, e, k.name, value)
}
