package depot

type factory struct{}

var Factory factory

// NewRegistry builds an empty registry. It fails only when the options
// name an invalid log level.
func (f factory) NewRegistry(opts ...Option) (Registry, error) {
	return newRegistry(opts...)
}

// MustNewRegistry is like NewRegistry but panics on error.
func (f factory) MustNewRegistry(opts ...Option) Registry {
	r, err := newRegistry(opts...)
	if err != nil {
		panic(err)
	}
	return r
}

// NewKind returns a typed accessor for kind name.
func NewKind[T any](name string) Kind[T] {
	return Kind[T]{name: name}
}

// FactoryNewCache returns a name-keyed Cache holding at most cap keys.
func FactoryNewCache[T any](cap int) Cache[T] {
	return &SimpleCache[T]{
		itemIndices: make(map[string]int),
		maxCapacity: cap,
	}
}
