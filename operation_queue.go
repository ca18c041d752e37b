package depot

import (
	"fmt"
	"reflect"

	"go.uber.org/zap"
)

type operationType int

const (
	opAttach operationType = iota
	opDetach
	opDestroy
	opCleanup
)

func (t operationType) String() string {
	switch t {
	case opAttach:
		return "attach"
	case opDetach:
		return "detach"
	case opDestroy:
		return "destroy"
	case opCleanup:
		return "cleanup"
	}
	return "unknown"
}

type operation struct {
	typ       operationType
	entity    Entity
	kind      string
	valueType reflect.Type
	attach    func(*registry) error
}

// Batch buffers mutations and applies them, in submission order, on Commit.
// Commit is all or nothing: the queue is checked against the registry first
// and nothing is applied if any operation would fail.
type Batch struct {
	reg *registry
	ops []operation
}

// EnqueueAttach queues an attach of value under kind for e.
func EnqueueAttach[T any](b *Batch, e Entity, kind string, value T) {
	b.ops = append(b.ops, operation{
		typ:       opAttach,
		entity:    e,
		kind:      kind,
		valueType: reflect.TypeFor[T](),
		attach: func(r *registry) error {
			_, err := Attach(r, e, kind, value)
			return err
		},
	})
}

func (b *Batch) Detach(e Entity, kind string) {
	b.ops = append(b.ops, operation{typ: opDetach, entity: e, kind: kind})
}

func (b *Batch) Destroy(e Entity) {
	b.ops = append(b.ops, operation{typ: opDestroy, entity: e})
}

func (b *Batch) Cleanup() {
	b.ops = append(b.ops, operation{typ: opCleanup})
}

// Len returns the number of queued operations.
func (b *Batch) Len() int {
	return len(b.ops)
}

// Reset discards every queued operation.
func (b *Batch) Reset() {
	clear(b.ops)
	b.ops = b.ops[:0]
}

// Commit applies the queued operations. If any of them would fail, the
// registry is left untouched and the error of the first failing operation is
// returned. The queue is emptied either way.
func (b *Batch) Commit() error {
	defer b.Reset()
	if i, err := b.check(); err != nil {
		b.reg.log.Debug("batch rejected",
			zap.Int("operation", i),
			zap.Int("queued", len(b.ops)),
			zap.Error(err),
		)
		return fmt.Errorf("failed to process queued %s: %w", b.ops[i].typ, err)
	}
	for _, op := range b.ops {
		if err := b.apply(op); err != nil {
			return fmt.Errorf("failed to process queued %s: %w", op.typ, err)
		}
	}
	b.reg.log.Debug("batch committed", zap.Int("operations", len(b.ops)))
	return nil
}

// check replays the queue against a shadow of the registry state it can
// affect: entity liveness, kind bindings and the number of registered kinds.
// A queued Cleanup is not replayed, so kinds it would unbind or free still
// count as bound and registered.
func (b *Batch) check() (int, error) {
	destroyed := make(map[Entity]struct{})
	bound := make(map[string]reflect.Type)
	fresh := 0
	alive := func(e Entity) bool {
		if _, ok := destroyed[e]; ok {
			return false
		}
		return b.reg.Alive(e)
	}

	for i, op := range b.ops {
		switch op.typ {
		case opDestroy:
			if !alive(op.entity) {
				return i, UnknownEntityError{Entity: op.entity}
			}
			destroyed[op.entity] = struct{}{}
		case opAttach:
			if !alive(op.entity) {
				return i, UnknownEntityError{Entity: op.entity}
			}
			want, seen := bound[op.kind]
			if !seen {
				want = op.valueType
				switch k := b.reg.slot(op.kind); {
				case k == nil:
					if b.reg.kinds.Live()+fresh >= MaxKinds {
						return i, KindLimitError{Kind: op.kind, Limit: MaxKinds}
					}
					fresh++
				case k.typ != nil:
					want = k.typ
				}
				bound[op.kind] = want
			}
			if want != op.valueType {
				return i, TypeMismatchError{Kind: op.kind, Want: want, Have: op.valueType}
			}
		}
	}
	return -1, nil
}

func (b *Batch) apply(op operation) error {
	switch op.typ {
	case opAttach:
		return op.attach(b.reg)
	case opDetach:
		b.reg.Detach(op.entity, op.kind)
	case opDestroy:
		return b.reg.Destroy(op.entity)
	case opCleanup:
		b.reg.Cleanup()
	}
	return nil
}
