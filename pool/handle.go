package pool

// Handle addresses one slot of a Pool. It packs the slot's generation (the
// stamp), a block id and a slot index. The stamp is never zero, so the zero
// Handle means "absent".
type Handle uint64

const (
	slotBits  = 16
	blockBits = 24
	stampBits = 24

	slotMask  = 1<<slotBits - 1
	blockMask = 1<<blockBits - 1
	stampMask = 1<<stampBits - 1
)

func makeHandle(stamp uint32, block, slot int) Handle {
	return Handle(uint64(stamp)<<(blockBits+slotBits) | uint64(block)<<slotBits | uint64(slot))
}

func (h Handle) slot() int {
	return int(h & slotMask)
}

func (h Handle) block() int {
	return int(h>>slotBits) & blockMask
}

func (h Handle) stamp() uint32 {
	return uint32(h>>(slotBits+blockBits)) & stampMask
}

// IsZero reports whether h is the absent sentinel.
func (h Handle) IsZero() bool {
	return h == 0
}
