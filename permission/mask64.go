package permission

// Mask is a fixed-width resource bitmask.
type Mask interface {
	Has(bit int, rootReserved bool) bool
	Set(bit int)
	Clear(bit int)
}

// Mask64 holds up to 64 resources.
type Mask64 uint64

// Has reports whether bit is set. With rootReserved, a set highest bit grants
// every bit.
func (m *Mask64) Has(bit int, rootReserved bool) bool {
	if bit < 0 || bit >= 64 {
		return false
	}
	if rootReserved && (*m&(1<<63)) != 0 {
		return true
	}
	return (*m & (1 << bit)) != 0
}

func (m *Mask64) Set(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m |= 1 << bit
}

func (m *Mask64) Clear(bit int) {
	if bit < 0 || bit >= 64 {
		return
	}
	*m &^= 1 << bit
}
