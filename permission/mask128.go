package permission

// Mask128 holds up to 128 resources.
type Mask128 struct {
	A uint64
	B uint64
}

// Has reports whether bit is set. With rootReserved, a set highest bit of B
// grants every bit.
func (m *Mask128) Has(bit int, rootReserved bool) bool {
	if bit < 0 || bit >= 128 {
		return false
	}
	if rootReserved && (m.B&(1<<63)) != 0 {
		return true
	}
	if bit < 64 {
		return (m.A & (1 << bit)) != 0
	}
	return (m.B & (1 << (bit - 64))) != 0
}

func (m *Mask128) Set(bit int) {
	switch {
	case bit < 0 || bit >= 128:
	case bit < 64:
		m.A |= 1 << bit
	default:
		m.B |= 1 << (bit - 64)
	}
}

func (m *Mask128) Clear(bit int) {
	switch {
	case bit < 0 || bit >= 128:
	case bit < 64:
		m.A &^= 1 << bit
	default:
		m.B &^= 1 << (bit - 64)
	}
}

func newMask(maxBits int) (Mask, error) {
	switch maxBits {
	case 64:
		m := Mask64(0)
		return &m, nil
	case 128:
		return &Mask128{}, nil
	}
	return nil, ErrInvalidWidth
}
