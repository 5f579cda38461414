package softbody

import (
	"math/bits"
)

// Bitmask tracks which component kinds are present on a node.
// It supports up to 16 kinds, far more than the closed set in use.
type Bitmask uint16

// MaskOf returns a bitmask with the given kinds set.
func MaskOf(kinds ...Kind) Bitmask {
	var m Bitmask
	for _, k := range kinds {
		m.Set(k)
	}
	return m
}

// Set sets the bit for the given kind.
func (m *Bitmask) Set(k Kind) {
	*m |= 1 << k
}

// Clear clears the bit for the given kind.
func (m *Bitmask) Clear(k Kind) {
	*m &^= 1 << k
}

// Has returns true if the bit for the given kind is set.
func (m Bitmask) Has(k Kind) bool {
	return m&(1<<k) != 0
}

// ContainsAll returns true if all bits set in other are also set in m.
// Queries use it to select nodes carrying every requested kind.
func (m Bitmask) ContainsAll(other Bitmask) bool {
	return m&other == other
}

// ContainsAny returns true if any bit set in other is also set in m.
func (m Bitmask) ContainsAny(other Bitmask) bool {
	return m&other != 0
}

// IsZero returns true if no bits are set.
func (m Bitmask) IsZero() bool {
	return m == 0
}

// Or returns a new bitmask with bits set from both m and other.
func (m Bitmask) Or(other Bitmask) Bitmask {
	return m | other
}

// AndNot returns a new bitmask with bits set in m but not in other.
func (m Bitmask) AndNot(other Bitmask) Bitmask {
	return m &^ other
}

// Count returns the number of bits set.
func (m Bitmask) Count() int {
	return bits.OnesCount16(uint16(m))
}

// Kinds returns the kinds present in the mask, in declaration order.
func (m Bitmask) Kinds() []Kind {
	kinds := make([]Kind, 0, m.Count())
	for k := range kindCount {
		if m.Has(k) {
			kinds = append(kinds, k)
		}
	}
	return kinds
}

// String lists the present kinds, e.g. "Transform|Mass".
func (m Bitmask) String() string {
	if m.IsZero() {
		return "None"
	}
	s := ""
	for _, k := range m.Kinds() {
		if s != "" {
			s += "|"
		}
		s += k.String()
	}
	return s
}
