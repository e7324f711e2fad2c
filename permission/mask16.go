package permission

// Mask16 packs action permissions one bit per [Action] into a 16-bit word.
// The zero value grants nothing.
type Mask16 uint16

func (m *Mask16) Has(a Action) bool {
	if !a.Valid() {
		return false
	}
	return (*m & (1 << a)) != 0
}

func (m *Mask16) Set(a Action) {
	if !a.Valid() {
		return
	}
	*m |= (1 << a)
}

func (m *Mask16) Clear(a Action) {
	if !a.Valid() {
		return
	}
	*m &^= (1 << a)
}

// Subset reports whether every bit of m is also set in of.
func (m Mask16) Subset(of Mask16) bool {
	return m&^of == 0
}

func (m Mask16) Raw() uint16 {
	return uint16(m)
}

// MaskOf builds a mask with the given actions set. Invalid actions are ignored.
func MaskOf(actions ...Action) Mask16 {
	var m Mask16
	for _, a := range actions {
		m.Set(a)
	}
	return m
}
