package rdh

// Bit layout of a packed side-information byte. Bits 1..3 are unused and
// always zero.
const (
	inUseMask  = 0x01
	bitMask    = 0x10
	bitShift   = 4
	indexMask  = 0xe0
	indexShift = 5
)

// SideInfo is the per-block record needed to invert an embedding.
type SideInfo struct {
	InUse bool  // block was modified and carries data
	Bit   uint8 // bit embedded at the first peak position
	Index uint8 // EP index (0-4) of the first peak position
}

// Pack encodes m into a single map byte.
func (m SideInfo) Pack() byte {
	var b byte
	if m.InUse {
		b |= inUseMask
	}
	b |= (m.Bit << bitShift) & bitMask
	b |= (m.Index << indexShift) & indexMask
	return b
}

// UnpackSideInfo decodes a map byte produced by Pack.
func UnpackSideInfo(b byte) SideInfo {
	return SideInfo{
		InUse: b&inUseMask != 0,
		Bit:   (b & bitMask) >> bitShift,
		Index: (b & indexMask) >> indexShift,
	}
}
