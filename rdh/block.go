package rdh

// A Block is a 3x3 neighbourhood of samples in row-major order. The four
// corners are sample pixels (SP), used only for prediction; the edge
// midpoints and the centre are embeddable pixels (EP).
type Block [9]byte

// positions of the embeddable pixels, in EP order
var epPos = [5]int{1, 3, 4, 5, 7}

// SP neighbours of each EP. The centre (EP 2) has all four corners.
var epNeighbors = [5][]int{
	{0, 2},
	{0, 6},
	{0, 2, 6, 8},
	{2, 8},
	{6, 8},
}

const (
	shiftStep = 8               // +1 in HSB terms
	epMax     = 255 - shiftStep // largest EP value that can absorb a shift
)

// residuals span [-62, 62]; the histogram is offset to index from zero
const (
	histOffset = 64
	histSize   = 2 * histOffset
)

func hsb(v byte) int { return int(v >> 3) }

// residuals returns the prediction error of each EP, summed over both
// images and floor-divided by the number of neighbours. Go's arithmetic
// right shift rounds toward negative infinity.
func residuals(b1, b2 *Block) (d [5]int) {
	for i, p := range epPos {
		nb := epNeighbors[i]
		sum := len(nb) * (hsb(b1[p]) + hsb(b2[p]))
		for _, q := range nb {
			sum -= hsb(b1[q]) + hsb(b2[q])
		}
		if len(nb) == 4 {
			d[i] = sum >> 2
		} else {
			d[i] = sum >> 1
		}
	}
	return
}

// peak returns the most frequent residual, preferring the larger value on
// ties.
func peak(d *[5]int) int {
	var hist [histSize]uint8
	for _, v := range d {
		hist[v+histOffset]++
	}
	me := d[0]
	for _, v := range d[1:] {
		c, cm := hist[v+histOffset], hist[me+histOffset]
		if c > cm || (c == cm && v > me) {
			me = v
		}
	}
	return me
}

func overflows(b *Block) bool {
	for _, p := range epPos {
		if b[p] > epMax {
			return true
		}
	}
	return false
}

// EmbedBlock hides bits from r in b1, returning the side information
// needed to reverse it. Every EP at the peak residual carries one bit
// (0 once r is exhausted); every EP above the peak is shifted up by one
// HSB step. Only the EPs of b1 are modified. If any EP of b1 could
// overflow, the block is left alone and a zero SideInfo is returned.
func EmbedBlock(b1, b2 *Block, r *BitReader) SideInfo {
	if overflows(b1) {
		return SideInfo{}
	}
	d := residuals(b1, b2)
	me := peak(&d)

	m := SideInfo{InUse: true}
	first := true
	for i, p := range epPos {
		switch {
		case d[i] == me:
			bit := r.Next()
			b1[p] += shiftStep * bit
			if first {
				first = false
				m.Index = uint8(i)
				m.Bit = bit
			}
		case d[i] > me:
			b1[p] += shiftStep
		}
	}
	return m
}

// ExtractBlock recovers the bits hidden in b1 by EmbedBlock, appending
// them to w, and restores b1 to its original contents.
func ExtractBlock(b1, b2 *Block, m SideInfo, w *BitWriter) {
	if !m.InUse || int(m.Index) >= len(epPos) {
		return
	}
	d := residuals(b1, b2)
	me := d[m.Index] - int(m.Bit)
	for i, p := range epPos {
		switch d[i] {
		case me:
			w.Write(0)
		case me + 1:
			w.Write(1)
		}
		if d[i] > me {
			b1[p] -= shiftStep
		}
	}
}

// PeakCount returns the number of bits EmbedBlock would hide in the block.
func PeakCount(b1, b2 *Block) int {
	if overflows(b1) {
		return 0
	}
	d := residuals(b1, b2)
	me := peak(&d)
	n := 0
	for _, v := range d {
		if v == me {
			n++
		}
	}
	return n
}
