package rdh

// A BitReader yields payload bits LSB-first from a byte slice.
type BitReader struct {
	data  []byte
	total int
	pos   int
}

// NewBitReader returns a reader over the first n bits of data.
func NewBitReader(data []byte, n int) *BitReader {
	if n > 8*len(data) {
		n = 8 * len(data)
	}
	return &BitReader{data: data, total: n}
}

// Next returns the next bit, or 0 once the payload is exhausted. The
// cursor only advances while bits remain.
func (r *BitReader) Next() uint8 {
	if r.pos >= r.total {
		return 0
	}
	b := (r.data[r.pos>>3] >> (r.pos & 7)) & 1
	r.pos++
	return b
}

// Done reports whether every payload bit has been consumed.
func (r *BitReader) Done() bool { return r.pos >= r.total }

// Pos returns the number of bits consumed.
func (r *BitReader) Pos() int { return r.pos }

// A BitWriter accumulates bits LSB-first into a growing byte slice.
type BitWriter struct {
	data []byte
	n    int
}

// growth margin, in bytes, kept free ahead of the cursor
const writerSlack = 8

// Write appends bit b (only its lowest bit is used).
func (w *BitWriter) Write(b uint8) {
	if w.n>>3 >= len(w.data) {
		w.grow()
	}
	w.data[w.n>>3] |= (b & 1) << (w.n & 7)
	w.n++
}

func (w *BitWriter) grow() {
	size := 2*len(w.data) + writerSlack
	buf := make([]byte, size)
	copy(buf, w.data)
	w.data = buf
}

// Len returns the number of bits written.
func (w *BitWriter) Len() int { return w.n }

// Bytes returns the written bits packed into ceil(Len/8) bytes.
func (w *BitWriter) Bytes() []byte {
	return w.data[:(w.n+7)>>3]
}
