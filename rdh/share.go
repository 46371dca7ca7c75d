package rdh

import "github.com/M311y6/MIE/internal/xrand"

// Sample bit groups. Shares are split within each group so that adding
// the two shares never carries from the low group into the high one.
const (
	highMask = 0xf8
	lowMask  = 0x07
)

// A SplitMode selects how a random byte partitions a sample.
type SplitMode int

const (
	// SplitMask takes the bits of the random byte that are set in the
	// sample as the second share.
	SplitMask SplitMode = iota
	// SplitModulo reduces the random byte modulo the sample, per group.
	SplitModulo
)

// Split divides src into two shares whose byte-wise sum is src, using a
// generator seeded from crypto/rand.
func Split(src []byte) (a, b []byte) {
	return SplitWith(src, xrand.NewCrypto(), SplitMask)
}

// SplitWith is like Split, but draws from rnd using the given mode.
// Reversibility does not depend on rnd: Combine(SplitWith(src, ...))
// equals src for every source.
func SplitWith(src []byte, rnd xrand.Source, mode SplitMode) (a, b []byte) {
	a = make([]byte, len(src))
	b = make([]byte, len(src))
	for i, t := range src {
		r := rnd.Uint8()
		ht, lt := t&highMask, t&lowMask
		hr, lr := r&highMask, r&lowMask
		var s byte
		switch mode {
		case SplitModulo:
			s = (ht - mod(hr, ht)) | (lt - mod(lr, lt))
		default:
			s = (ht - hr&ht) | (lt - lr&lt)
		}
		a[i] = s
		b[i] = (ht - s&highMask) | (lt - s&lowMask)
	}
	return a, b
}

func mod(x, y byte) byte {
	if y == 0 {
		return 0
	}
	return x % y
}

// Combine adds two shares byte by byte, wrapping on overflow.
func Combine(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, FormatError("shares have different lengths")
	}
	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] + b[i]
	}
	return out, nil
}
