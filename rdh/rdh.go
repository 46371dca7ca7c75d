// Package rdh implements reversible data hiding in pairs of 8-bit image
// planes.
//
// A payload is embedded by histogram shifting the prediction residuals of
// each 3x3 block, jointly across both planes. Extraction returns the
// payload and restores the planes exactly, given the side-information map
// produced during embedding.
package rdh

import (
	"errors"
	"strconv"
)

var (
	// ErrCapacityExceeded is returned when the planes cannot hold the payload.
	ErrCapacityExceeded = errors.New("payload exceeds embedding capacity")
	// ErrMapTooLarge is returned when a map has more entries than the planes
	// have blocks.
	ErrMapTooLarge = errors.New("map has more entries than the planes have blocks")
	// ErrMapLengthMismatch is returned when the planes were exhausted before
	// the map.
	ErrMapLengthMismatch = errors.New("planes exhausted before end of map")
)

// A FormatError reports that the input is not a valid plane pair or map.
type FormatError string

func (e FormatError) Error() string { return "invalid input: " + string(e) }

func checkGeometry(img1, img2 []byte, w, h int) error {
	if w <= 0 || h <= 0 || w%3 != 0 || h%3 != 0 {
		return FormatError("dimensions " + strconv.Itoa(w) + "x" + strconv.Itoa(h) + " are not positive multiples of 3")
	}
	if len(img1) != w*h || len(img2) != w*h {
		return FormatError("plane length does not match dimensions")
	}
	return nil
}

// Blocks returns the number of 3x3 blocks in a w by h plane.
func Blocks(w, h int) int {
	return (w / 3) * (h / 3)
}

func load(b *Block, img []byte, w, x, y int) {
	for dy := 0; dy < 3; dy++ {
		copy(b[dy*3:dy*3+3], img[(y+dy)*w+x:])
	}
}

func store(img []byte, b *Block, w, x, y int) {
	for dy := 0; dy < 3; dy++ {
		copy(img[(y+dy)*w+x:(y+dy)*w+x+3], b[dy*3:dy*3+3])
	}
}

// walk visits every block, column by column, until fn returns false.
func walk(w, h int, fn func(x, y int) bool) {
	for x := 0; x < w; x += 3 {
		for y := 0; y < h; y += 3 {
			if !fn(x, y) {
				return
			}
		}
	}
}

// Embed hides data in img1 and img2, which are w by h planes, and returns
// the side-information map needed by Extract. img2 is never modified. The
// planes are only modified if the whole payload fits; otherwise
// ErrCapacityExceeded is returned.
//
// Extract may return more bits than were embedded, so the caller must
// record len(data) separately.
func Embed(img1, img2 []byte, w, h int, data []byte) ([]byte, error) {
	if err := checkGeometry(img1, img2, w, h); err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return []byte{}, nil
	}

	out := make([]byte, len(img1))
	copy(out, img1)
	m := make([]byte, 0, Blocks(w, h))
	r := NewBitReader(data, 8*len(data))
	var b1, b2 Block
	walk(w, h, func(x, y int) bool {
		load(&b1, out, w, x, y)
		load(&b2, img2, w, x, y)
		m = append(m, EmbedBlock(&b1, &b2, r).Pack())
		store(out, &b1, w, x, y)
		return !r.Done()
	})
	if !r.Done() {
		return nil, ErrCapacityExceeded
	}
	copy(img1, out)
	return m, nil
}

// Extract recovers the bits hidden by Embed and restores img1 in place.
// The returned slice holds every extracted bit, LSB-first, including any
// filler bits after the original payload.
func Extract(img1, img2 []byte, w, h int, m []byte) ([]byte, error) {
	if err := checkGeometry(img1, img2, w, h); err != nil {
		return nil, err
	}
	if len(m) > Blocks(w, h) {
		return nil, ErrMapTooLarge
	}
	for _, c := range m {
		if int(UnpackSideInfo(c).Index) >= len(epPos) {
			return nil, FormatError("map entry has EP index out of range")
		}
	}

	var bw BitWriter
	var b1, b2 Block
	i := 0
	walk(w, h, func(x, y int) bool {
		if i >= len(m) {
			return false
		}
		load(&b1, img1, w, x, y)
		load(&b2, img2, w, x, y)
		ExtractBlock(&b1, &b2, UnpackSideInfo(m[i]), &bw)
		store(img1, &b1, w, x, y)
		i++
		return true
	})
	if i < len(m) {
		return nil, ErrMapLengthMismatch
	}
	return bw.Bytes(), nil
}

// Capacity returns the number of payload bits the plane pair can hold.
func Capacity(img1, img2 []byte, w, h int) (int, error) {
	if err := checkGeometry(img1, img2, w, h); err != nil {
		return 0, err
	}
	n := 0
	var b1, b2 Block
	walk(w, h, func(x, y int) bool {
		load(&b1, img1, w, x, y)
		load(&b2, img2, w, x, y)
		n += PeakCount(&b1, &b2)
		return true
	})
	return n, nil
}
