package rdh

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

// smoothPlanes returns two w by h planes resembling a natural image: a
// gentle gradient with a little noise.
func smoothPlanes(w, h int, seed int64) ([]byte, []byte) {
	rng := rand.New(rand.NewSource(seed))
	img1 := make([]byte, w*h)
	img2 := make([]byte, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			v := 40 + (x+y)/4
			img1[y*w+x] = byte(v + rng.Intn(4))
			img2[y*w+x] = byte(v + rng.Intn(4))
		}
	}
	return img1, img2
}

func flatPlanes(w, h int, v byte) ([]byte, []byte) {
	img1 := bytes.Repeat([]byte{v}, w*h)
	img2 := bytes.Repeat([]byte{v}, w*h)
	return img1, img2
}

func randomPayload(n int, seed int64) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(seed)).Read(data)
	return data
}

func TestEmbedExtract(t *testing.T) {
	sizes := []struct{ w, h int }{
		{9, 9}, {48, 48}, {99, 60}, {300, 210},
	}
	for i, s := range sizes {
		img1, img2 := smoothPlanes(s.w, s.h, int64(i))
		orig1 := append([]byte(nil), img1...)
		orig2 := append([]byte(nil), img2...)

		capacity, err := Capacity(img1, img2, s.w, s.h)
		if err != nil {
			t.Fatal(err)
		}
		n := capacity / 8
		if n == 0 {
			t.Fatalf("%dx%d: no capacity", s.w, s.h)
		}
		data := randomPayload(n, int64(i))

		m, err := Embed(img1, img2, s.w, s.h, data)
		if err != nil {
			t.Fatalf("%dx%d: %v", s.w, s.h, err)
		}
		if !bytes.Equal(img2, orig2) {
			t.Fatalf("%dx%d: image 2 was modified", s.w, s.h)
		}
		if len(m) > Blocks(s.w, s.h) {
			t.Fatalf("%dx%d: map has %d entries for %d blocks", s.w, s.h, len(m), Blocks(s.w, s.h))
		}

		revealed, err := Extract(img1, img2, s.w, s.h, m)
		if err != nil {
			t.Fatalf("%dx%d: %v", s.w, s.h, err)
		}
		if len(revealed) < len(data) || !bytes.Equal(revealed[:len(data)], data) {
			t.Fatalf("%dx%d: revealed bytes do not match original", s.w, s.h)
		}
		if !bytes.Equal(img1, orig1) || !bytes.Equal(img2, orig2) {
			t.Fatalf("%dx%d: planes not restored", s.w, s.h)
		}
	}
}

func TestEmbedSkipsOverflowingBlocks(t *testing.T) {
	const w, h = 9, 9
	img1, img2 := flatPlanes(w, h, 120)
	// first and third blocks in visiting order cannot be shifted
	img1[1*w+1] = 250
	img1[7*w+1] = 255
	orig1 := append([]byte(nil), img1...)

	data := []byte{0xa5, 0x3c}
	m, err := Embed(img1, img2, w, h, data)
	if err != nil {
		t.Fatal(err)
	}
	if UnpackSideInfo(m[0]).InUse || UnpackSideInfo(m[2]).InUse {
		t.Fatal("overflowing blocks were used")
	}
	if img1[1*w+1] != 250 || img1[7*w+1] != 255 {
		t.Fatal("overflowing blocks were modified")
	}

	revealed, err := Extract(img1, img2, w, h, m)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(revealed[:len(data)], data) {
		t.Fatalf("revealed %x, want %x", revealed[:len(data)], data)
	}
	if !bytes.Equal(img1, orig1) {
		t.Fatal("image 1 not restored")
	}
}

func TestCapacityBoundary(t *testing.T) {
	// 8 flat blocks carry exactly 5 bits each
	const w, h = 12, 6
	img1, img2 := flatPlanes(w, h, 100)
	capacity, err := Capacity(img1, img2, w, h)
	if err != nil {
		t.Fatal(err)
	}
	if capacity != 5*Blocks(w, h) {
		t.Fatalf("Capacity = %d, want %d", capacity, 5*Blocks(w, h))
	}

	data := randomPayload(capacity/8, 3)
	m, err := Embed(img1, img2, w, h, data)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != Blocks(w, h) {
		t.Fatalf("map has %d entries, want %d", len(m), Blocks(w, h))
	}

	img1, img2 = flatPlanes(w, h, 100)
	_, err = Embed(img1, img2, w, h, randomPayload(capacity/8+1, 3))
	if err != ErrCapacityExceeded {
		t.Fatal("expected ErrCapacityExceeded, got", err)
	}
}

// stairPlanes returns planes in which every block has five distinct
// residuals, so each block carries exactly one bit.
func stairPlanes(w, h int) ([]byte, []byte) {
	img1 := make([]byte, w*h)
	img2 := make([]byte, w*h)
	for y := 0; y < h; y += 3 {
		for x := 0; x < w; x += 3 {
			for i, p := range epPos {
				img1[(y+p/3)*w+x+p%3] = byte(8 * (i + 1))
			}
		}
	}
	return img1, img2
}

func TestTooSmall(t *testing.T) {
	const w, h = 6, 6
	img1, img2 := flatPlanes(w, h, 255)
	orig1 := append([]byte(nil), img1...)
	_, err := Embed(img1, img2, w, h, []byte{1})
	if err != ErrCapacityExceeded {
		t.Fatal("expected ErrCapacityExceeded, got", err)
	}
	if !bytes.Equal(img1, orig1) {
		t.Fatal("planes modified by failed embedding")
	}
}

func TestOneBitPerBlock(t *testing.T) {
	// 8 blocks hold one byte, and not a bit more
	const w, h = 12, 6
	img1, img2 := stairPlanes(w, h)
	if c, err := Capacity(img1, img2, w, h); err != nil || c != 8 {
		t.Fatalf("Capacity = %d, %v; want 8", c, err)
	}
	orig1 := append([]byte(nil), img1...)
	if _, err := Embed(img1, img2, w, h, []byte{0xff, 0x01}); err != ErrCapacityExceeded {
		t.Fatal("expected ErrCapacityExceeded, got", err)
	}
	if !bytes.Equal(img1, orig1) {
		t.Fatal("planes modified by failed embedding")
	}

	m, err := Embed(img1, img2, w, h, []byte{0x5a})
	if err != nil {
		t.Fatal(err)
	}
	revealed, err := Extract(img1, img2, w, h, m)
	if err != nil {
		t.Fatal(err)
	}
	if len(revealed) != 1 || revealed[0] != 0x5a {
		t.Fatalf("revealed %x, want 5a", revealed)
	}
	if !bytes.Equal(img1, orig1) {
		t.Fatal("image 1 not restored")
	}
}

func TestEmbedEmpty(t *testing.T) {
	img1, img2 := smoothPlanes(9, 9, 1)
	orig1 := append([]byte(nil), img1...)
	m, err := Embed(img1, img2, 9, 9, nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 0 || !bytes.Equal(img1, orig1) {
		t.Fatal("empty payload modified the planes")
	}
	revealed, err := Extract(img1, img2, 9, 9, m)
	if err != nil || len(revealed) != 0 {
		t.Fatalf("Extract of empty map = %x, %v", revealed, err)
	}
}

func TestMapStopsEarly(t *testing.T) {
	const w, h = 30, 30
	img1, img2 := flatPlanes(w, h, 60)
	m, err := Embed(img1, img2, w, h, []byte{0xff, 0x00})
	if err != nil {
		t.Fatal(err)
	}
	// 16 bits at 5 bits per block
	if len(m) != 4 {
		t.Fatalf("map has %d entries, want 4", len(m))
	}
}

func TestColumnOrder(t *testing.T) {
	// the second block visited lies below the first, not beside it
	const w, h = 6, 6
	img1, img2 := flatPlanes(w, h, 80)
	m, err := Embed(img1, img2, w, h, []byte{0xff})
	if err != nil {
		t.Fatal(err)
	}
	if len(m) != 2 {
		t.Fatalf("map has %d entries, want 2", len(m))
	}
	if img1[4*w+1] != 88 {
		t.Fatal("second block was not below the first")
	}
	if img1[1*w+4] != 80 {
		t.Fatal("block to the right of the first was modified")
	}
}

func TestExtractMapTooLarge(t *testing.T) {
	img1, img2 := smoothPlanes(9, 9, 1)
	_, err := Extract(img1, img2, 9, 9, make([]byte, 10))
	if err != ErrMapTooLarge {
		t.Fatal("expected ErrMapTooLarge, got", err)
	}
}

func TestGeometry(t *testing.T) {
	tests := []struct {
		w, h, n1, n2 int
	}{
		{10, 9, 90, 90},
		{9, 9, 81, 80},
		{0, 0, 0, 0},
		{-3, -3, 9, 9},
	}
	for _, test := range tests {
		img1, img2 := make([]byte, test.n1), make([]byte, test.n2)
		_, err := Embed(img1, img2, test.w, test.h, []byte{1})
		var fe FormatError
		if !errors.As(err, &fe) {
			t.Fatalf("Embed %dx%d: expected FormatError, got %v", test.w, test.h, err)
		}
		_, err = Extract(img1, img2, test.w, test.h, nil)
		if !errors.As(err, &fe) {
			t.Fatalf("Extract %dx%d: expected FormatError, got %v", test.w, test.h, err)
		}
	}
}

func TestEmbedDeterministic(t *testing.T) {
	a1, a2 := smoothPlanes(60, 60, 5)
	b1, b2 := smoothPlanes(60, 60, 5)
	data := randomPayload(20, 5)
	ma, err := Embed(a1, a2, 60, 60, data)
	if err != nil {
		t.Fatal(err)
	}
	mb, err := Embed(b1, b2, 60, 60, data)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(ma, mb) || !bytes.Equal(a1, b1) {
		t.Fatal("identical inputs produced different outputs")
	}
}
