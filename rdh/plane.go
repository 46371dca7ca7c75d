package rdh

import (
	"image"
	"image/draw"
)

// PlaneFromImage returns the luma samples of img as a row-major plane,
// cropped so that both dimensions are multiples of 3.
func PlaneFromImage(img image.Image) (pix []byte, w, h int) {
	b := img.Bounds()
	w, h = b.Dx()/3*3, b.Dy()/3*3
	gray, ok := img.(*image.Gray)
	if !ok || gray.Stride != w || gray.Rect.Dx() != w || gray.Rect.Dy() != h {
		gray = image.NewGray(image.Rect(0, 0, w, h))
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
	}
	pix = make([]byte, w*h)
	copy(pix, gray.Pix)
	return pix, w, h
}

// ImageFromPlane wraps a w by h plane in an image.Gray. The plane is not
// copied.
func ImageFromPlane(pix []byte, w, h int) *image.Gray {
	return &image.Gray{
		Pix:    pix,
		Stride: w,
		Rect:   image.Rect(0, 0, w, h),
	}
}
