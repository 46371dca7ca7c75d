package main

import (
	"fmt"
	"image"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/bmp"

	"github.com/M311y6/MIE/rdh"
)

// plane is a grayscale cover image.
type plane struct {
	pix  []byte
	w, h int
}

func loadPlane(path string) (*plane, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("could not decode %v: %w", path, err)
	}
	pix, w, h := rdh.PlaneFromImage(img)
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("%v is too small", path)
	}
	return &plane{pix, w, h}, nil
}

func loadPair(path1, path2 string) (*plane, *plane, error) {
	p1, err := loadPlane(path1)
	if err != nil {
		return nil, nil, err
	}
	p2, err := loadPlane(path2)
	if err != nil {
		return nil, nil, err
	}
	if p1.w != p2.w || p1.h != p2.h {
		return nil, nil, fmt.Errorf("images differ in size: %dx%d and %dx%d", p1.w, p1.h, p2.w, p2.h)
	}
	return p1, p2, nil
}

func savePlane(path string, p *plane, format string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	img := rdh.ImageFromPlane(p.pix, p.w, p.h)
	switch format {
	case "bmp":
		err = bmp.Encode(f, img)
	default:
		err = png.Encode(f, img)
	}
	if err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// formatFor picks the output format for path: its own extension if that
// is lossless, otherwise def.
func formatFor(path, def string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		return "png"
	case ".bmp":
		return "bmp"
	}
	return def
}

// derivePath replaces the extension of path with suffix.ext.
func derivePath(path, suffix, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + suffix + "." + ext
}
