package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/M311y6/MIE/rdh"
)

func writeMap(path string, mf *rdh.MapFile, level int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := rdh.WriteMapFile(f, mf, level); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func readMap(path string) (*rdh.MapFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return rdh.ReadMapFile(f)
}

// trimSuffix strips suffix from the base name of path, keeping the
// extension: trimSuffix("a.rdh.png", ".rdh") is "a.png".
func trimSuffix(path, suffix string) string {
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	return strings.TrimSuffix(base, suffix) + ext
}
