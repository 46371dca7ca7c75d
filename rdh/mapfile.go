package rdh

import (
	"bufio"
	"encoding/binary"
	"io"

	"github.com/klauspost/compress/zstd"
)

const (
	mapMagic   = "RDHM"
	mapVersion = 1
	// magic, version, then width, height, payload length and map length
	mapHeaderSize = len(mapMagic) + 1 + 4*4
)

// A MapFile carries a side-information map together with the geometry and
// payload length needed to use it.
type MapFile struct {
	Width, Height int
	PayloadLen    int // bytes
	Map           []byte
}

// WriteMapFile writes mf to w, compressing the map at the given zstd level
// (1-22; 0 selects the default).
func WriteMapFile(w io.Writer, mf *MapFile, level int) error {
	hdr := make([]byte, mapHeaderSize)
	copy(hdr, mapMagic)
	hdr[4] = mapVersion
	binary.LittleEndian.PutUint32(hdr[5:], uint32(mf.Width))
	binary.LittleEndian.PutUint32(hdr[9:], uint32(mf.Height))
	binary.LittleEndian.PutUint32(hdr[13:], uint32(mf.PayloadLen))
	binary.LittleEndian.PutUint32(hdr[17:], uint32(len(mf.Map)))
	if _, err := w.Write(hdr); err != nil {
		return err
	}

	opts := []zstd.EOption{zstd.WithEncoderConcurrency(1)}
	if level > 0 {
		opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
	}
	enc, err := zstd.NewWriter(w, opts...)
	if err != nil {
		return err
	}
	if _, err := enc.Write(mf.Map); err != nil {
		enc.Close()
		return err
	}
	return enc.Close()
}

// ReadMapFile reads a map written by WriteMapFile.
func ReadMapFile(r io.Reader) (*MapFile, error) {
	br := bufio.NewReader(r)
	hdr := make([]byte, mapHeaderSize)
	if _, err := io.ReadFull(br, hdr); err != nil {
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return nil, FormatError("map file truncated")
		}
		return nil, err
	}
	if string(hdr[:4]) != mapMagic {
		return nil, FormatError("not a map file")
	}
	if hdr[4] != mapVersion {
		return nil, FormatError("unsupported map file version")
	}
	mf := &MapFile{
		Width:      int(binary.LittleEndian.Uint32(hdr[5:])),
		Height:     int(binary.LittleEndian.Uint32(hdr[9:])),
		PayloadLen: int(binary.LittleEndian.Uint32(hdr[13:])),
	}
	n := int(binary.LittleEndian.Uint32(hdr[17:]))
	if n > Blocks(mf.Width, mf.Height) {
		return nil, ErrMapTooLarge
	}

	dec, err := zstd.NewReader(br, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}
	defer dec.Close()
	mf.Map = make([]byte, n)
	if _, err := io.ReadFull(dec, mf.Map); err != nil {
		return nil, FormatError("map data truncated")
	}
	return mf, nil
}
