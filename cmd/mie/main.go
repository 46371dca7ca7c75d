package main

import (
	"encoding/binary"
	"io"
	"io/ioutil"
	"log"
	"os"
	"strconv"

	"lukechampine.com/flagg"

	"github.com/M311y6/MIE/internal/xrand"
	"github.com/M311y6/MIE/rdh"
)

const magic = "mie"

// frame prefixes the payload with magic and its length so that reveal can
// recognise it and discard the filler bits that follow.
func frame(text []byte) []byte {
	data := make([]byte, len(magic)+4+len(text))
	copy(data, magic)
	binary.LittleEndian.PutUint32(data[len(magic):], uint32(len(text)))
	copy(data[len(magic)+4:], text)
	return data
}

func unframe(data []byte) []byte {
	if len(data) < len(magic)+4 || string(data[:len(magic)]) != magic {
		log.Fatalln("images do not contain hidden data")
	}
	n := binary.LittleEndian.Uint32(data[len(magic):])
	if uint64(n) > uint64(len(data)-len(magic)-4) {
		log.Fatalln("hidden data is malformed")
	}
	return data[len(magic)+4:][:n]
}

func main() {
	log.SetFlags(0)

	flagg.Root.Usage = flagg.SimpleUsage(flagg.Root, `Usage: mie [command] [args]

Commands:
    mie split in.png out1.png out2.png
    mie combine in1.png in2.png out.png
    mie hide img1.png img2.png [FILE]
    mie reveal img1.png img2.png [FILE]
    mie shuffle in.png out.png
    mie unshuffle in.png out.png
`)
	cmdSplit := flagg.New("split", `Usage:
    mie split [-seed N] [-modulo] in.png out1.png out2.png
      Split in.png into two cover images that sum to it
`)
	splitSeed := cmdSplit.String("seed", "", "seed for a reproducible split")
	splitModulo := cmdSplit.Bool("modulo", false, "use the modulo split instead of the mask split")

	cmdCombine := flagg.New("combine", `Usage:
    mie combine in1.png in2.png out.png
      Add two cover images back into the original
`)

	cmdHide := flagg.New("hide", `Usage:
    mie hide [-key K] [-map F] [-config F] img1.png img2.png [FILE]
      Hide FILE (or stdin) in the image pair, writing img1.rdh.png,
      img2.rdh.png and the side-information map (img1.map)
`)
	hideKey := cmdHide.String("key", "", "passphrase for shuffling the covers before embedding")
	hideMap := cmdHide.String("map", "", "map file to write")
	hideConfig := cmdHide.String("config", "", "TOML file with default settings")
	hideVerbose := cmdHide.Bool("v", false, "print capacity and map statistics")

	cmdReveal := flagg.New("reveal", `Usage:
    mie reveal [-key K] [-map F] [-restore] img1.rdh.png img2.rdh.png [FILE]
      Write the hidden contents of the image pair to FILE (or stdout)
`)
	revealKey := cmdReveal.String("key", "", "passphrase used when hiding")
	revealMap := cmdReveal.String("map", "", "map file written by hide")
	revealRestore := cmdReveal.Bool("restore", false, "write the restored cover images")
	revealConfig := cmdReveal.String("config", "", "TOML file with default settings")

	cmdShuffle := flagg.New("shuffle", `Usage:
    mie shuffle -key K in.png out.png
      Permute the 8-pixel chunks of in.png
`)
	shuffleKey := cmdShuffle.String("key", "", "passphrase")
	cmdUnshuffle := flagg.New("unshuffle", `Usage:
    mie unshuffle -key K in.png out.png
      Undo shuffle with the same key
`)
	unshuffleKey := cmdUnshuffle.String("key", "", "passphrase")

	cmd := flagg.Parse(flagg.Tree{
		Cmd: flagg.Root,
		Sub: []flagg.Tree{
			{Cmd: cmdSplit},
			{Cmd: cmdCombine},
			{Cmd: cmdHide},
			{Cmd: cmdReveal},
			{Cmd: cmdShuffle},
			{Cmd: cmdUnshuffle},
		},
	})

	switch cmd {
	case cmdSplit:
		if cmd.NArg() != 3 {
			cmd.Usage()
			return
		}
		src, err := loadPlane(cmd.Arg(0))
		if err != nil {
			log.Fatalln("could not load image:", err)
		}
		rnd := xrand.NewCrypto()
		if *splitSeed != "" {
			seed, err := strconv.ParseUint(*splitSeed, 10, 64)
			if err != nil {
				log.Fatalln("invalid seed:", err)
			}
			rnd = xrand.New(seed)
		}
		mode := rdh.SplitMask
		if *splitModulo {
			mode = rdh.SplitModulo
		}
		a, b := rdh.SplitWith(src.pix, rnd, mode)
		for i, pix := range [][]byte{a, b} {
			out := cmd.Arg(1 + i)
			if err := savePlane(out, &plane{pix, src.w, src.h}, formatFor(out, "png")); err != nil {
				log.Fatalln("could not write image:", err)
			}
		}

	case cmdCombine:
		if cmd.NArg() != 3 {
			cmd.Usage()
			return
		}
		p1, p2, err := loadPair(cmd.Arg(0), cmd.Arg(1))
		if err != nil {
			log.Fatalln("could not load images:", err)
		}
		pix, err := rdh.Combine(p1.pix, p2.pix)
		if err != nil {
			log.Fatalln("could not combine images:", err)
		}
		out := cmd.Arg(2)
		if err := savePlane(out, &plane{pix, p1.w, p1.h}, formatFor(out, "png")); err != nil {
			log.Fatalln("could not write image:", err)
		}

	case cmdHide:
		var in io.Reader
		switch cmd.NArg() {
		case 2:
			in = os.Stdin
		case 3:
			fin, err := os.Open(cmd.Arg(2))
			if err != nil {
				log.Fatalln("could not open file:", err)
			}
			defer fin.Close()
			in = fin
		default:
			cmd.Usage()
			return
		}
		conf, err := loadConfig(*hideConfig)
		if err != nil {
			log.Fatalln("could not load config:", err)
		}
		if *hideKey != "" {
			conf.Key = *hideKey
		}

		p1, p2, err := loadPair(cmd.Arg(0), cmd.Arg(1))
		if err != nil {
			log.Fatalln("could not load images:", err)
		}
		text, err := ioutil.ReadAll(in)
		if err != nil {
			log.Fatalln("could not read input:", err)
		}
		data := frame(text)

		if conf.Key != "" {
			key := rdh.KeyFromPassphrase(conf.Key)
			rdh.Shuffle(p1.pix, key)
			rdh.Shuffle(p2.pix, key)
		}
		if *hideVerbose {
			capacity, err := rdh.Capacity(p1.pix, p2.pix, p1.w, p1.h)
			if err != nil {
				log.Fatalln(err)
			}
			log.Printf("capacity: %d bytes, payload: %d bytes", capacity/8, len(data))
		}
		m, err := rdh.Embed(p1.pix, p2.pix, p1.w, p1.h, data)
		if err != nil {
			log.Fatalln("could not hide data:", err)
		}
		if *hideVerbose {
			log.Printf("map: %d of %d blocks", len(m), rdh.Blocks(p1.w, p1.h))
		}

		for i, p := range []*plane{p1, p2} {
			src := cmd.Arg(i)
			format := formatFor(src, conf.Format)
			if err := savePlane(derivePath(src, ".rdh", format), p, format); err != nil {
				log.Fatalln("could not write image:", err)
			}
		}
		mapPath := *hideMap
		if mapPath == "" {
			mapPath = derivePath(cmd.Arg(0), "", "map")
		}
		if err := writeMap(mapPath, &rdh.MapFile{
			Width:      p1.w,
			Height:     p1.h,
			PayloadLen: len(data),
			Map:        m,
		}, conf.MapLevel); err != nil {
			log.Fatalln("could not write map:", err)
		}

	case cmdReveal:
		var out io.Writer
		switch cmd.NArg() {
		case 2:
			out = os.Stdout
		case 3:
			fout, err := os.Create(cmd.Arg(2))
			if err != nil {
				log.Fatalln("could not create output file:", err)
			}
			defer fout.Close()
			out = fout
		default:
			cmd.Usage()
			return
		}
		conf, err := loadConfig(*revealConfig)
		if err != nil {
			log.Fatalln("could not load config:", err)
		}
		if *revealKey != "" {
			conf.Key = *revealKey
		}

		p1, p2, err := loadPair(cmd.Arg(0), cmd.Arg(1))
		if err != nil {
			log.Fatalln("could not load images:", err)
		}
		mapPath := *revealMap
		if mapPath == "" {
			mapPath = derivePath(trimSuffix(cmd.Arg(0), ".rdh"), "", "map")
		}
		mf, err := readMap(mapPath)
		if err != nil {
			log.Fatalln("could not read map:", err)
		}
		if mf.Width != p1.w || mf.Height != p1.h {
			log.Fatalf("map is for %dx%d images, not %dx%d", mf.Width, mf.Height, p1.w, p1.h)
		}
		data, err := rdh.Extract(p1.pix, p2.pix, p1.w, p1.h, mf.Map)
		if err != nil {
			log.Fatalln("could not reveal data:", err)
		}
		if mf.PayloadLen > len(data) {
			log.Fatalln("hidden data is malformed")
		}
		text := unframe(data[:mf.PayloadLen])
		if _, err := out.Write(text); err != nil {
			log.Fatalln("could not write hidden data:", err)
		}

		if *revealRestore {
			if conf.Key != "" {
				key := rdh.KeyFromPassphrase(conf.Key)
				rdh.Unshuffle(p1.pix, key)
				rdh.Unshuffle(p2.pix, key)
			}
			for i, p := range []*plane{p1, p2} {
				src := trimSuffix(cmd.Arg(i), ".rdh")
				format := formatFor(cmd.Arg(i), conf.Format)
				if err := savePlane(derivePath(src, ".restored", format), p, format); err != nil {
					log.Fatalln("could not write image:", err)
				}
			}
		}

	case cmdShuffle, cmdUnshuffle:
		key := *shuffleKey
		if cmd == cmdUnshuffle {
			key = *unshuffleKey
		}
		if cmd.NArg() != 2 || key == "" {
			cmd.Usage()
			return
		}
		p, err := loadPlane(cmd.Arg(0))
		if err != nil {
			log.Fatalln("could not load image:", err)
		}
		if cmd == cmdShuffle {
			rdh.Shuffle(p.pix, rdh.KeyFromPassphrase(key))
		} else {
			rdh.Unshuffle(p.pix, rdh.KeyFromPassphrase(key))
		}
		out := cmd.Arg(1)
		if err := savePlane(out, p, formatFor(out, "png")); err != nil {
			log.Fatalln("could not write image:", err)
		}

	default:
		flagg.Root.Usage()
	}
}

