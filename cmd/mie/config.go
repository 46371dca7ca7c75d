package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// config holds defaults that flags may override.
type config struct {
	Key      string `toml:"key"`       // passphrase for the block permutation
	Format   string `toml:"format"`    // output image format: png or bmp
	MapLevel int    `toml:"map_level"` // zstd level for map files
}

var defaultConfig = config{
	Format:   "png",
	MapLevel: 0,
}

func loadConfig(path string) (config, error) {
	c := defaultConfig
	if path == "" {
		return c, nil
	}
	if _, err := toml.DecodeFile(path, &c); err != nil {
		return c, err
	}
	switch c.Format {
	case "png", "bmp":
	default:
		return c, fmt.Errorf("unsupported output format %q", c.Format)
	}
	if c.MapLevel < 0 || c.MapLevel > 22 {
		return c, fmt.Errorf("map_level %d out of range", c.MapLevel)
	}
	return c, nil
}
