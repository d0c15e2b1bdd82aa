package config

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/BurntSushi/toml"
)

// tomlDecoder reads TOML configuration files for aconfig.
type tomlDecoder struct {
	fsys fs.FS
}

func (d *tomlDecoder) Format() string { return "toml" }

func (d *tomlDecoder) Init(fsys fs.FS) { d.fsys = fsys }

func (d *tomlDecoder) DecodeFile(filename string) (map[string]interface{}, error) {
	var (
		data []byte
		err  error
	)
	if d.fsys != nil {
		data, err = fs.ReadFile(d.fsys, filename)
	} else {
		data, err = os.ReadFile(filename)
	}
	if err != nil {
		return nil, err
	}

	raw := make(map[string]interface{})
	if _, err := toml.Decode(string(data), &raw); err != nil {
		return nil, fmt.Errorf("decode %s: %w", filename, err)
	}
	return raw, nil
}
