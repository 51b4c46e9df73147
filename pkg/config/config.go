// Package config reads and writes analysis parameters as TOML.
//
// Files only need to name the keys they change; everything else keeps the
// value from [stability.DefaultParams]:
//
//	filament_type = "PETG"
//	bridge_distance = 12.0
//	use_brim = false
package config

import (
	"bytes"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/stabilizer/pkg/errors"
	"github.com/matzehuels/stabilizer/pkg/stability"
)

// Load reads a parameter file over the defaults. An empty path returns the
// defaults.
func Load(path string) (stability.Params, error) {
	if path == "" {
		return stability.DefaultParams(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return stability.Params{}, errors.Wrap(errors.ErrCodeFileNotFound, err, "config %s", path)
		}
		return stability.Params{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read config %s", path)
	}
	p, err := Decode(bytes.NewReader(data))
	if err != nil {
		return stability.Params{}, errors.Wrap(errors.GetCode(err), err, "config %s", path)
	}
	return p, nil
}

// Decode parses TOML over the defaults and validates the result. Keys that
// do not name a parameter are rejected so typos do not go unnoticed.
func Decode(r io.Reader) (stability.Params, error) {
	p := stability.DefaultParams()
	md, err := toml.NewDecoder(r).Decode(&p)
	if err != nil {
		return stability.Params{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return stability.Params{}, errors.New(errors.ErrCodeInvalidParams, "unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := p.Validate(); err != nil {
		return stability.Params{}, err
	}
	return p, nil
}

// Encode writes p as TOML.
func Encode(w io.Writer, p stability.Params) error {
	return toml.NewEncoder(w).Encode(p)
}
