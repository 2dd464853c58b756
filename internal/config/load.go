package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/pelletier/go-toml/v2"
)

// Delimiter separates nested keys inside koanf. Theme keys routinely
// contain dots (spacing 2.5), so the default "." cannot be used.
const Delimiter = "::"

// DefaultFiles are probed, in order, when no config path is given.
var DefaultFiles = []string{"windgen.config.yaml", "windgen.config.yml", "windgen.config.toml"}

// TOMLParser adapts go-toml to koanf's Parser interface.
type TOMLParser struct{}

// Unmarshal decodes TOML into a nested map.
func (TOMLParser) Unmarshal(b []byte) (map[string]any, error) {
	var out map[string]any
	if err := toml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Marshal encodes a nested map as TOML.
func (TOMLParser) Marshal(m map[string]any) ([]byte, error) {
	return toml.Marshal(m)
}

// parserFor picks a koanf parser from the file extension.
func parserFor(path string) (koanf.Parser, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return yaml.Parser(), nil
	case ".toml":
		return TOMLParser{}, nil
	}
	return nil, fmt.Errorf("unsupported config format %q (want .yaml, .yml or .toml)", filepath.Ext(path))
}

// Load reads and normalises the config file at path. Warnings describe
// fields that were ignored or reset; err is only returned when the file
// cannot be read or decoded.
func Load(path string) (*Config, []*ValidationError, error) {
	raw, err := LoadRaw(path)
	if err != nil {
		return nil, nil, err
	}
	c, warnings := FromMap(raw)
	c.Path = path
	return c, warnings, nil
}

// LoadRaw decodes the config file at path without normalising it.
func LoadRaw(path string) (map[string]any, error) {
	parser, err := parserFor(path)
	if err != nil {
		return nil, err
	}
	k := koanf.New(Delimiter)
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, fmt.Errorf("loading config file %s: %w", path, err)
	}
	return k.Raw(), nil
}
