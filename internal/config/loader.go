package config

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	bperrors "github.com/matzehuels/bpmnlayout/pkg/errors"
)

// Load reads a config file, auto-detecting format by extension.
// Supported extensions: .toml, .yaml, .yml
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return Config{}, bperrors.Wrap(bperrors.ErrCodeFileNotFound, err, "config file %s", path)
	}
	if err != nil {
		return Config{}, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "read config file")
	}

	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".toml":
		return FromTOML(data)
	case ".yaml", ".yml":
		return FromYAML(data)
	default:
		return Config{}, bperrors.New(bperrors.ErrCodeInvalidConfig, "unsupported config file extension: %q", ext)
	}
}

// LoadDefault loads the file at DefaultPath if it exists, and Default
// otherwise.
func LoadDefault() (Config, error) {
	path, err := DefaultPath()
	if err != nil {
		return Default(), nil
	}
	if _, err := os.Stat(path); err != nil {
		return Default(), nil
	}
	return Load(path)
}

// FromTOML decodes TOML over the defaults.
func FromTOML(data []byte) (Config, error) {
	cfg := Default()
	md, err := toml.Decode(string(data), &cfg)
	if err != nil {
		return Config{}, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "parse toml")
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return Config{}, bperrors.New(bperrors.ErrCodeInvalidConfig, "unknown config key %q", undecoded[0].String())
	}
	return cfg, cfg.Validate()
}

// FromYAML decodes YAML over the defaults.
func FromYAML(data []byte) (Config, error) {
	cfg := Default()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, bperrors.Wrap(bperrors.ErrCodeInvalidConfig, err, "parse yaml")
	}
	return cfg, cfg.Validate()
}

// Validate checks every field against its constraints.
func (c Config) Validate() error {
	if err := bperrors.ValidateStruct(c); err != nil {
		return bperrors.New(bperrors.ErrCodeInvalidConfig, "%s", bperrors.UserMessage(err))
	}
	return nil
}
