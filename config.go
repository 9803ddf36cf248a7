package overlaystat

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// fileConfig is the YAML form of Options. Pointer fields distinguish an
// absent key from a zero value.
type fileConfig struct {
	Source         *Size `yaml:"source"`
	Overlay        *Size `yaml:"overlay"`
	Version        *int  `yaml:"version"`
	UseMmap        *bool `yaml:"use_mmap"`
	SyncWrites     *bool `yaml:"sync_writes"`
	BufferPoolSize *int  `yaml:"buffer_pool_size"`
}

// LoadOptions reads a YAML options file. Keys that are missing keep their
// DefaultOptions value.
func LoadOptions(path string) (Options, error) {
	opts := DefaultOptions()
	data, err := os.ReadFile(path)
	if err != nil {
		return opts, fmt.Errorf("read config file: %w", err)
	}
	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return opts, fmt.Errorf("decode config: %w", err)
	}
	if err := fc.apply(&opts); err != nil {
		return opts, fmt.Errorf("config %s: %w", path, err)
	}
	return opts, nil
}

func (fc fileConfig) apply(opts *Options) error {
	if fc.Source != nil {
		opts.SourceSize = *fc.Source
	}
	if fc.Overlay != nil {
		opts.OverlaySize = *fc.Overlay
	}
	if fc.Version != nil {
		if *fc.Version < 1 || *fc.Version > int(LatestVersion) {
			return fmt.Errorf("%w: %d", ErrUnsupportedVersion, *fc.Version)
		}
		opts.Version = byte(*fc.Version)
	}
	if fc.UseMmap != nil {
		opts.UseMmap = *fc.UseMmap
	}
	if fc.SyncWrites != nil {
		opts.SyncWrites = *fc.SyncWrites
	}
	if fc.BufferPoolSize != nil {
		if *fc.BufferPoolSize < 0 {
			return errors.New("buffer_pool_size must not be negative")
		}
		opts.BufferPoolSize = *fc.BufferPoolSize
	}
	return nil
}
