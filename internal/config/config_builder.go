package config

import (
	"errors"
	"fmt"

	"dario.cat/mergo"
)

// Config source names, in the order GetStructuredConfig layers them.
const (
	sourceDefaults = "defaults"
	sourceEnv      = "env"
	sourceFlags    = "flags"
	sourceJSON     = "json"
)

// configLayer is one parsed source; zero fields leave lower layers intact.
type configLayer struct {
	source string
	cfg    *StructuredConfig
}

type configBuilder struct {
	layers []configLayer
	err    error
}

func newConfigBuilder() *configBuilder {
	return &configBuilder{layers: make([]configLayer, 0, 4)}
}

// add parses one source and stacks it on top. A failing source is recorded
// under its name and skipped so the remaining sources still report errors.
func (b *configBuilder) add(source string, parse func() (*StructuredConfig, error)) *configBuilder {
	cfg, err := parse()
	if err != nil {
		b.err = errors.Join(b.err, fmt.Errorf("%s config: %w", source, err))
		return b
	}
	if cfg != nil {
		b.layers = append(b.layers, configLayer{source: source, cfg: cfg})
	}
	return b
}

func (b *configBuilder) build() (*StructuredConfig, error) {
	if b.err != nil {
		return nil, fmt.Errorf("error occured during building config: %w", b.err)
	}

	merged := new(StructuredConfig)
	for _, layer := range b.layers {
		if err := mergo.Merge(merged, layer.cfg, mergo.WithOverride); err != nil {
			return nil, fmt.Errorf("error merging %s config: %w", layer.source, err)
		}
	}
	return merged, merged.validate()
}

func (b *configBuilder) withDefaults() *configBuilder {
	return b.add(sourceDefaults, func() (*StructuredConfig, error) {
		return defaultConfig(), nil
	})
}

func (b *configBuilder) withEnv() *configBuilder {
	return b.add(sourceEnv, func() (*StructuredConfig, error) {
		cfg := new(StructuredConfig)
		return cfg, parseEnv(cfg)
	})
}

func (b *configBuilder) withFlags() *configBuilder {
	return b.add(sourceFlags, ParseFlags)
}

// withJSON loads the file named by the topmost layer that sets a path.
func (b *configBuilder) withJSON() *configBuilder {
	path := b.jsonPath()
	if path == "" {
		return b
	}
	return b.add(sourceJSON, func() (*StructuredConfig, error) {
		return parseJSON(path)
	})
}

func (b *configBuilder) jsonPath() string {
	for i := len(b.layers) - 1; i >= 0; i-- {
		if p := b.layers[i].cfg.JSONFilePath; p != "" {
			return p
		}
	}
	return ""
}
