package config

import (
	"fmt"
	"io"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Defaults returns the configuration that applies when neither a config file
// nor environment overrides are present.
func Defaults() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal defaults: %w", err)
	}
	if config.Server.Addr == "" {
		config.Server.Addr = ":" + DefaultPort
	}
	return &config, nil
}

// WriteYAML writes c in the layout InitializeConfig reads. The JWT secret is
// left out; it belongs in the environment.
func (c *Config) WriteYAML(w io.Writer) error {
	var doc yaml.Node
	if err := doc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	// yaml.v3 writes durations as nanoseconds; viper also reads "12h0m0s".
	if ttl := lookup(&doc, "auth", "token_ttl"); ttl != nil {
		ttl.Tag = "!!str"
		ttl.Value = c.Auth.TokenTTL.String()
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(&doc); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return enc.Close()
}

// lookup walks mapping keys from n and returns the value node at path.
func lookup(n *yaml.Node, path ...string) *yaml.Node {
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n.Kind != yaml.MappingNode {
			return nil
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if n.Content[i].Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return nil
		}
		n = next
	}
	return n
}
