package main

import (
	"bytes"
	_ "embed"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed challenges.yaml
var defaultConfig []byte

// Config holds the ground truth and limits for a harness run.
type Config struct {
	QueryBudget        int      `yaml:"query_budget"`
	CBCCiphertext      string   `yaml:"cbc_ciphertext"`
	ModeRounds         int      `yaml:"mode_rounds"`
	ECBSecret          string   `yaml:"ecb_secret"`
	MaxPrefix          int      `yaml:"max_prefix"`
	PaddingOracleLines []string `yaml:"padding_oracle_lines"`

	secret   []byte
	cbcInput []byte
}

// loadConfig reads the embedded defaults, then overlays path if set.
func loadConfig(path string) (*Config, error) {
	cfg := &Config{}
	if err := decodeConfig(bytes.NewReader(defaultConfig), cfg); err != nil {
		return nil, fmt.Errorf("default config: %w", err)
	}
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		if err := decodeConfig(f, cfg); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decodeConfig(r io.Reader, cfg *Config) error {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

func (c *Config) validate() error {
	if c.QueryBudget < 0 {
		return fmt.Errorf("query_budget must not be negative")
	}
	if c.ModeRounds < 1 {
		return fmt.Errorf("mode_rounds must be positive")
	}
	if c.MaxPrefix < 0 || c.MaxPrefix > 255 {
		return fmt.Errorf("max_prefix must be in [0, 255]")
	}
	if len(c.PaddingOracleLines) == 0 {
		return fmt.Errorf("padding_oracle_lines is empty")
	}
	for i, line := range c.PaddingOracleLines {
		if _, err := base64.StdEncoding.DecodeString(line); err != nil {
			return fmt.Errorf("padding_oracle_lines[%d]: %w", i, err)
		}
	}
	ct, err := base64.StdEncoding.DecodeString(c.CBCCiphertext)
	if err != nil {
		return fmt.Errorf("cbc_ciphertext: %w", err)
	}
	c.cbcInput = ct
	secret, err := base64.StdEncoding.DecodeString(c.ECBSecret)
	if err != nil {
		return fmt.Errorf("ecb_secret: %w", err)
	}
	c.secret = secret
	return nil
}
