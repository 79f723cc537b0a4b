package cli

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/oliverbestmann/semlog"
	"github.com/oliverbestmann/semlog/physics"
	"gopkg.in/yaml.v3"
)

// Config is the content of the file passed via --config.
type Config struct {
	Engine  semlog.Config  `yaml:"engine"`
	Physics physics.Config `yaml:"physics"`
}

func DefaultConfig() Config {
	return Config{
		Engine:  semlog.DefaultConfig(),
		Physics: physics.DefaultConfig(),
	}
}

// LoadConfig starts with the defaults, applies the YAML file at path if set,
// then applies SEMLOG_* environment variables and validates the result.
func LoadConfig(path string) (Config, error) {
	config := DefaultConfig()

	if path != "" {
		buf, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}

		dec := yaml.NewDecoder(bytes.NewReader(buf))
		dec.KnownFields(true)

		// an empty file keeps the defaults
		if err := dec.Decode(&config); err != nil && !errors.Is(err, io.EOF) {
			return Config{}, fmt.Errorf("decode config %q: %w", path, err)
		}
	}

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	if err := errors.Join(config.Engine.Validate(), config.Physics.Validate()); err != nil {
		return Config{}, err
	}

	return config, nil
}
