package experiment

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/apurvsibal/pycaret/pkg/errors"
)

// LoadConfig reads a session configuration from a YAML file. Field defaults
// are applied later by NewSession, so a minimal file only needs the use case.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.Wrapf(err, "read config %s", path)
	}
	return ParseConfig(data)
}

// ParseConfig decodes a YAML session configuration.
func ParseConfig(data []byte) (Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, errors.Wrap(err, "parse config")
	}
	return cfg, nil
}
