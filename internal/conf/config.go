// Package conf resolves tool settings from built-in defaults layered with an
// optional TOML file.
package conf

import (
	"fmt"
	"os"
	"strings"

	"git.sr.ht/~spc/go-log"
	"github.com/BurntSushi/toml"
)

// DefaultPath is where commands look for settings unless --config points
// elsewhere.
const DefaultPath = ".confsort.toml"

// Config is the resolved, immutable settings object.
type Config struct {
	// Extensions lists the file suffixes selected by recursive directory
	// walks. Explicitly named files are always accepted.
	Extensions []string
	LogLevel   log.Level
}

// Default returns the built-in settings used when no file is present.
func Default() Config {
	return Config{
		Extensions: []string{".conf", ".cfg", ".config"},
		LogLevel:   log.LevelWarn,
	}
}

// Matches reports whether name carries one of the configured suffixes.
func (c Config) Matches(name string) bool {
	for _, ext := range c.Extensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Update applies non-nil values from a configDTO.
func (c *Config) Update(dto configDTO) {
	if dto.Extensions != nil {
		c.Extensions = *dto.Extensions
	}
	if dto.LogLevel != nil {
		switch *dto.LogLevel {
		case "DEBUG":
			c.LogLevel = log.LevelDebug
		case "INFO":
			c.LogLevel = log.LevelInfo
		case "WARN":
			c.LogLevel = log.LevelWarn
		case "ERROR":
			c.LogLevel = log.LevelError
		}
	}
}

type configDTO struct {
	Extensions *[]string `toml:"extensions"`
	LogLevel   *string   `toml:"log-level"`
}

// Load resolves settings from path layered over the defaults. A missing file
// is fine and yields the defaults; a present but unreadable or malformed
// file is an error (let's not hide problems from the users).
func Load(path string) (Config, error) {
	resolved := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return resolved, nil
		}
		return resolved, fmt.Errorf("failed to load %s: %w", path, err)
	}

	dto, err := parseConfigDTO(string(data))
	if err != nil {
		return resolved, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	resolved.Update(dto)

	return resolved, nil
}

// parseConfigDTO parses a TOML string into a configDTO.
func parseConfigDTO(data string) (configDTO, error) {
	var dto configDTO

	if err := toml.Unmarshal([]byte(data), &dto); err != nil {
		return dto, fmt.Errorf("failed to parse TOML: %w", err)
	}

	return dto, nil
}
