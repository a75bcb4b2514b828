package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Config holds runtime settings for the CygnusOne client.
//
// Fields:
//   - APIBaseURL: base URL of the backend REST API, including the /api prefix.
//   - RequestTimeout: per-request HTTP timeout.
//   - DatabasePath: location of the local sqlite database.
//   - KeyFilePath: location of the key file sealing stored secrets.
type Config struct {
	APIBaseURL     string
	DatabasePath   string
	KeyFilePath    string
	RequestTimeout time.Duration
}

// LoadDefaults populates c with sensible defaults. Data files land in the
// platform data directory; when that cannot be resolved they fall back to
// the working directory.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://localhost:5000/api"
	c.RequestTimeout = 30 * time.Second
	c.DatabasePath = dataFile("client.db")
	c.KeyFilePath = dataFile("client.key")
}

func dataFile(name string) string {
	path, err := xdg.DataFile(filepath.Join("cygnusone", name))
	if err != nil {
		return name
	}
	return path
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
