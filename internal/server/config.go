package server

import "time"

// Config is the HTTP server's own section, distinct from the simulator's
// domain config (internal/config) — host/port/timeouts/CORS only.
type Config struct {
	Host        string        `conf:"host"`
	Port        int           `conf:"port"`
	ReadTimeout time.Duration `conf:"read_timeout"`
	Debug       bool          `conf:"debug"`
	CORS        CORS          `conf:"cors"`
}

type CORS struct {
	Enabled bool     `conf:"enabled"`
	Origins []string `conf:"origins"`
}
