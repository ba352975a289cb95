package config

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	DefaultPort           = "4000"
	DefaultAllowedOrigins = "http://localhost:5173,http://localhost:3000"
	DefaultLogLevel       = "info"
)

// Config is the resolved server configuration. cmd/server fills it from
// flags, environment and an optional .env file.
type Config struct {
	Port           string
	AllowedOrigins []string
	LogLevel       string
	RundownFile    string
}

func (c Config) Addr() string {
	return ":" + c.Port
}

func (c Config) Validate() error {
	if c.Port == "" {
		return fmt.Errorf("port is required")
	}
	for _, r := range c.Port {
		if r < '0' || r > '9' {
			return fmt.Errorf("port %q is not numeric", c.Port)
		}
	}
	if len(c.AllowedOrigins) == 0 {
		return fmt.Errorf("at least one allowed origin is required")
	}
	return nil
}

// ParseOrigins splits a comma separated origin list, dropping blanks and
// trailing slashes.
func ParseOrigins(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		o := strings.TrimRight(strings.TrimSpace(part), "/")
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

// OriginPatterns converts origins to the host patterns the WebSocket accept
// check matches against. "*" passes through unchanged.
func (c Config) OriginPatterns() []string {
	out := make([]string, 0, len(c.AllowedOrigins))
	for _, o := range c.AllowedOrigins {
		if o == "*" {
			out = append(out, o)
			continue
		}
		u, err := url.Parse(o)
		if err != nil || u.Host == "" {
			out = append(out, o)
			continue
		}
		out = append(out, u.Host)
	}
	return out
}
