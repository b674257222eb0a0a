// Package config loads runtime configuration for the accountkeeper CLI.
//
// Sources, in increasing precedence: built-in defaults, an optional JSON
// file selected with -c / -config, then command-line flags.
//
//	-a string     address:port of the gRPC endpoint
//	-t duration   per-request timeout ("5s", "1m")
//
// JSON example:
//
//	{
//	  "server_endpoint_addr": "127.0.0.1:50051",
//	  "request_timeout": "5s"
//	}
package config

import "time"

// Config holds runtime settings for the CLI.
type Config struct {
	ServerEndpointAddr string
	RequestTimeout     time.Duration
}

func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig applies defaults, then JSON (if present), then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
