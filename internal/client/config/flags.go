package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// parseFlags overlays cfg with -a and -t. Other arguments (such as -c) are
// filtered out beforehand so they do not trip the flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerEndpointAddr, "a", cfg.ServerEndpointAddr, "address and port to access server")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
