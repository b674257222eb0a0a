package config

import (
	"os"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		name        string
		args        []string
		expected    *Config
		expectPanic bool
	}{
		{
			name: "all flags",
			args: []string{"accountkeeper",
				"-a", "127.0.0.1:9090", "-w", "127.0.0.1:9091", "-s", "mysql", "-d", "user:pw@tcp(db:3306)/accounts",
				"-x", "argon2id", "-k", "10", "-t", "90", "-n", "amqp", "-e", "http://mail:8000",
				"-q", "amqp://rabbit:5672/", "-u", "verifications", "-l", "debug",
			},
			expected: &Config{
				EndpointAddrGRPC:     "127.0.0.1:9090",
				EndpointAddrHTTP:     "127.0.0.1:9091",
				StorageBackend:       "mysql",
				DatabaseDSN:          "user:pw@tcp(db:3306)/accounts",
				PasswordHasher:       "argon2id",
				BcryptCost:           10,
				VerificationTokenTTL: 90 * time.Minute,
				Notifier:             "amqp",
				EmailServiceURL:      "http://mail:8000",
				AMQPURL:              "amqp://rabbit:5672/",
				AMQPQueue:            "verifications",
				LogLevel:             "debug",
			},
		},
		{
			name: "other layers' flags are ignored",
			args: []string{"accountkeeper", "-c", "server.json", "-env-file", "x.env", "-s", "memory"},
			expected: &Config{
				StorageBackend: "memory",
			},
		},
		{
			name:        "bad int panics",
			args:        []string{"accountkeeper", "-k", "twelve"},
			expectPanic: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Args = tt.args
			config := &Config{}

			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
