package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/dmitrijs2005/accountkeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations accept
// either "24h"-style strings or integer nanoseconds. Fields left out of
// the file keep their current value.
type JsonConfig struct {
	EndpointAddrGRPC     *string         `json:"endpoint_addr_grpc"`
	EndpointAddrHTTP     *string         `json:"endpoint_addr_http"`
	StorageBackend       *string         `json:"storage_backend"`
	DatabaseDSN          *string         `json:"database_dsn"`
	PasswordHasher       *string         `json:"password_hasher"`
	BcryptCost           *int            `json:"bcrypt_cost"`
	VerificationTokenTTL *timex.Duration `json:"verification_token_ttl"`
	Notifier             *string         `json:"notifier"`
	EmailServiceURL      *string         `json:"email_service_url"`
	EmailServiceTimeout  *timex.Duration `json:"email_service_timeout"`
	AMQPURL              *string         `json:"amqp_url"`
	AMQPQueue            *string         `json:"amqp_queue"`
	LogLevel             *string         `json:"log_level"`
}

// parseJson overlays the file named by -c / -config onto config. Without
// the flag nothing is loaded. An unreadable or malformed file panics, as
// the server cannot start with a config it cannot understand.
func parseJson(config *Config) {
	path := flagx.JsonConfigFlags()
	if path == "" {
		return
	}

	file, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setString(&config.EndpointAddrGRPC, c.EndpointAddrGRPC)
	setString(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setString(&config.StorageBackend, c.StorageBackend)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.PasswordHasher, c.PasswordHasher)
	if c.BcryptCost != nil {
		config.BcryptCost = *c.BcryptCost
	}
	if c.VerificationTokenTTL != nil {
		config.VerificationTokenTTL = c.VerificationTokenTTL.Duration
	}
	setString(&config.Notifier, c.Notifier)
	setString(&config.EmailServiceURL, c.EmailServiceURL)
	if c.EmailServiceTimeout != nil {
		config.EmailServiceTimeout = c.EmailServiceTimeout.Duration
	}
	setString(&config.AMQPURL, c.AMQPURL)
	setString(&config.AMQPQueue, c.AMQPQueue)
	setString(&config.LogLevel, c.LogLevel)
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
