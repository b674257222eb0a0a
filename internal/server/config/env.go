package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
	"github.com/joho/godotenv"
)

// Environment variable names read by parseEnv.
const (
	EnvGRPCAddress          = "GRPC_ADDRESS"
	EnvHTTPAddress          = "HTTP_ADDRESS"
	EnvStorageBackend       = "STORAGE_BACKEND"
	EnvDatabaseDSN          = "DATABASE_DSN"
	EnvPasswordHasher       = "PASSWORD_HASHER"
	EnvBcryptCost           = "BCRYPT_COST"
	EnvVerificationTokenTTL = "VERIFICATION_TOKEN_TTL"
	EnvNotifier             = "NOTIFIER"
	EnvEmailServiceURL      = "EMAIL_SERVICE_URL"
	EnvEmailServiceTimeout  = "EMAIL_SERVICE_TIMEOUT"
	EnvAMQPURL              = "AMQP_URL"
	EnvAMQPQueue            = "AMQP_QUEUE"
	EnvLogLevel             = "LOG_LEVEL"
)

// parseEnv loads the dotenv file (-env-file, default ".env") when present and
// then overlays any set environment variables. Variables already present in
// the process environment win over the file. Malformed numbers or durations
// panic like a malformed JSON file does.
func parseEnv(config *Config) {
	if err := godotenv.Load(flagx.EnvFileFlags()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	envString(&config.EndpointAddrGRPC, EnvGRPCAddress)
	envString(&config.EndpointAddrHTTP, EnvHTTPAddress)
	envString(&config.StorageBackend, EnvStorageBackend)
	envString(&config.DatabaseDSN, EnvDatabaseDSN)
	envString(&config.PasswordHasher, EnvPasswordHasher)
	envInt(&config.BcryptCost, EnvBcryptCost)
	envDuration(&config.VerificationTokenTTL, EnvVerificationTokenTTL)
	envString(&config.Notifier, EnvNotifier)
	envString(&config.EmailServiceURL, EnvEmailServiceURL)
	envDuration(&config.EmailServiceTimeout, EnvEmailServiceTimeout)
	envString(&config.AMQPURL, EnvAMQPURL)
	envString(&config.AMQPQueue, EnvAMQPQueue)
	envString(&config.LogLevel, EnvLogLevel)
}

func envString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func envInt(dst *int, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		panic(fmt.Errorf("invalid int for %s: %q", key, v))
	}
	*dst = n
}

func envDuration(dst *time.Duration, key string) {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(fmt.Errorf("invalid duration for %s: %q", key, v))
	}
	*dst = d
}
