package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/flagx"
)

// parseFlags overlays command-line flags onto config.
//
//	-a string   gRPC bind address (e.g. ":50051")
//	-w string   HTTP bind address (e.g. ":8080")
//	-s string   storage backend: postgres | mysql | memory
//	-d string   database DSN
//	-x string   password hasher: bcrypt | argon2id
//	-k int      bcrypt cost
//	-t int      verification token TTL, minutes
//	-n string   notifier: http | amqp | log
//	-e string   email service base URL
//	-q string   AMQP URL
//	-u string   AMQP queue name
//	-l string   log level
//
// Only these flags are taken from os.Args, so -c / -env-file handled by
// other layers do not cause parse errors here.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-w", "-s", "-d", "-x", "-k", "-t", "-n", "-e", "-q", "-u", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddrGRPC, "a", config.EndpointAddrGRPC, "gRPC address and port")
	fs.StringVar(&config.EndpointAddrHTTP, "w", config.EndpointAddrHTTP, "HTTP address and port")
	fs.StringVar(&config.StorageBackend, "s", config.StorageBackend, "storage backend (postgres, mysql, memory)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.PasswordHasher, "x", config.PasswordHasher, "password hasher (bcrypt, argon2id)")
	fs.IntVar(&config.BcryptCost, "k", config.BcryptCost, "bcrypt cost")
	tokenTTL := fs.Int("t", int(config.VerificationTokenTTL.Minutes()), "verification token TTL (in minutes)")
	fs.StringVar(&config.Notifier, "n", config.Notifier, "notifier (http, amqp, log)")
	fs.StringVar(&config.EmailServiceURL, "e", config.EmailServiceURL, "email service base URL")
	fs.StringVar(&config.AMQPURL, "q", config.AMQPURL, "AMQP URL")
	fs.StringVar(&config.AMQPQueue, "u", config.AMQPQueue, "AMQP queue")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.VerificationTokenTTL = time.Duration(*tokenTTL) * time.Minute
}
