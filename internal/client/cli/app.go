// Package cli is the interactive accountkeeper command-line client.
//
// It connects to the gRPC endpoint from config and runs a REPL that can sign
// up, log in, verify an email token, request a new token and show the
// current account.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/dmitrijs2005/accountkeeper/internal/client/client"
	"github.com/dmitrijs2005/accountkeeper/internal/client/config"
	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
)

// accountAPI is the subset of client.GRPCClient the commands use.
type accountAPI interface {
	Signup(ctx context.Context, email, password string) (*rpc.SignupResponse, error)
	Login(ctx context.Context, email, password string) (*rpc.LoginResponse, error)
	Verify(ctx context.Context, token string) (*rpc.VerifyResponse, error)
	ResendVerification(ctx context.Context, email string) (*rpc.ResendVerificationResponse, error)
	Validate(ctx context.Context, userID string) (*rpc.LoginResponse, error)
	Ping(ctx context.Context) error
	Close() error
}

type App struct {
	config  *config.Config
	api     accountAPI
	reader  *bufio.Reader
	out     io.Writer
	current *rpc.LoginResponse
}

func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, err
	}
	return newApp(c, api, os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api accountAPI, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

func (a *App) status() string {
	if a.current == nil {
		return "guest"
	}
	if !a.current.EmailValidated {
		return a.current.Email + " (unverified)"
	}
	return a.current.Email
}

// Root checks connectivity, then runs the REPL until the user exits.
func (a *App) Root(ctx context.Context) error {
	defer a.api.Close()

	if err := a.api.Ping(ctx); err != nil {
		printlnFn("Server not reachable at", a.config.ServerEndpointAddr+":", err)
	}

	printlnFn(helpText)
	runREPL(ctx, a, a.status, a.reader)
	return nil
}
