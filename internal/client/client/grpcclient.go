// Package client wraps the accounts gRPC API for the CLI.
package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable        = errors.New("server unavailable")
	ErrInvalidCredentials = errors.New(rpc.MsgInvalidCredentials)
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidToken       = errors.New(rpc.MsgInvalidToken)
	ErrCannotResend       = errors.New(rpc.MsgCannotResend)
	ErrNotFound           = errors.New(rpc.MsgUserNotFound)
	ErrDeliveryFailed     = errors.New(rpc.MsgDeliveryFailed)
)

// GRPCClient is a thin, timeout-aware facade over rpc.AccountServiceClient.
type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      rpc.AccountServiceClient
}

// NewGRPCClient creates a lazily connecting client for endpointURL. A
// non-positive timeout disables the per-call deadline.
func NewGRPCClient(endpointURL string, timeout time.Duration, opts ...grpc.DialOption) (*GRPCClient, error) {
	opts = append([]grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, fmt.Errorf("grpc client: %w", err)
	}

	return &GRPCClient{
		endpointURL: endpointURL,
		timeout:     timeout,
		conn:        conn,
		client:      rpc.NewAccountServiceClient(conn),
	}, nil
}

func (c *GRPCClient) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.timeout)
}

// Signup registers email/password. On ErrDeliveryFailed the account exists
// but no verification message went out; the returned response then carries
// the new account id and a resend can be tried later.
func (c *GRPCClient) Signup(ctx context.Context, email, password string) (*rpc.SignupResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Signup(ctx, &rpc.SignupRequest{Email: email, Password: password})
	if err != nil {
		if id, ok := rpc.DeliveryFailure(err); ok {
			return &rpc.SignupResponse{ID: id, Email: email, Message: rpc.MsgDeliveryFailed}, ErrDeliveryFailed
		}
		return nil, mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) Login(ctx context.Context, email, password string) (*rpc.LoginResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Login(ctx, &rpc.LoginRequest{Email: email, Password: password})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) Verify(ctx context.Context, token string) (*rpc.VerifyResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Verify(ctx, &rpc.VerifyRequest{Token: token})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) ResendVerification(ctx context.Context, email string) (*rpc.ResendVerificationResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.ResendVerification(ctx, &rpc.ResendVerificationRequest{Email: email})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

// Validate looks an account up by id.
func (c *GRPCClient) Validate(ctx context.Context, userID string) (*rpc.LoginResponse, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Validate(ctx, &rpc.ValidateRequest{UserID: userID})
	if err != nil {
		return nil, mapError(err)
	}
	return resp, nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()

	resp, err := c.client.Ping(ctx, &rpc.PingRequest{})
	if err != nil {
		return mapError(err)
	}
	if resp.Status != "OK" {
		return fmt.Errorf("ping: unexpected status %q", resp.Status)
	}
	return nil
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

func mapError(err error) error {
	st, ok := status.FromError(err)
	if !ok {
		return err
	}
	switch st.Code() {
	case codes.AlreadyExists:
		return ErrEmailTaken
	case codes.Unauthenticated:
		return ErrInvalidCredentials
	case codes.InvalidArgument:
		if st.Message() == rpc.MsgInvalidToken {
			return ErrInvalidToken
		}
		return fmt.Errorf("invalid request: %s", st.Message())
	case codes.FailedPrecondition:
		return ErrCannotResend
	case codes.NotFound:
		return ErrNotFound
	case codes.Unavailable:
		if _, delivery := rpc.DeliveryFailure(err); delivery {
			return ErrDeliveryFailed
		}
		return ErrUnavailable
	case codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("rpc error: %w", err)
	}
}
