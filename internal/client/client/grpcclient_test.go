package client

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
)

// fakeServer answers every call from its preset fields and records requests.
type fakeServer struct {
	lastSignup   *rpc.SignupRequest
	lastLogin    *rpc.LoginRequest
	lastVerify   *rpc.VerifyRequest
	lastResend   *rpc.ResendVerificationRequest
	lastValidate *rpc.ValidateRequest

	signupResp *rpc.SignupResponse
	loginResp  *rpc.LoginResponse
	verifyResp *rpc.VerifyResponse
	pingStatus string
	block      bool
	err        error
}

func (f *fakeServer) Signup(ctx context.Context, in *rpc.SignupRequest) (*rpc.SignupResponse, error) {
	f.lastSignup = in
	return f.signupResp, f.err
}

func (f *fakeServer) Login(ctx context.Context, in *rpc.LoginRequest) (*rpc.LoginResponse, error) {
	f.lastLogin = in
	return f.loginResp, f.err
}

func (f *fakeServer) Verify(ctx context.Context, in *rpc.VerifyRequest) (*rpc.VerifyResponse, error) {
	f.lastVerify = in
	return f.verifyResp, f.err
}

func (f *fakeServer) ResendVerification(ctx context.Context, in *rpc.ResendVerificationRequest) (*rpc.ResendVerificationResponse, error) {
	f.lastResend = in
	if f.err != nil {
		return nil, f.err
	}
	return &rpc.ResendVerificationResponse{Message: rpc.MsgVerificationSent}, nil
}

func (f *fakeServer) Validate(ctx context.Context, in *rpc.ValidateRequest) (*rpc.LoginResponse, error) {
	f.lastValidate = in
	return f.loginResp, f.err
}

func (f *fakeServer) Ping(ctx context.Context, in *rpc.PingRequest) (*rpc.PingResponse, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return &rpc.PingResponse{Status: f.pingStatus}, f.err
}

func newTestClient(t *testing.T, srv *fakeServer, timeout time.Duration) *GRPCClient {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer()
	rpc.RegisterAccountServiceServer(s, srv)
	go func() { _ = s.Serve(lis) }()
	t.Cleanup(s.Stop)

	c, err := NewGRPCClient("passthrough:///bufnet", timeout,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestGRPCClient_Signup(t *testing.T) {
	srv := &fakeServer{signupResp: &rpc.SignupResponse{ID: "id-1", Email: "a@x.io", Message: rpc.MsgCheckEmail, Success: true}}
	c := newTestClient(t, srv, time.Second)

	resp, err := c.Signup(context.Background(), "a@x.io", "pw")
	require.NoError(t, err)

	assert.Equal(t, "id-1", resp.ID)
	assert.True(t, resp.Success)
	require.NotNil(t, srv.lastSignup)
	assert.Equal(t, "a@x.io", srv.lastSignup.Email)
	assert.Equal(t, "pw", srv.lastSignup.Password)
}

func TestGRPCClient_Signup_DeliveryFailureKeepsAccountID(t *testing.T) {
	c := newTestClient(t, &fakeServer{err: rpc.DeliveryFailedError("id-9")}, time.Second)

	resp, err := c.Signup(context.Background(), "a@x.io", "pw")
	assert.ErrorIs(t, err, ErrDeliveryFailed)
	require.NotNil(t, resp)
	assert.Equal(t, "id-9", resp.ID)
	assert.Equal(t, "a@x.io", resp.Email)
	assert.False(t, resp.Success)
}

func TestGRPCClient_LoginVerifyResendValidate(t *testing.T) {
	srv := &fakeServer{
		loginResp:  &rpc.LoginResponse{ID: "id-1", Email: "a@x.io", LoginSuccess: true},
		verifyResp: &rpc.VerifyResponse{Outcome: "verified", Message: rpc.MsgEmailVerified},
	}
	c := newTestClient(t, srv, time.Second)
	ctx := context.Background()

	login, err := c.Login(ctx, "a@x.io", "pw")
	require.NoError(t, err)
	assert.True(t, login.LoginSuccess)
	assert.Equal(t, "pw", srv.lastLogin.Password)

	v, err := c.Verify(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "verified", v.Outcome)
	assert.Equal(t, "tok", srv.lastVerify.Token)

	r, err := c.ResendVerification(ctx, "a@x.io")
	require.NoError(t, err)
	assert.Equal(t, rpc.MsgVerificationSent, r.Message)
	assert.Equal(t, "a@x.io", srv.lastResend.Email)

	u, err := c.Validate(ctx, "id-1")
	require.NoError(t, err)
	assert.Equal(t, "a@x.io", u.Email)
	assert.Equal(t, "id-1", srv.lastValidate.UserID)
}

func TestGRPCClient_Ping(t *testing.T) {
	c := newTestClient(t, &fakeServer{pingStatus: "OK"}, time.Second)
	require.NoError(t, c.Ping(context.Background()))

	c = newTestClient(t, &fakeServer{pingStatus: "DEGRADED"}, time.Second)
	require.Error(t, c.Ping(context.Background()))
}

func TestGRPCClient_TimeoutMapsToUnavailable(t *testing.T) {
	c := newTestClient(t, &fakeServer{block: true}, 50*time.Millisecond)

	err := c.Ping(context.Background())
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestGRPCClient_StatusMapping(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"email taken", status.Error(codes.AlreadyExists, "email already registered"), ErrEmailTaken},
		{"bad credentials", status.Error(codes.Unauthenticated, rpc.MsgInvalidCredentials), ErrInvalidCredentials},
		{"bad token", status.Error(codes.InvalidArgument, rpc.MsgInvalidToken), ErrInvalidToken},
		{"resend rejected", status.Error(codes.FailedPrecondition, rpc.MsgCannotResend), ErrCannotResend},
		{"not found", status.Error(codes.NotFound, rpc.MsgUserNotFound), ErrNotFound},
		{"delivery", rpc.DeliveryFailedError(""), ErrDeliveryFailed},
		{"unavailable with delivery text only", status.Error(codes.Unavailable, rpc.MsgDeliveryFailed), ErrUnavailable},
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), ErrUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, &fakeServer{err: tt.err}, time.Second)

			_, err := c.Login(context.Background(), "a@x.io", "pw")
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestMapError(t *testing.T) {
	plain := errors.New("boom")
	assert.Same(t, plain, mapError(plain))

	err := mapError(status.Error(codes.InvalidArgument, rpc.MsgTokenRequired))
	require.Error(t, err)
	assert.Contains(t, err.Error(), rpc.MsgTokenRequired)
	assert.NotErrorIs(t, err, ErrInvalidToken)

	err = mapError(status.Error(codes.Internal, rpc.MsgInternal))
	assert.Equal(t, codes.Internal, status.Code(errors.Unwrap(err)))
}
