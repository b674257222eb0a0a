package rpc

import (
	"context"

	"google.golang.org/grpc"
)

const ServiceName = "accounts.v1.AccountService"

// Full method names.
const (
	MethodSignup             = "/" + ServiceName + "/Signup"
	MethodLogin              = "/" + ServiceName + "/Login"
	MethodVerify             = "/" + ServiceName + "/Verify"
	MethodResendVerification = "/" + ServiceName + "/ResendVerification"
	MethodValidate           = "/" + ServiceName + "/Validate"
	MethodPing               = "/" + ServiceName + "/Ping"
)

// AccountServiceServer is implemented by the server transport.
type AccountServiceServer interface {
	Signup(context.Context, *SignupRequest) (*SignupResponse, error)
	Login(context.Context, *LoginRequest) (*LoginResponse, error)
	Verify(context.Context, *VerifyRequest) (*VerifyResponse, error)
	ResendVerification(context.Context, *ResendVerificationRequest) (*ResendVerificationResponse, error)
	Validate(context.Context, *ValidateRequest) (*LoginResponse, error)
	Ping(context.Context, *PingRequest) (*PingResponse, error)
}

// RegisterAccountServiceServer registers srv with s.
func RegisterAccountServiceServer(s grpc.ServiceRegistrar, srv AccountServiceServer) {
	s.RegisterService(&AccountServiceDesc, srv)
}

// unary adapts a typed method to grpc.MethodHandler, honouring interceptors.
func unary[Req, Resp any](fullMethod string, call func(AccountServiceServer, context.Context, *Req) (*Resp, error)) grpc.MethodHandler {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(Req)
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(AccountServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(AccountServiceServer), ctx, req.(*Req))
		}
		return interceptor(ctx, in, info, handler)
	}
}

var AccountServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*AccountServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Signup", Handler: unary(MethodSignup, AccountServiceServer.Signup)},
		{MethodName: "Login", Handler: unary(MethodLogin, AccountServiceServer.Login)},
		{MethodName: "Verify", Handler: unary(MethodVerify, AccountServiceServer.Verify)},
		{MethodName: "ResendVerification", Handler: unary(MethodResendVerification, AccountServiceServer.ResendVerification)},
		{MethodName: "Validate", Handler: unary(MethodValidate, AccountServiceServer.Validate)},
		{MethodName: "Ping", Handler: unary(MethodPing, AccountServiceServer.Ping)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "accounts.proto",
}

// AccountServiceClient is the client side of AccountService.
type AccountServiceClient interface {
	Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerifyResponse, error)
	ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*ResendVerificationResponse, error)
	Validate(ctx context.Context, in *ValidateRequest, opts ...grpc.CallOption) (*LoginResponse, error)
	Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error)
}

type accountServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewAccountServiceClient returns a typed client over cc.
func NewAccountServiceClient(cc grpc.ClientConnInterface) AccountServiceClient {
	return &accountServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in any, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *accountServiceClient) Signup(ctx context.Context, in *SignupRequest, opts ...grpc.CallOption) (*SignupResponse, error) {
	return invoke[SignupResponse](ctx, c.cc, MethodSignup, in, opts)
}

func (c *accountServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *accountServiceClient) Verify(ctx context.Context, in *VerifyRequest, opts ...grpc.CallOption) (*VerifyResponse, error) {
	return invoke[VerifyResponse](ctx, c.cc, MethodVerify, in, opts)
}

func (c *accountServiceClient) ResendVerification(ctx context.Context, in *ResendVerificationRequest, opts ...grpc.CallOption) (*ResendVerificationResponse, error) {
	return invoke[ResendVerificationResponse](ctx, c.cc, MethodResendVerification, in, opts)
}

func (c *accountServiceClient) Validate(ctx context.Context, in *ValidateRequest, opts ...grpc.CallOption) (*LoginResponse, error) {
	return invoke[LoginResponse](ctx, c.cc, MethodValidate, in, opts)
}

func (c *accountServiceClient) Ping(ctx context.Context, in *PingRequest, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}
