package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func (s *GRPCServer) Signup(ctx context.Context, req *rpc.SignupRequest) (*rpc.SignupResponse, error) {

	if req.Email == "" || req.Password == "" {
		return nil, status.Error(codes.InvalidArgument, "email and password are required")
	}

	account, err := s.accounts.Signup(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			return nil, status.Error(codes.AlreadyExists, common.ErrEmailTaken.Error())
		case errors.Is(err, common.ErrDelivery):
			var id string
			if account != nil {
				id = account.ID
			}
			return nil, rpc.DeliveryFailedError(id)
		}
		s.logger.Error(ctx, "signup failed", "error", err)
		return nil, status.Error(codes.Internal, rpc.MsgSignupFailed)
	}

	return &rpc.SignupResponse{
		ID:      account.ID,
		Email:   account.Email,
		Message: rpc.MsgCheckEmail,
		Success: true,
	}, nil
}

func (s *GRPCServer) Login(ctx context.Context, req *rpc.LoginRequest) (*rpc.LoginResponse, error) {

	account, err := s.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err)
		return nil, status.Error(codes.Internal, rpc.MsgInternal)
	}
	if account == nil {
		return nil, status.Error(codes.Unauthenticated, rpc.MsgInvalidCredentials)
	}

	return s.loginResponse(account, s.accounts.LoginMessage(account)), nil
}

func (s *GRPCServer) Verify(ctx context.Context, req *rpc.VerifyRequest) (*rpc.VerifyResponse, error) {

	if req.Token == "" {
		return nil, status.Error(codes.InvalidArgument, rpc.MsgTokenRequired)
	}

	outcome, err := s.accounts.Verify(ctx, req.Token)
	if err != nil {
		s.logger.Error(ctx, "verify failed", "error", err)
		return nil, status.Error(codes.Internal, rpc.MsgInternal)
	}

	switch outcome {
	case services.Verified:
		return &rpc.VerifyResponse{Outcome: outcome.String(), Message: rpc.MsgEmailVerified}, nil
	case services.AlreadyValidated:
		return &rpc.VerifyResponse{Outcome: outcome.String(), Message: rpc.MsgAlreadyVerified}, nil
	}
	return nil, status.Error(codes.InvalidArgument, rpc.MsgInvalidToken)
}

func (s *GRPCServer) ResendVerification(ctx context.Context, req *rpc.ResendVerificationRequest) (*rpc.ResendVerificationResponse, error) {

	if req.Email == "" {
		return nil, status.Error(codes.InvalidArgument, rpc.MsgEmailRequired)
	}

	ok, err := s.accounts.ResendVerification(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrDelivery) {
			return nil, rpc.DeliveryFailedError("")
		}
		s.logger.Error(ctx, "resend failed", "error", err)
		return nil, status.Error(codes.Internal, rpc.MsgInternal)
	}
	if !ok {
		return nil, status.Error(codes.FailedPrecondition, rpc.MsgCannotResend)
	}

	return &rpc.ResendVerificationResponse{Message: rpc.MsgVerificationSent}, nil
}

func (s *GRPCServer) Validate(ctx context.Context, req *rpc.ValidateRequest) (*rpc.LoginResponse, error) {

	if req.UserID == "" {
		return nil, status.Error(codes.InvalidArgument, rpc.MsgUserIDRequired)
	}

	account, err := s.accounts.FindByID(ctx, req.UserID)
	if err != nil {
		s.logger.Error(ctx, "validate failed", "error", err)
		return nil, status.Error(codes.Internal, rpc.MsgInternal)
	}
	if account == nil {
		return nil, status.Error(codes.NotFound, rpc.MsgUserNotFound)
	}

	return s.loginResponse(account, rpc.MsgUserValidated), nil
}

func (s *GRPCServer) Ping(ctx context.Context, req *rpc.PingRequest) (*rpc.PingResponse, error) {
	return &rpc.PingResponse{Status: "OK"}, nil
}

func (s *GRPCServer) loginResponse(a *models.Account, msg string) *rpc.LoginResponse {
	return &rpc.LoginResponse{
		ID:             a.ID,
		Email:          a.Email,
		EmailValidated: a.EmailValidated,
		Message:        msg,
		LoginSuccess:   true,
	}
}
