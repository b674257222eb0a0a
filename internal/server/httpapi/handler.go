package httpapi

import (
	"errors"
	"net/http"

	"github.com/dmitrijs2005/accountkeeper/internal/common"
	"github.com/dmitrijs2005/accountkeeper/internal/rpc"
	"github.com/dmitrijs2005/accountkeeper/internal/server/models"
	"github.com/dmitrijs2005/accountkeeper/internal/server/services"
	"github.com/labstack/echo/v4"
)

func (s *HTTPServer) health(c echo.Context) error {
	return c.JSON(http.StatusOK, rpc.PingResponse{Status: "OK"})
}

func (s *HTTPServer) signup(c echo.Context) error {
	var req rpc.SignupRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Email == "" || req.Password == "" {
		return c.JSON(http.StatusBadRequest, rpc.SignupResponse{
			Email: req.Email, Message: "email and password are required",
		})
	}

	ctx := c.Request().Context()
	account, err := s.accounts.Signup(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrEmailTaken):
			return c.JSON(http.StatusBadRequest, rpc.SignupResponse{
				Email: req.Email, Message: common.ErrEmailTaken.Error(),
			})
		case errors.Is(err, common.ErrDelivery):
			// the account exists; only the email is missing
			resp := rpc.SignupResponse{Email: req.Email, Message: rpc.MsgDeliveryFailed}
			if account != nil {
				resp.ID = account.ID
			}
			return c.JSON(http.StatusBadGateway, resp)
		}
		s.logger.Error(ctx, "signup failed", "error", err)
		return c.JSON(http.StatusInternalServerError, rpc.SignupResponse{
			Email: req.Email, Message: rpc.MsgSignupFailed,
		})
	}

	return c.JSON(http.StatusOK, rpc.SignupResponse{
		ID:      account.ID,
		Email:   account.Email,
		Message: rpc.MsgCheckEmail,
		Success: true,
	})
}

func (s *HTTPServer) login(c echo.Context) error {
	var req rpc.LoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	ctx := c.Request().Context()
	account, err := s.accounts.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		s.logger.Error(ctx, "login failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": rpc.MsgInternal})
	}
	if account == nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": rpc.MsgInvalidCredentials})
	}

	return c.JSON(http.StatusOK, loginResponse(account, s.accounts.LoginMessage(account)))
}

func (s *HTTPServer) verify(c echo.Context) error {
	token := c.QueryParam("token")
	if token == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rpc.MsgTokenRequired})
	}

	ctx := c.Request().Context()
	outcome, err := s.accounts.Verify(ctx, token)
	if err != nil {
		s.logger.Error(ctx, "verify failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": rpc.MsgInternal})
	}

	switch outcome {
	case services.Verified:
		return c.JSON(http.StatusOK, rpc.VerifyResponse{Outcome: outcome.String(), Message: rpc.MsgEmailVerified})
	case services.AlreadyValidated:
		return c.JSON(http.StatusOK, rpc.VerifyResponse{Outcome: outcome.String(), Message: rpc.MsgAlreadyVerified})
	}
	return c.JSON(http.StatusBadRequest, echo.Map{"error": rpc.MsgInvalidToken})
}

func (s *HTTPServer) resendVerification(c echo.Context) error {
	email := c.QueryParam("email")
	if email == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rpc.MsgEmailRequired})
	}

	ctx := c.Request().Context()
	ok, err := s.accounts.ResendVerification(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrDelivery) {
			return c.JSON(http.StatusBadGateway, echo.Map{"error": rpc.MsgDeliveryFailed})
		}
		s.logger.Error(ctx, "resend failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": rpc.MsgInternal})
	}
	if !ok {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rpc.MsgCannotResend})
	}

	return c.JSON(http.StatusOK, rpc.ResendVerificationResponse{Message: rpc.MsgVerificationSent})
}

func (s *HTTPServer) validate(c echo.Context) error {
	id := c.Param("userId")
	if id == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": rpc.MsgUserIDRequired})
	}

	ctx := c.Request().Context()
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		s.logger.Error(ctx, "validate failed", "error", err)
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": rpc.MsgInternal})
	}
	if account == nil {
		return c.JSON(http.StatusNotFound, echo.Map{"error": rpc.MsgUserNotFound})
	}

	return c.JSON(http.StatusOK, loginResponse(account, rpc.MsgUserValidated))
}

func loginResponse(a *models.Account, msg string) rpc.LoginResponse {
	return rpc.LoginResponse{
		ID:             a.ID,
		Email:          a.Email,
		EmailValidated: a.EmailValidated,
		Message:        msg,
		LoginSuccess:   true,
	}
}
