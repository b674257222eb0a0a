package rpc

// User-facing messages shared by the gRPC and REST transports.
const (
	MsgCheckEmail         = "Please check your email to validate your account"
	MsgSignupFailed       = "An error occurred during signup"
	MsgInvalidCredentials = "Invalid credentials"
	MsgTokenRequired      = "Verification token is required"
	MsgEmailVerified      = "Email verified successfully! You can now access the portal."
	MsgAlreadyVerified    = "Email already verified. You can access the portal."
	MsgInvalidToken       = "Invalid or expired verification token"
	MsgEmailRequired      = "Email is required"
	MsgVerificationSent   = "Verification email sent successfully"
	MsgCannotResend       = "User not found or already verified"
	MsgUserIDRequired     = "User ID is required"
	MsgUserNotFound       = "User not found"
	MsgUserValidated      = "User validated"
	MsgDeliveryFailed     = "Verification email could not be sent"
	MsgInternal           = "internal error"
)

// Field numbers below must match accounts.proto.

type SignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignupResponse struct {
	ID      string `json:"id,omitempty"`
	Email   string `json:"email"`
	Message string `json:"message"`
	Success bool   `json:"success"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse also answers Validate.
type LoginResponse struct {
	ID             string `json:"id"`
	Email          string `json:"email"`
	EmailValidated bool   `json:"emailValidated"`
	Message        string `json:"message"`
	LoginSuccess   bool   `json:"loginSuccess"`
}

type VerifyRequest struct {
	Token string `json:"token"`
}

type VerifyResponse struct {
	// Outcome is "verified" or "already_validated".
	Outcome string `json:"outcome"`
	Message string `json:"message"`
}

type ResendVerificationRequest struct {
	Email string `json:"email"`
}

type ResendVerificationResponse struct {
	Message string `json:"message"`
}

type ValidateRequest struct {
	UserID string `json:"userId"`
}

type PingRequest struct{}

type PingResponse struct {
	Status string `json:"status"`
}

func (m *SignupRequest) fields() []field {
	return []field{{num: 1, str: &m.Email}, {num: 2, str: &m.Password}}
}

func (m *SignupResponse) fields() []field {
	return []field{{num: 1, str: &m.ID}, {num: 2, str: &m.Email}, {num: 3, str: &m.Message}, {num: 4, flag: &m.Success}}
}

func (m *LoginRequest) fields() []field {
	return []field{{num: 1, str: &m.Email}, {num: 2, str: &m.Password}}
}

func (m *LoginResponse) fields() []field {
	return []field{
		{num: 1, str: &m.ID},
		{num: 2, str: &m.Email},
		{num: 3, flag: &m.EmailValidated},
		{num: 4, str: &m.Message},
		{num: 5, flag: &m.LoginSuccess},
	}
}

func (m *VerifyRequest) fields() []field { return []field{{num: 1, str: &m.Token}} }

func (m *VerifyResponse) fields() []field {
	return []field{{num: 1, str: &m.Outcome}, {num: 2, str: &m.Message}}
}

func (m *ResendVerificationRequest) fields() []field { return []field{{num: 1, str: &m.Email}} }

func (m *ResendVerificationResponse) fields() []field { return []field{{num: 1, str: &m.Message}} }

func (m *ValidateRequest) fields() []field { return []field{{num: 1, str: &m.UserID}} }

func (m *PingRequest) fields() []field { return nil }

func (m *PingResponse) fields() []field { return []field{{num: 1, str: &m.Status}} }
