package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// maxErrorBody caps how much of a failed reply is kept in the error.
const maxErrorBody = 1024

type verificationRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
	Token string `json:"token"`
}

// HTTPNotifier posts verification requests to an external email service at
// <baseURL>/send-verification.
type HTTPNotifier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPNotifier(baseURL string, timeout time.Duration) *HTTPNotifier {
	return &HTTPNotifier{
		endpoint: strings.TrimRight(baseURL, "/") + "/send-verification",
		client:   &http.Client{Timeout: timeout},
	}
}

func (n *HTTPNotifier) DeliverVerification(ctx context.Context, address, token string) error {
	body, err := json.Marshal(verificationRequest{
		Email: address,
		Name:  recipientName(address),
		Token: token,
	})
	if err != nil {
		return fmt.Errorf("encode verification request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build verification request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("email service: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return fmt.Errorf("email service: status %d: %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}
