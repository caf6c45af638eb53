package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultTimeout = 15 * time.Second

// SMSLocalSender delivers sms codes via the SMS Local bulk API
// (https://www.smslocal.com/dev/bulkV2, route=otp).
type SMSLocalSender struct {
	APIKey     string
	BaseURL    string
	HTTPClient *http.Client
}

// NewSMSLocalSender returns a sender using the given API key and optional base URL.
func NewSMSLocalSender(apiKey, baseURL string) *SMSLocalSender {
	if baseURL == "" {
		baseURL = "https://www.smslocal.com/dev/bulkV2"
	}
	return &SMSLocalSender{
		APIKey:     apiKey,
		BaseURL:    baseURL,
		HTTPClient: &http.Client{Timeout: defaultTimeout},
	}
}

// Send posts the code to SMS Local. target is the phone number, digits only
// with country code. Does not log the code.
func (s *SMSLocalSender) Send(ctx context.Context, method, target, code string) error {
	if method != "sms" {
		return fmt.Errorf("notify: smslocal cannot deliver method %q", method)
	}
	if s.APIKey == "" {
		return fmt.Errorf("notify: SMS Local API key not configured")
	}
	body := map[string]interface{}{
		"route":     "otp",
		"numbers":   target,
		"variables": code,
	}
	raw, err := json.Marshal(body)
	if err != nil {
		return err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.BaseURL, bytes.NewReader(raw))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", s.APIKey)
	resp, err := s.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("notify: SMS Local returned %d: %s", resp.StatusCode, string(b))
	}
	return nil
}
