package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestSMSLocalSender_Send(t *testing.T) {
	var got map[string]interface{}
	var auth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	s := NewSMSLocalSender("test-key", srv.URL)
	if err := s.Send(context.Background(), "sms", "911234567890", "123456"); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if auth != "test-key" {
		t.Errorf("Authorization = %q, want test-key", auth)
	}
	if got["route"] != "otp" || got["numbers"] != "911234567890" || got["variables"] != "123456" {
		t.Errorf("request body = %v", got)
	}
}

func TestSMSLocalSender_NonOKStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	s := NewSMSLocalSender("test-key", srv.URL)
	if err := s.Send(context.Background(), "sms", "911234567890", "123456"); err == nil {
		t.Fatal("Send should fail on non-2xx status")
	}
}

func TestSMSLocalSender_RejectsOtherMethods(t *testing.T) {
	s := NewSMSLocalSender("test-key", "")
	if err := s.Send(context.Background(), "email", "a@b.test", "123456"); err == nil {
		t.Fatal("Send should reject email method")
	}
}

func TestSMSLocalSender_MissingAPIKey(t *testing.T) {
	s := NewSMSLocalSender("", "")
	if err := s.Send(context.Background(), "sms", "911234567890", "123456"); err == nil {
		t.Fatal("Send should fail without an API key")
	}
}
