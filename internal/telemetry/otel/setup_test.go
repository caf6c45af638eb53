package otel

import (
	"context"
	"testing"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

func TestNewProviders_EmptyEndpoint(t *testing.T) {
	ctx := context.Background()
	providers, err := NewProviders(ctx, "", "test-service", false)
	if err != nil {
		t.Fatalf("NewProviders empty endpoint: %v", err)
	}
	if providers.TracerProvider == nil {
		t.Error("TracerProvider should not be nil")
	}
	if providers.MeterProvider == nil {
		t.Error("MeterProvider should not be nil")
	}
	if err := providers.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown: %v", err)
	}
}

func TestResolveTarget(t *testing.T) {
	cases := []struct {
		in           string
		override     bool
		wantTarget   string
		wantInsecure bool
	}{
		{"localhost:4317", false, "localhost:4317", true},
		{"http://collector:4317", false, "collector:4317", true},
		{"https://collector:4317", false, "collector:4317", false},
		{"https://collector:4317", true, "collector:4317", true},
		{"http://collector:4317/v1/traces", false, "collector:4317", true},
	}
	for _, tc := range cases {
		target, insecure, err := resolveTarget(tc.in, tc.override)
		if err != nil {
			t.Errorf("resolveTarget(%q): %v", tc.in, err)
			continue
		}
		if target != tc.wantTarget || insecure != tc.wantInsecure {
			t.Errorf("resolveTarget(%q) = (%q, %v), want (%q, %v)",
				tc.in, target, insecure, tc.wantTarget, tc.wantInsecure)
		}
	}
}

func TestNewProviders_InvalidEndpoint(t *testing.T) {
	if _, err := NewProviders(context.Background(), "http://", "test-service", false); err == nil {
		t.Fatal("endpoint without host should fail")
	}
}

func TestSetGlobal(t *testing.T) {
	prev := otel.GetTracerProvider()
	defer otel.SetTracerProvider(prev)

	p := &Providers{TracerProvider: sdktrace.NewTracerProvider()}
	p.SetGlobal()
	if otel.GetTracerProvider() != p.TracerProvider {
		t.Error("SetGlobal should install the tracer provider")
	}
}
