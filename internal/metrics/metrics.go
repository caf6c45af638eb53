// Package metrics holds the request-pipeline counters exported over OTLP.
package metrics

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Reasons recorded on pipeline rejection counters.
const (
	ReasonMissingTenant  = "missing_tenant"
	ReasonTenantMismatch = "tenant_mismatch"
	ReasonRevoked        = "revoked"
	ReasonExpired        = "expired"
	ReasonOrgInactive    = "org_inactive"
)

// Pipeline counts request-pipeline outcomes: tenant binding rejections, session
// validation rejections, MFA failures, and lockouts.
type Pipeline struct {
	bindingRejects metric.Int64Counter
	sessionRejects metric.Int64Counter
	mfaFailures    metric.Int64Counter
	lockouts       metric.Int64Counter
}

// NewPipeline registers the pipeline counters on the given meter.
func NewPipeline(meter metric.Meter) (*Pipeline, error) {
	var p Pipeline
	var err error
	if p.bindingRejects, err = meter.Int64Counter("pipeline.binding_rejects",
		metric.WithDescription("requests rejected by tenant binding")); err != nil {
		return nil, err
	}
	if p.sessionRejects, err = meter.Int64Counter("pipeline.session_rejects",
		metric.WithDescription("requests rejected by session validation")); err != nil {
		return nil, err
	}
	if p.mfaFailures, err = meter.Int64Counter("pipeline.mfa_failures",
		metric.WithDescription("failed MFA verifications")); err != nil {
		return nil, err
	}
	if p.lockouts, err = meter.Int64Counter("pipeline.lockouts",
		metric.WithDescription("account or method lockouts triggered")); err != nil {
		return nil, err
	}
	return &p, nil
}

// BindingReject counts one tenant binding rejection.
func (p *Pipeline) BindingReject(ctx context.Context, reason string) {
	if p == nil {
		return
	}
	p.bindingRejects.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// SessionReject counts one session validation rejection.
func (p *Pipeline) SessionReject(ctx context.Context, reason string) {
	if p == nil {
		return
	}
	p.sessionRejects.Add(ctx, 1, metric.WithAttributes(attribute.String("reason", reason)))
}

// MFAFailure counts one failed MFA verification.
func (p *Pipeline) MFAFailure(ctx context.Context, method string) {
	if p == nil {
		return
	}
	p.mfaFailures.Add(ctx, 1, metric.WithAttributes(attribute.String("method", method)))
}

// Lockout counts one triggered lockout. kind is "login" or "mfa".
func (p *Pipeline) Lockout(ctx context.Context, kind string) {
	if p == nil {
		return
	}
	p.lockouts.Add(ctx, 1, metric.WithAttributes(attribute.String("kind", kind)))
}
