package tenant

import (
	"context"
	"sync"
	"testing"
)

func TestOrgID_RequestOnly(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", OrgID: "org1"})
	if got := OrgID(ctx); got != "org1" {
		t.Errorf("OrgID = %q, want org1", got)
	}
	if got := UserID(ctx); got != "u1" {
		t.Errorf("UserID = %q, want u1", got)
	}
}

func TestOrgID_Empty(t *testing.T) {
	if got := OrgID(context.Background()); got != "" {
		t.Errorf("OrgID on bare context = %q, want empty", got)
	}
}

func TestBackgroundPrecedence(t *testing.T) {
	ctx := WithIdentity(context.Background(), Identity{UserID: "u1", OrgID: "orgB", UserName: "Ada"})
	ctx = WithBackgroundContext(ctx, "orgA", "job-user", "")
	if got := OrgID(ctx); got != "orgA" {
		t.Errorf("OrgID = %q, want background orgA", got)
	}
	if got := UserID(ctx); got != "job-user" {
		t.Errorf("UserID = %q, want job-user", got)
	}
	// The "system" placeholder must not mask a real display name.
	if got := UserName(ctx); got != "Ada" {
		t.Errorf("UserName = %q, want Ada", got)
	}
}

func TestBackgroundUserNameNonPlaceholder(t *testing.T) {
	ctx := WithBackgroundContext(context.Background(), "orgA", "u9", "Importer")
	if got := UserName(ctx); got != "Importer" {
		t.Errorf("UserName = %q, want Importer", got)
	}
}

func TestIsBackground(t *testing.T) {
	if IsBackground(context.Background()) {
		t.Error("bare context should not be background")
	}
	if IsBackground(WithBackgroundContext(context.Background(), "", "", "")) {
		t.Error("background context with empty org id should not count")
	}
	if !IsBackground(WithBackgroundContext(context.Background(), "orgA", "", "")) {
		t.Error("background context with org id should count")
	}
}

// Concurrent background units of work and an HTTP request must not observe each
// other's tenant.
func TestNoCrossContamination(t *testing.T) {
	reqCtx := WithIdentity(context.Background(), Identity{UserID: "u1", OrgID: "B"})

	var wg sync.WaitGroup
	results := make([]string, 3)
	wg.Add(3)
	go func() {
		defer wg.Done()
		ctx := WithBackgroundContext(context.Background(), "A", "", "")
		results[0] = OrgID(ctx)
	}()
	go func() {
		defer wg.Done()
		ctx := WithBackgroundContext(context.Background(), "C", "", "")
		results[1] = OrgID(ctx)
	}()
	go func() {
		defer wg.Done()
		results[2] = OrgID(reqCtx)
	}()
	wg.Wait()

	if results[0] != "A" || results[1] != "C" || results[2] != "B" {
		t.Errorf("cross-contamination: got %v, want [A C B]", results)
	}
}
