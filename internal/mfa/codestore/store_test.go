package codestore

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestMemoryStore_PutGetDelete(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()

	if err := s.Put(ctx, "u1", "sms", "hash1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "u1", "sms")
	if err != nil || !ok || got != "hash1" {
		t.Fatalf("Get = (%q, %v, %v), want (hash1, true, nil)", got, ok, err)
	}

	if err := s.Delete(ctx, "u1", "sms"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "u1", "sms"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestMemoryStore_Expiry(t *testing.T) {
	now := time.Now().UTC()
	s := NewMemoryStore(func() time.Time { return now })
	ctx := context.Background()

	if err := s.Put(ctx, "u1", "email", "hash1", now.Add(5*time.Minute)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	now = now.Add(6 * time.Minute)
	if _, ok, _ := s.Get(ctx, "u1", "email"); ok {
		t.Error("Get should miss after expiry")
	}
}

func TestMemoryStore_PutReplacesPending(t *testing.T) {
	s := NewMemoryStore(nil)
	ctx := context.Background()
	exp := time.Now().Add(time.Minute)

	_ = s.Put(ctx, "u1", "sms", "old", exp)
	_ = s.Put(ctx, "u1", "sms", "new", exp)
	got, ok, _ := s.Get(ctx, "u1", "sms")
	if !ok || got != "new" {
		t.Errorf("Get = (%q, %v), want (new, true)", got, ok)
	}
}

func TestRedisStore_PutGetDelete(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	ctx := context.Background()

	if err := s.Put(ctx, "u1", "sms", "hash1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	got, ok, err := s.Get(ctx, "u1", "sms")
	if err != nil || !ok || got != "hash1" {
		t.Fatalf("Get = (%q, %v, %v), want (hash1, true, nil)", got, ok, err)
	}

	if err := s.Delete(ctx, "u1", "sms"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, ok, _ := s.Get(ctx, "u1", "sms"); ok {
		t.Error("Get after Delete should miss")
	}
}

func TestRedisStore_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStore(client)
	ctx := context.Background()

	if err := s.Put(ctx, "u1", "email", "hash1", time.Now().Add(time.Minute)); err != nil {
		t.Fatalf("Put: %v", err)
	}
	mr.FastForward(2 * time.Minute)
	if _, ok, _ := s.Get(ctx, "u1", "email"); ok {
		t.Error("Get should miss after TTL elapses")
	}
}
