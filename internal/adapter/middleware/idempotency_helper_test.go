package middleware

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })
	return mr, rdb
}

func Test_bodyHash(t *testing.T) {
	// sha256("") is well known
	const empty = "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got := bodyHash(nil); got != empty {
		t.Fatalf("bodyHash(nil) = %s", got)
	}
	if bodyHash([]byte("a")) == bodyHash([]byte("b")) {
		t.Fatal("different bodies hash the same")
	}
}

func Test_nowUTC(t *testing.T) {
	if loc := nowUTC().Location(); loc != time.UTC {
		t.Fatalf("location = %v, want UTC", loc)
	}
}

func Test_buildKey(t *testing.T) {
	got := buildKey("POST", "/debts", "abc")
	if got != "idemp:debts:post:/debts:abc" {
		t.Fatalf("buildKey = %q", got)
	}
}

func Test_validKey(t *testing.T) {
	for _, k := range []string{
		"3f9a6a1b3d544fbe8b3a6b3e8d6b2c88",
		"3F9A6A1B3D544FBE8B3A6B3E8D6B2C88",
		"0b5f6a0e-8c1d-4d2e-9f3a-1b2c3d4e5f60",
		" 0b5f6a0e-8c1d-4d2e-9f3a-1b2c3d4e5f60 ",
	} {
		if !validKey(k) {
			t.Errorf("validKey(%q) = false", k)
		}
	}
	for _, k := range []string{
		"",
		"deadbeef",
		"not-a-key",
		"0b5f6a0e-8c1d-4d2e-9f3a-1b2c3d4e5f6",  // short
		"0b5f6a0e8c1d4d2e9f3a1b2c3d4e5f60zz",   // non-hex
		"0b5f6a0e-8c1d-0d2e-9f3a-1b2c3d4e5f60", // version 0
	} {
		if validKey(k) {
			t.Errorf("validKey(%q) = true", k)
		}
	}
}

func Test_provisionalSet_LoadEntry(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/debts", "k1")

	ok, err := provisionalSet(ctx, rdb, key, idempEntry{InProgress: true, BodySHA256: "h"})
	if err != nil || !ok {
		t.Fatalf("first provisionalSet ok=%v err=%v", ok, err)
	}
	ok, err = provisionalSet(ctx, rdb, key, idempEntry{InProgress: true, BodySHA256: "other"})
	if err != nil || ok {
		t.Fatalf("second provisionalSet ok=%v err=%v, want false", ok, err)
	}
	if ttl := mr.TTL(key); ttl != provisionalLockTTL {
		t.Fatalf("lock ttl = %v, want %v", ttl, provisionalLockTTL)
	}

	e, err := loadEntry(ctx, rdb, key)
	if err != nil {
		t.Fatalf("loadEntry: %v", err)
	}
	if !e.InProgress || e.BodySHA256 != "h" {
		t.Fatalf("entry = %+v", e)
	}

	if _, err := loadEntry(ctx, rdb, "missing"); err == nil {
		t.Fatal("loadEntry(missing) want error")
	}
}

func Test_saveFinal_Load_TTL(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	ctx := context.Background()
	key := buildKey("POST", "/debts", "k2")

	body, _ := json.Marshal(map[string]string{"id": "x"})
	if err := saveFinal(ctx, rdb, key, idempEntry{Code: 201, Body: body, BodySHA256: "h"}, 5*time.Minute); err != nil {
		t.Fatalf("saveFinal: %v", err)
	}
	if ttl := mr.TTL(key); ttl != 5*time.Minute {
		t.Fatalf("ttl = %v", ttl)
	}
	e, err := loadEntry(ctx, rdb, key)
	if err != nil || e.InProgress || e.Code != 201 || string(e.Body) != string(body) {
		t.Fatalf("entry = %+v err=%v", e, err)
	}

	if err := release(ctx, rdb, key); err != nil {
		t.Fatalf("release: %v", err)
	}
	if mr.Exists(key) {
		t.Fatal("key still present after release")
	}
}
