package middleware

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

const testKey = "0b5f6a0e-8c1d-4d2e-9f3a-1b2c3d4e5f60"

// helper: new Echo with the middleware and a simple route
func setupEcho(rdb *redis.Client, ttl time.Duration, handler echo.HandlerFunc) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.Use(Idempotency(rdb, ttl))
	e.POST("/debts", handler)
	e.GET("/debts", handler) // for non-mutating bypass test
	return e
}

func mkJSONBody(t *testing.T, v any) io.Reader {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return bytes.NewReader(b)
}

func doReq(t *testing.T, e *echo.Echo, method, path string, body io.Reader, key string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, body)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if key != "" {
		req.Header.Set(HeaderIdempotencyKey, key)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

// countingHandler creates a "debt" per call so replays are observable.
func countingHandler(n *atomic.Int32) echo.HandlerFunc {
	return func(c echo.Context) error {
		v := n.Add(1)
		return c.JSON(http.StatusCreated, map[string]any{"created": v})
	}
}

func Test_BypassOnGET(t *testing.T) {
	_, rdb := newMiniRedis(t)
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "get ok"})
	})
	rec := doReq(t, e, http.MethodGet, "/debts", nil, testKey)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func Test_NoHeader_PassesThroughEveryTime(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))

	for i := 0; i < 2; i++ {
		rec := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, map[string]string{"title": "a"}), "")
		if rec.Code != http.StatusCreated {
			t.Fatalf("want 201, got %d", rec.Code)
		}
	}
	if n.Load() != 2 {
		t.Fatalf("handler calls = %d, want 2", n.Load())
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("no keys expected, got %v", mr.Keys())
	}
}

func Test_InvalidKey(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))

	rec := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, map[string]int{"x": 1}), "NOT-VALID")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("want 400, got %d", rec.Code)
	}
	if n.Load() != 0 {
		t.Fatal("handler must not run")
	}
}

func Test_HappyPath_Then_Replay(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))
	body := map[string]string{"title": "Phone"}

	first := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, body), testKey)
	if first.Code != http.StatusCreated {
		t.Fatalf("first: want 201, got %d", first.Code)
	}
	second := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, body), testKey)
	if second.Code != http.StatusCreated {
		t.Fatalf("replay: want 201, got %d", second.Code)
	}
	if first.Body.String() != second.Body.String() {
		t.Fatalf("replay body differs: %q vs %q", first.Body.String(), second.Body.String())
	}
	if n.Load() != 1 {
		t.Fatalf("handler calls = %d, want 1", n.Load())
	}
}

func Test_Conflict_When_InProgress(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))
	raw, _ := json.Marshal(map[string]string{"title": "Phone"})

	// simulate a concurrent request holding the lock
	key := buildKey(http.MethodPost, "/debts", testKey)
	ok, err := provisionalSet(context.Background(), rdb, key, idempEntry{InProgress: true, BodySHA256: bodyHash(raw)})
	if err != nil || !ok {
		t.Fatalf("seed lock: ok=%v err=%v", ok, err)
	}

	rec := doReq(t, e, http.MethodPost, "/debts", bytes.NewReader(raw), testKey)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}
	if n.Load() != 0 {
		t.Fatal("handler must not run while in progress")
	}
}

func Test_Conflict_When_SameKey_DifferentBody(t *testing.T) {
	_, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))

	_ = doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, map[string]string{"title": "a"}), testKey)
	rec := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, map[string]string{"title": "b"}), testKey)
	if rec.Code != http.StatusConflict {
		t.Fatalf("want 409, got %d", rec.Code)
	}
	var m map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &m)
	if m["error"] != "Idempotency-Key reused with different body" {
		t.Fatalf("error = %q", m["error"])
	}
}

func Test_ServerError_ReleasesKey(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	var calls atomic.Int32
	e := setupEcho(rdb, 30*time.Second, func(c echo.Context) error {
		if calls.Add(1) == 1 {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "boom"})
		}
		return c.JSON(http.StatusCreated, map[string]string{"ok": "yes"})
	})
	body := map[string]string{"title": "a"}

	rec := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, body), testKey)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("first: want 500, got %d", rec.Code)
	}
	if len(mr.Keys()) != 0 {
		t.Fatalf("key kept after 500: %v", mr.Keys())
	}
	rec = doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, body), testKey)
	if rec.Code != http.StatusCreated {
		t.Fatalf("retry: want 201, got %d", rec.Code)
	}
}

func Test_StoreUnavailable_Returns503(t *testing.T) {
	mr, rdb := newMiniRedis(t)
	var n atomic.Int32
	e := setupEcho(rdb, 30*time.Second, countingHandler(&n))
	mr.Close()

	rec := doReq(t, e, http.MethodPost, "/debts", mkJSONBody(t, map[string]string{"title": "a"}), testKey)
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("want 503, got %d", rec.Code)
	}
	if n.Load() != 0 {
		t.Fatal("handler must not run without the idempotency store")
	}
}
