package imagesearch

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func TestNewClient_ReturnsNonNil(t *testing.T) {
	var buf bytes.Buffer
	logger := newTestLogger(&buf)

	c := NewClient(http.DefaultClient, "test-key", logger, nil)
	if c == nil {
		t.Fatal("NewClient は nil を返してはならない")
	}
}

// TestClient_Search_ReturnsRawJSON は検索成功時に生JSONレスポンスが
// そのまま返ることを検証する。
func TestClient_Search_ReturnsRawJSON(t *testing.T) {
	raw := `{"urls":{"regular":"https://images.unsplash.com/photo-1"},"user":{"name":"Jane Doe"}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			t.Errorf("HTTPメソッド = %s, want GET", r.Method)
		}
		if got := r.URL.Query().Get("query"); got != "Paris" {
			t.Errorf("query = %q, want %q", got, "Paris")
		}
		if got := r.Header.Get("Accept-Version"); got != "v1" {
			t.Errorf("Accept-Version = %q, want %q", got, "v1")
		}
		if got := r.Header.Get("Authorization"); got != "Client-ID test-key" {
			t.Errorf("Authorization = %q, want %q", got, "Client-ID test-key")
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(raw))
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), "test-key", newTestLogger(&buf), nil)
	c.endpoint = server.URL

	data, err := c.Search(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Search がエラーを返した: %v", err)
	}
	if string(data) != raw {
		t.Errorf("data = %s, want %s", data, raw)
	}
}

// TestClient_Search_DisabledWithoutAccessKey はアクセスキー未設定時に
// リクエストを送らずnilデータを返すことを検証する。
func TestClient_Search_DisabledWithoutAccessKey(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), "", newTestLogger(&buf), nil)
	c.endpoint = server.URL

	data, err := c.Search(context.Background(), "Paris")
	if err != nil {
		t.Fatalf("Search がエラーを返した: %v", err)
	}
	if data != nil {
		t.Errorf("data = %s, want nil", data)
	}
	if called {
		t.Error("アクセスキー未設定時はHTTPリクエストを送ってはならない")
	}
}

// TestClient_Search_ErrorStatus はAPIがエラーステータスを返した場合に
// エラーになることを検証する。
func TestClient_Search_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), "test-key", newTestLogger(&buf), nil)
	c.endpoint = server.URL

	if _, err := c.Search(context.Background(), "Paris"); err == nil {
		t.Fatal("エラーステータスに対してエラーを返すべき")
	}
}

// TestClient_Search_InvalidJSON は不正なJSONレスポンスがエラーになることを検証する。
func TestClient_Search_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	var buf bytes.Buffer
	c := NewClient(server.Client(), "test-key", newTestLogger(&buf), nil)
	c.endpoint = server.URL

	if _, err := c.Search(context.Background(), "Paris"); err == nil {
		t.Fatal("不正なJSONに対してエラーを返すべき")
	}
}

// TestNewSafeClient_ReturnsClient はsafeurlラップ済みクライアントが生成されることを検証する。
func TestNewSafeClient_ReturnsClient(t *testing.T) {
	c := NewSafeClient(5 * time.Second)
	if c == nil {
		t.Fatal("expected non-nil client")
	}
}
