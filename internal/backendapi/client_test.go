package backendapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

func TestClientSendsBearerToken(t *testing.T) {
	var gotAuth string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "token-123", "")
	if _, err := client.Incomes(context.Background()); err != nil {
		t.Fatalf("incomes: %v", err)
	}
	if gotAuth != "Bearer token-123" {
		t.Fatalf("authorization = %q", gotAuth)
	}
}

func TestClientDecodesTypedResponses(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/incomes":
			w.Write([]byte(`[{"id":1,"source":"Salary","amount":3000,"date":"2025-03-01"}]`))
		case "/debts/stats":
			w.Write([]byte(`{"totalBorrowed":500,"totalLent":200,"netDebt":-300,"activeCount":2}`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t", "")
	ctx := context.Background()

	incomes, err := client.Incomes(ctx)
	if err != nil {
		t.Fatalf("incomes: %v", err)
	}
	if len(incomes) != 1 || incomes[0].Source != "Salary" || incomes[0].Amount != 3000 {
		t.Fatalf("incomes = %+v", incomes)
	}
	if incomes[0].Date.Year() != 2025 {
		t.Fatalf("date = %v", incomes[0].Date)
	}

	stats, err := client.DebtStats(ctx)
	if err != nil {
		t.Fatalf("debt stats: %v", err)
	}
	if stats.NetDebt != -300 || stats.ActiveCount != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestClientRefreshesTokenOn401(t *testing.T) {
	var refreshes atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/auth/refreshtoken":
			refreshes.Add(1)
			var body struct {
				RefreshToken string `json:"refreshToken"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			if body.RefreshToken != "refresh-1" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			json.NewEncoder(w).Encode(map[string]string{"accessToken": "fresh"})
		case "/incomes":
			if r.Header.Get("Authorization") != "Bearer fresh" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}
			w.Write([]byte(`[]`))
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "stale", "refresh-1")
	if _, err := client.Incomes(context.Background()); err != nil {
		t.Fatalf("incomes after refresh: %v", err)
	}
	if refreshes.Load() != 1 {
		t.Fatalf("refreshed %d times, want 1", refreshes.Load())
	}

	// The renewed token sticks for later calls.
	if _, err := client.Incomes(context.Background()); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if refreshes.Load() != 1 {
		t.Fatalf("second call refreshed again, total %d", refreshes.Load())
	}
}

func TestClientSessionExpired(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	// No refresh token: first 401 is terminal.
	client := NewClient(srv.URL, "stale", "")
	_, err := client.Incomes(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}

	// Refresh endpoint also rejects: still terminal.
	client = NewClient(srv.URL, "stale", "also-stale")
	_, err = client.Incomes(context.Background())
	if !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("err = %v, want ErrSessionExpired", err)
	}
}

func TestClientAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"message":"database down"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t", "")
	_, err := client.Debts(context.Background())

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("err = %v, want *APIError", err)
	}
	if apiErr.Status != http.StatusInternalServerError || apiErr.Path != "/debts" {
		t.Fatalf("apiErr = %+v", apiErr)
	}
}

func TestMarkNudgeRead(t *testing.T) {
	var gotMethod, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod, gotPath = r.Method, r.URL.Path
		w.WriteHeader(http.StatusNoContent)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, "t", "")
	if err := client.MarkNudgeRead(context.Background(), 42); err != nil {
		t.Fatalf("mark read: %v", err)
	}
	if gotMethod != http.MethodPut || gotPath != "/nudges/42/read" {
		t.Fatalf("request = %s %s", gotMethod, gotPath)
	}
}
