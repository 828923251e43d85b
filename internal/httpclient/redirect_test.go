package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newNoRedirectClient() *http.Client {
	return &http.Client{
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func TestFetchFollowsRedirectChain(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/a", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/b", http.StatusFound)
	})
	mux.HandleFunc("/b", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/c", http.StatusFound)
	})
	mux.HandleFunc("/c", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("done"))
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newNoRedirectClient()
	result, err := Fetch(context.Background(), client, http.MethodGet, server.URL+"/a", nil, 10, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer result.Response.Body.Close()

	if result.RedirectHops != 2 {
		t.Errorf("RedirectHops = %d, want 2", result.RedirectHops)
	}
	if result.Response.StatusCode != http.StatusOK {
		t.Errorf("StatusCode = %d, want 200", result.Response.StatusCode)
	}
	if result.FinalURL.Path != "/c" {
		t.Errorf("FinalURL.Path = %q, want /c", result.FinalURL.Path)
	}
}

func TestFetchRedirectCycleIsTooManyRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/loop1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop2", http.StatusFound)
	})
	mux.HandleFunc("/loop2", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/loop1", http.StatusFound)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newNoRedirectClient()
	_, err := Fetch(context.Background(), client, http.MethodGet, server.URL+"/loop1", nil, 10, nil)
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("err = %v, want ErrTooManyRedirects", err)
	}
}

func TestFetchRespectsMaxRedirectsLimit(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/r1", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/r2", http.StatusFound)
	})
	mux.HandleFunc("/r2", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/r3", http.StatusFound)
	})
	mux.HandleFunc("/r3", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := newNoRedirectClient()
	_, err := Fetch(context.Background(), client, http.MethodGet, server.URL+"/r1", nil, 1, nil)
	if !errors.Is(err, ErrTooManyRedirects) {
		t.Errorf("err = %v, want ErrTooManyRedirects when chain exceeds maxRedirects=1", err)
	}
}

func TestFetchSendsHeadersAndAppliesRewrite(t *testing.T) {
	var gotHeader, gotRewritten string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Test")
		gotRewritten = r.Header.Get("X-Rewrite")
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := newNoRedirectClient()
	result, err := Fetch(context.Background(), client, http.MethodGet, server.URL, map[string]string{"X-Test": "hello"}, 10, func(req *http.Request) {
		req.Header.Set("X-Rewrite", "applied")
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	result.Response.Body.Close()

	if gotHeader != "hello" {
		t.Errorf("X-Test header = %q, want hello", gotHeader)
	}
	if gotRewritten != "applied" {
		t.Errorf("X-Rewrite header = %q, want applied", gotRewritten)
	}
}

func TestFetchNoRedirectReturnsImmediately(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := newNoRedirectClient()
	result, err := Fetch(context.Background(), client, http.MethodGet, server.URL, nil, 10, nil)
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	defer result.Response.Body.Close()

	if result.RedirectHops != 0 {
		t.Errorf("RedirectHops = %d, want 0", result.RedirectHops)
	}
	if result.Response.StatusCode != http.StatusNotFound {
		t.Errorf("StatusCode = %d, want 404", result.Response.StatusCode)
	}
}
