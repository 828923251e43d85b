package checker

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/linkcheck/internal/models"
	"github.com/ternarybob/linkcheck/internal/services/governor"
	"github.com/ternarybob/linkcheck/internal/services/quirks"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	return &Client{
		http:     &http.Client{CheckRedirect: func(req *http.Request, via []*http.Request) error { return http.ErrUseLastResponse }},
		governor: governor.New(10, 10),
		retry:    DefaultRetryPolicy(),
		cfg:      cfg,
		logger:   arbor.NewLogger(),
	}
}

func TestShouldUpgradeToGet(t *testing.T) {
	tests := []struct {
		code int
		want bool
	}{
		{http.StatusMethodNotAllowed, true},
		{http.StatusForbidden, true},
		{http.StatusNotFound, true},
		{http.StatusOK, false},
		{http.StatusInternalServerError, false},
	}
	for _, tt := range tests {
		if got := shouldUpgradeToGet(tt.code); got != tt.want {
			t.Errorf("shouldUpgradeToGet(%d) = %v, want %v", tt.code, got, tt.want)
		}
	}
}

func TestBasicAuthHeader(t *testing.T) {
	got := basicAuthHeader("alice", "secret")
	if got == "" || got[:6] != "Basic " {
		t.Errorf("basicAuthHeader() = %q, want 'Basic ' prefix", got)
	}
}

func TestMaxRedirectsDefaultsWhenUnset(t *testing.T) {
	c := newTestClient(t, Config{})
	if got := c.maxRedirects(); got != 10 {
		t.Errorf("maxRedirects() = %d, want 10 default", got)
	}
}

func TestMaxRedirectsHonoursConfig(t *testing.T) {
	c := newTestClient(t, Config{MaxRedirects: 3})
	if got := c.maxRedirects(); got != 3 {
		t.Errorf("maxRedirects() = %d, want 3", got)
	}
}

func TestBuildHeadersIncludesUserAgentAndCustom(t *testing.T) {
	c := newTestClient(t, Config{UserAgent: "my-agent/1.0", Headers: map[string]string{"X-Custom": "yes"}})
	req := newRequest(t, "https://example.com/")
	headers := c.buildHeaders(req)

	if headers["User-Agent"] != "my-agent/1.0" {
		t.Errorf("User-Agent = %q, want my-agent/1.0", headers["User-Agent"])
	}
	if headers["X-Custom"] != "yes" {
		t.Errorf("X-Custom = %q, want yes", headers["X-Custom"])
	}
}

func TestBuildHeadersAddsGithubTokenOnlyForGithubHost(t *testing.T) {
	c := newTestClient(t, Config{GithubToken: models.NewSecret("tok-abc")})

	ghReq := newRequest(t, "https://api.github.com/repos/x")
	if got := c.buildHeaders(ghReq)["Authorization"]; got != "token tok-abc" {
		t.Errorf("Authorization = %q, want 'token tok-abc'", got)
	}

	otherReq := newRequest(t, "https://example.com/")
	if got := c.buildHeaders(otherReq)["Authorization"]; got != "" {
		t.Errorf("Authorization = %q, want empty for non-github host", got)
	}
}

func TestBuildHeadersPerRequestCredentialsOverrideGlobalBasicAuth(t *testing.T) {
	c := newTestClient(t, Config{BasicAuth: &models.Credentials{BasicAuthUser: "global", BasicAuthSecret: models.NewSecret("g")}})
	req := newRequest(t, "https://example.com/")
	req.Credentials = &models.Credentials{BasicAuthUser: "local", BasicAuthSecret: models.NewSecret("l")}

	got := c.buildHeaders(req)["Authorization"]
	want := basicAuthHeader("local", "l")
	if got != want {
		t.Errorf("Authorization = %q, want %q (per-request credentials win)", got, want)
	}
}

func TestQuirkRewriteNilRegistryReturnsNil(t *testing.T) {
	c := newTestClient(t, Config{})
	if c.quirkRewrite(newRequest(t, "https://example.com/")) != nil {
		t.Error("expected nil rewrite func when quirks registry is nil")
	}
}

func TestQuirkRewriteAppliesRegisteredRule(t *testing.T) {
	reg := quirks.New()
	reg.Register("example.com", func(req *http.Request) {
		req.Header.Set("Accept", "text/html")
	})
	c := newTestClient(t, Config{})
	c.quirks = reg

	req := newRequest(t, "https://example.com/")
	rewrite := c.quirkRewrite(req)
	if rewrite == nil {
		t.Fatal("expected a non-nil rewrite func")
	}

	httpReq, _ := http.NewRequest(http.MethodGet, "https://example.com/", nil)
	rewrite(httpReq)
	if httpReq.Header.Get("Accept") != "text/html" {
		t.Errorf("Accept header = %q, want text/html", httpReq.Header.Get("Accept"))
	}
}

func TestStatusFromAttemptMapsOutcomes(t *testing.T) {
	c := newTestClient(t, Config{})

	if got := c.statusFromAttempt(attemptResult{statusCode: 200}); !got.IsSuccess() {
		t.Errorf("200 should be success, got %s", got.String())
	}
	if got := c.statusFromAttempt(attemptResult{statusCode: 200, redirected: true}); got.Kind != models.StatusRedirected {
		t.Errorf("redirected 200 should report StatusRedirected, got %v", got.Kind)
	}
	if got := c.statusFromAttempt(attemptResult{statusCode: 404}); got.IsSuccess() {
		t.Error("404 should not be success")
	}
	if got := c.statusFromAttempt(attemptResult{statusCode: 0}); got.IsSuccess() {
		t.Error("statusCode=0 (no response) should not be success")
	}
}

func TestCheckWebsiteAppliesHeadThenGetUpgrade(t *testing.T) {
	var sawHead, sawGet bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodHead:
			sawHead = true
			w.WriteHeader(http.StatusMethodNotAllowed)
		case http.MethodGet:
			sawGet = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	c := newTestClient(t, Config{Method: models.MethodHeadThenGet})
	status := c.checkWebsite(context.Background(), newRequest(t, server.URL))

	if !sawHead || !sawGet {
		t.Errorf("expected both a HEAD and a GET request, sawHead=%v sawGet=%v", sawHead, sawGet)
	}
	if !status.IsSuccess() {
		t.Errorf("expected success after upgrade, got %s", status.String())
	}
}

func TestCheckWebsiteFragmentMissingDowngradesSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><h1 id="intro">Intro</h1></body></html>`))
	}))
	defer server.Close()

	c := newTestClient(t, Config{IncludeFragments: true})
	req := newRequest(t, server.URL+"#missing")
	status := c.checkWebsite(context.Background(), req)

	if status.IsSuccess() {
		t.Error("expected a FragmentMissing failure")
	}
}

func TestCheckWebsiteFragmentFoundStaysSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(`<html><body><h1 id="intro">Intro</h1></body></html>`))
	}))
	defer server.Close()

	c := newTestClient(t, Config{IncludeFragments: true})
	req := newRequest(t, server.URL+"#intro")
	status := c.checkWebsite(context.Background(), req)

	if !status.IsSuccess() {
		t.Errorf("expected success when fragment exists, got %s", status.String())
	}
}

func TestCheckWebsiteMarkdownFragmentMatchIsCaseInsensitive(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/markdown")
		w.Write([]byte("# Getting Started\n"))
	}))
	defer server.Close()

	c := newTestClient(t, Config{IncludeFragments: true})
	req := newRequest(t, server.URL+"#Getting-Started")
	status := c.checkWebsite(context.Background(), req)

	if !status.IsSuccess() {
		t.Errorf("expected markdown fragment match to ignore case, got %s", status.String())
	}
}
