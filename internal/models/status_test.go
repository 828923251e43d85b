package models

import "testing"

func TestStatusIsSuccess(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"ok", Ok(200), true},
		{"redirected", Redirected(301), true},
		{"cached ok", Cached(CacheStatus{Ok: true, Code: 200}), true},
		{"cached error", Cached(CacheStatus{Ok: false}), false},
		{"timeout", TimeoutStatus(), false},
		{"error", ErrorStatus(Network(errBoom)), false},
		{"excluded", Excluded(), false},
		{"unsupported", Unsupported(), false},
		{"unknown status code", UnknownStatusCode(999), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsSuccess(); got != tt.want {
				t.Errorf("IsSuccess() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusIsFailure(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   bool
	}{
		{"ok", Ok(200), false},
		{"redirected", Redirected(302), false},
		{"cached ok", Cached(CacheStatus{Ok: true}), false},
		{"cached error", Cached(CacheStatus{Ok: false}), true},
		{"timeout", TimeoutStatus(), true},
		{"error", ErrorStatus(Network(errBoom)), true},
		{"unknown status code", UnknownStatusCode(999), true},
		{"excluded", Excluded(), false},
		{"unsupported", Unsupported(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsFailure(); got != tt.want {
				t.Errorf("IsFailure() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestStatusString(t *testing.T) {
	tests := []struct {
		name   string
		status Status
		want   string
	}{
		{"ok", Ok(200), "OK"},
		{"redirected", Redirected(301), "REDIRECTED"},
		{"timeout", TimeoutStatus(), "TIMEOUT"},
		{"excluded", Excluded(), "EXCLUDED"},
		{"unsupported", Unsupported(), "UNSUPPORTED"},
		{"cached ok", Cached(CacheStatus{Ok: true}), "CACHED(OK)"},
		{"cached error", Cached(CacheStatus{Ok: false}), "CACHED(ERROR)"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

var errBoom = &testError{"boom"}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
