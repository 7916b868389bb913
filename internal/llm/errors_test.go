package llm

import (
	"errors"
	"net/http"
	"testing"
	"time"
)

func TestClassifyStatus(t *testing.T) {
	cause := errors.New("upstream said no")
	tests := []struct {
		status int
		err    error
		want   string
	}{
		{401, cause, "auth"},
		{403, cause, "auth"},
		{400, errors.New("API_KEY_INVALID: API key not valid"), "auth"},
		{400, cause, "unavailable"},
		{429, cause, "rate"},
		{500, cause, "unavailable"},
		{0, cause, "unavailable"},
	}
	for _, tt := range tests {
		got := classifyStatus(tt.status, 0, tt.err)
		var (
			auth  *ErrAuth
			rate  *ErrRateLimit
			unav  *ErrProviderUnavailable
			class string
		)
		switch {
		case errors.As(got, &auth):
			class = "auth"
		case errors.As(got, &rate):
			class = "rate"
		case errors.As(got, &unav):
			class = "unavailable"
		}
		if class != tt.want {
			t.Errorf("status %d (%v): got %s, want %s", tt.status, tt.err, class, tt.want)
		}
		if !errors.Is(got, tt.err) {
			t.Errorf("status %d: cause not wrapped", tt.status)
		}
	}
}

func TestParseRetryAfter(t *testing.T) {
	h := http.Header{}
	if d := parseRetryAfter(h); d != 0 {
		t.Fatalf("empty header gave %s", d)
	}
	h.Set("Retry-After", "12")
	if d := parseRetryAfter(h); d != 12*time.Second {
		t.Fatalf("got %s, want 12s", d)
	}
	h.Set("Retry-After", "Wed, 21 Oct 2026 07:28:00 GMT")
	if d := parseRetryAfter(h); d != 0 {
		t.Fatalf("date form should be ignored, got %s", d)
	}
	if d := parseRetryAfter(nil); d != 0 {
		t.Fatalf("nil header gave %s", d)
	}
}

func TestRateLimitMessage(t *testing.T) {
	e := &ErrRateLimit{RetryAfter: 3 * time.Second, Err: errors.New("429")}
	if e.Error() != "rate limited, retry in 3s: 429" {
		t.Fatalf("message = %q", e.Error())
	}
}
