package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestMapErrorToStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found sentinel", ErrNotFound, http.StatusNotFound},
		{"wrapped not found", fmt.Errorf("load user: %w", ErrNotFound), http.StatusNotFound},
		{"bad request helper", BadRequest("title is required"), http.StatusBadRequest},
		{"conflict helper", Conflict("already answered"), http.StatusConflict},
		{"rate limit", ErrRateLimitExceeded, http.StatusTooManyRequests},
		{"unavailable", Unavailable("search disabled"), http.StatusServiceUnavailable},
		{"explicit code wins", New(http.StatusTeapot, "teapot", ErrNotFound), http.StatusTeapot},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := MapErrorToStatus(tt.err); got != tt.want {
				t.Errorf("MapErrorToStatus() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestAppErrorMessage(t *testing.T) {
	err := NotFound("user not found")
	if err.Error() != "user not found" {
		t.Errorf("Error() = %q", err.Error())
	}
	if !errors.Is(err, ErrNotFound) {
		t.Error("expected AppError to unwrap to ErrNotFound")
	}

	bare := New(http.StatusBadGateway, "", nil)
	if bare.Error() != http.StatusText(http.StatusBadGateway) {
		t.Errorf("Error() = %q", bare.Error())
	}
}
