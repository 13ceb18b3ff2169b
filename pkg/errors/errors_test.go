package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		appErr   *AppError
		expected string
	}{
		{
			name: "without underlying error",
			appErr: &AppError{
				Code:    CodeNotFound,
				Message: "customer not found",
			},
			expected: "NOT_FOUND: customer not found",
		},
		{
			name: "with underlying error",
			appErr: &AppError{
				Code:    CodeInternal,
				Message: "internal error",
				Err:     errors.New("bookings.csv: permission denied"),
			},
			expected: "INTERNAL_ERROR: internal error (caused by: bookings.csv: permission denied)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.appErr.Error(); got != tt.expected {
				t.Errorf("Error() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestAppError_Unwrap(t *testing.T) {
	originalErr := errors.New("original error")
	appErr := Wrap(originalErr, CodeInternal, "wrapped", http.StatusInternalServerError)

	if errors.Unwrap(appErr) != originalErr {
		t.Errorf("Unwrap() should return original error")
	}
}

func TestConstructors(t *testing.T) {
	cause := errors.New("parse failure")
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"not found", NotFoundWithID("Customer", "42"), CodeNotFound, http.StatusNotFound},
		{"validation", Validation("bad", nil), CodeValidation, http.StatusUnprocessableEntity},
		{"invalid input", InvalidInput("bad date", cause), CodeInvalidInput, http.StatusBadRequest},
		{"conflict", Conflict("slot already taken."), CodeConflict, http.StatusConflict},
		{"internal", Internal("boom", cause), CodeInternal, http.StatusInternalServerError},
		{"timeout", Timeout("slow"), CodeTimeout, http.StatusGatewayTimeout},
		{"unavailable", Unavailable("Reservation store"), CodeUnavailable, http.StatusServiceUnavailable},
		{"rate limited", RateLimited(), CodeRateLimited, http.StatusTooManyRequests},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Code != tt.wantCode {
				t.Errorf("expected code %s, got %s", tt.wantCode, tt.err.Code)
			}
			if tt.err.StatusCode() != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, tt.err.StatusCode())
			}
		})
	}
}

func TestNotFoundWithID(t *testing.T) {
	err := NotFoundWithID("Customer", "12345")

	if err.Details["id"] != "12345" {
		t.Errorf("expected id '12345', got %v", err.Details["id"])
	}
	if err.Details["resource"] != "Customer" {
		t.Errorf("expected resource 'Customer', got %v", err.Details["resource"])
	}
	if err.Message != "Customer not found" {
		t.Errorf("unexpected message %q", err.Message)
	}
}

func TestIsAppError_ThroughWrapping(t *testing.T) {
	appErr := InvalidInput("invalid date", nil)
	wrapped := fmt.Errorf("begin booking: %w", appErr)

	if !IsAppError(wrapped) {
		t.Errorf("IsAppError() should see an AppError through fmt.Errorf wrapping")
	}
	if IsAppError(errors.New("regular error")) {
		t.Errorf("IsAppError() should return false for regular error")
	}
	if !HasCode(wrapped, CodeInvalidInput) {
		t.Errorf("HasCode() should match the wrapped code")
	}
	if HasCode(wrapped, CodeInternal) {
		t.Errorf("HasCode() should not match a different code")
	}
}

func TestAsAppError(t *testing.T) {
	appErr := Conflict("slot already taken.")
	if AsAppError(appErr) != appErr {
		t.Errorf("AsAppError() should return same AppError")
	}

	regularErr := errors.New("regular error")
	result := AsAppError(regularErr)
	if result.Code != CodeInternal {
		t.Errorf("AsAppError() should wrap regular error as internal error")
	}
	if result.Err != regularErr {
		t.Errorf("AsAppError() should wrap the original error")
	}
}
