package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	apperrors "bandsite/pkg/errors"
)

func TestExtractLimit(t *testing.T) {
	tests := []struct {
		name    string
		query   string
		want    int
		wantErr bool
	}{
		{"missing uses default", "", 50, false},
		{"explicit", "?limit=7", 7, false},
		{"zero uses default", "?limit=0", 50, false},
		{"negative uses default", "?limit=-4", 50, false},
		{"clamped to max", "?limit=100000", 500, false},
		{"not a number", "?limit=ten", 0, true},
		{"fractional", "?limit=2.5", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/band/members"+tt.query, nil)
			got, err := ExtractLimit(req, 50, 500)
			if tt.wantErr {
				appErr := apperrors.AsAppError(err)
				if err == nil || appErr.Code != apperrors.CodeInvalidInput {
					t.Errorf("expected INVALID_INPUT, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("ExtractLimit() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.9:51234"
	if got := ClientIP(req); got != "10.0.0.9" {
		t.Errorf("ClientIP() = %q", got)
	}

	req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
	if got := ClientIP(req); got != "203.0.113.7" {
		t.Errorf("ClientIP() with forwarded header = %q", got)
	}
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation", apperrors.Validation("invalid booking", map[string]any{"errors": []string{"email"}}), http.StatusUnprocessableEntity, apperrors.CodeValidation},
		{"unavailable", apperrors.Unavailable("Storage"), http.StatusServiceUnavailable, apperrors.CodeUnavailable},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("expected status %d, got %d", tt.wantStatus, rec.Code)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode || body.Error == "" {
				t.Errorf("unexpected body %+v", body)
			}
		})
	}
}

func TestWriteList_NeverNull(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteList[map[string]any](rec, nil)

	if got := rec.Body.String(); got != "{\"items\":[]}\n" {
		t.Errorf("unexpected body %q", got)
	}
}
