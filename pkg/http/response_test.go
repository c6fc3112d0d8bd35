package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	apperrors "backstage/pkg/errors"
)

func TestWriteError_StatusMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"not found", apperrors.NotFoundWithID("Booking", "b1"), http.StatusNotFound, apperrors.CodeNotFound},
		{"conflict", apperrors.Conflict("stale"), http.StatusConflict, apperrors.CodeConflict},
		{"invalid stage", apperrors.InvalidStage("admin_review", "final_approval"), http.StatusUnprocessableEntity, apperrors.CodeInvalidStage},
		{"invalid input", apperrors.InvalidInput("bad"), http.StatusBadRequest, apperrors.CodeInvalidInput},
		{"plain error", errors.New("boom"), http.StatusInternalServerError, apperrors.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			if err := WriteError(rec, tt.err); err != nil {
				t.Fatalf("WriteError() error: %v", err)
			}
			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}
			var body ErrorResponse
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if body.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", body.Code, tt.wantCode)
			}
		})
	}
}

func TestWriteError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	_ = WriteError(rec, apperrors.Internal("Failed to load booking", errors.New("mongo: secret host unreachable")))
	if strings.Contains(rec.Body.String(), "secret host") {
		t.Errorf("internal cause leaked: %s", rec.Body.String())
	}
}

func TestDecodeJSON(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"x"}`))
	if err := DecodeJSON(r, &v); err != nil || v.Name != "x" {
		t.Fatalf("DecodeJSON() = %v, name=%q", err, v.Name)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"other":"x"}`))
	if err := DecodeJSON(r, &v); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for unknown field, got %v", err)
	}

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(``))
	if err := DecodeJSON(r, &v); !apperrors.HasCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected INVALID_INPUT for empty body, got %v", err)
	}
}

func TestQueryTime(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/?from=2026-05-01T10:00:00Z&bad=yesterday", nil)

	got, err := QueryTime(r, "from")
	if err != nil || got == nil || got.Hour() != 10 {
		t.Errorf("QueryTime(from) = %v, %v", got, err)
	}
	if got, err := QueryTime(r, "missing"); got != nil || err != nil {
		t.Errorf("QueryTime(missing) = %v, %v", got, err)
	}
	if _, err := QueryTime(r, "bad"); err == nil {
		t.Error("expected error for malformed time")
	}
}
