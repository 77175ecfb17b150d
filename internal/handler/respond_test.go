package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		msg    string
		ok     bool
	}{
		{"validation", fmt.Errorf("%w: Item name is required", model.ErrValidation), http.StatusBadRequest, "Item name is required", true},
		{"conflict", fmt.Errorf("%w: Username or email already exists", model.ErrConflict), http.StatusConflict, "Username or email already exists", true},
		{"credentials", fmt.Errorf("%w: Invalid credentials", model.ErrInvalidCredentials), http.StatusUnauthorized, "Invalid credentials", true},
		{"not found", fmt.Errorf("%w: Item not found or unauthorized", model.ErrNotFound), http.StatusNotFound, "Item not found or unauthorized", true},
		{"unexpected", errors.New("disk on fire"), http.StatusInternalServerError, genericErrorMessage, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, msg, ok := errorStatus(tt.err)
			if status != tt.status || msg != tt.msg || ok != tt.ok {
				t.Errorf("errorStatus = (%d, %q, %v), want (%d, %q, %v)", status, msg, ok, tt.status, tt.msg, tt.ok)
			}
		})
	}
}

func TestWriteErrorDetail(t *testing.T) {
	tests := []struct {
		production bool
		wantDetail bool
	}{
		{production: false, wantDetail: true},
		{production: true, wantDetail: false},
	}

	for _, tt := range tests {
		ew := errorWriter{production: tt.production, logger: discardLogger()}
		rec := httptest.NewRecorder()
		ew.writeError(rec, httptest.NewRequest("GET", "/api/groceries", nil), "list", errors.New("boom"))

		if rec.Code != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", rec.Code)
		}
		var body map[string]string
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body["error"] != genericErrorMessage {
			t.Errorf("error = %q, want %q", body["error"], genericErrorMessage)
		}
		if _, has := body["detail"]; has != tt.wantDetail {
			t.Errorf("production=%v: detail present = %v, want %v", tt.production, has, tt.wantDetail)
		}
	}
}

func TestWriteErrorKnownHasNoDetail(t *testing.T) {
	ew := errorWriter{logger: discardLogger()}
	rec := httptest.NewRecorder()
	ew.writeError(rec, httptest.NewRequest("GET", "/", nil), "op", fmt.Errorf("%w: Quantity must be between 1 and 999", model.ErrValidation))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
	var body map[string]string
	json.NewDecoder(rec.Body).Decode(&body)
	if body["error"] != "Quantity must be between 1 and 999" {
		t.Errorf("error = %q", body["error"])
	}
	if _, has := body["detail"]; has {
		t.Error("known errors should not carry detail")
	}
}
