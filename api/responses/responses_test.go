package responses

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	pkgerrors "github.com/ruancarvalho/pedidosync-backend/pkg/errors"
	"github.com/ruancarvalho/pedidosync-backend/pkg/logger"
)

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func decodeError(t *testing.T, body []byte) (string, string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil {
		t.Fatalf("unmarshal error envelope: %v", err)
	}
	return envelope.Error.Code, envelope.Error.Message
}

func TestWriteSuccessEnvelope(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteSuccess(resp, map[string]string{"answer": "yes"})

	if resp.Code != http.StatusOK {
		t.Fatalf("unexpected status %d", resp.Code)
	}
	if ct := resp.Header().Get("Content-Type"); ct != "application/json" {
		t.Fatalf("unexpected content type %q", ct)
	}
	var envelope struct {
		Data map[string]string `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if envelope.Data["answer"] != "yes" {
		t.Fatalf("unexpected payload %+v", envelope)
	}
}

func TestWriteErrorMapsCodeToStatus(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"validation keeps message", pkgerrors.New(pkgerrors.CodeValidation, "serial is required"), http.StatusBadRequest, "VALIDATION_ERROR"},
		{"not found", pkgerrors.New(pkgerrors.CodeNotFound, "pedido REQ-404 nao encontrado"), http.StatusNotFound, "NOT_FOUND"},
		{"rate limit", pkgerrors.New(pkgerrors.CodeRateLimit, "quota exceeded"), http.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED"},
		{"dependency hides message", pkgerrors.New(pkgerrors.CodeDependency, "socket timeout on append"), http.StatusServiceUnavailable, "DEPENDENCY_ERROR"},
		{"untyped becomes internal", fmt.Errorf("boom"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			WriteError(context.Background(), testLogger(), resp, tc.err)

			if resp.Code != tc.wantStatus {
				t.Fatalf("status = %d, want %d", resp.Code, tc.wantStatus)
			}
			code, _ := decodeError(t, resp.Body.Bytes())
			if code != tc.wantCode {
				t.Fatalf("code = %q, want %q", code, tc.wantCode)
			}
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	resp := httptest.NewRecorder()
	WriteError(context.Background(), testLogger(), resp, pkgerrors.New(pkgerrors.CodeDependency, "raw backend dump"))

	_, msg := decodeError(t, resp.Body.Bytes())
	if msg == "raw backend dump" {
		t.Fatal("dependency failures must not leak internal messages")
	}
}
