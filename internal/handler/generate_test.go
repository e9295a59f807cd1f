package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/pfscgen/internal/domain"
	"github.com/pkordes/pfscgen/internal/handler"
	"github.com/pkordes/pfscgen/internal/middleware"
	"github.com/pkordes/pfscgen/internal/service"
)

// mockGenerateServicer is a test double for handler.GenerateServicer.
type mockGenerateServicer struct {
	generate func(ctx context.Context, records []domain.Record, format domain.Format) (string, error)
}

func (m *mockGenerateServicer) Generate(ctx context.Context, records []domain.Record, format domain.Format) (string, error) {
	return m.generate(ctx, records, format)
}

// compile-time check: mockGenerateServicer must satisfy handler.GenerateServicer.
var _ handler.GenerateServicer = (*mockGenerateServicer)(nil)

// ---- helpers ---------------------------------------------------------------

func newGenerateHandler(svc handler.GenerateServicer) http.Handler {
	return handler.NewServer(svc, nil).Routes()
}

func postGenerate(t *testing.T, h http.Handler, target, body string) (*httptest.ResponseRecorder, handler.GenerateResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	var resp handler.GenerateResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return rec, resp
}

const defaultPayload = `[{"targets":["youtube.com"],"labels":{"instance_name":"Facebook","platform":"facebook"}}]`

// ---- POST /generate --------------------------------------------------------

func TestGenerate_200(t *testing.T) {
	var gotRecords []domain.Record
	var gotFormat domain.Format
	svc := &mockGenerateServicer{
		generate: func(_ context.Context, records []domain.Record, format domain.Format) (string, error) {
			gotRecords, gotFormat = records, format
			return "formatted", nil
		},
	}

	rec, resp := postGenerate(t, newGenerateHandler(svc), "/generate", defaultPayload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, resp.Success)
	assert.Equal(t, "formatted", resp.Config)
	assert.Empty(t, resp.Error)
	assert.Equal(t, domain.FormatJSON, gotFormat)
	require.Len(t, gotRecords, 1)
	assert.Equal(t, []string{"youtube.com"}, gotRecords[0].Targets)
	assert.Equal(t, "facebook", gotRecords[0].Labels["platform"])
}

func TestGenerate_200_YAMLFormat(t *testing.T) {
	var gotFormat domain.Format
	svc := &mockGenerateServicer{
		generate: func(_ context.Context, _ []domain.Record, format domain.Format) (string, error) {
			gotFormat = format
			return "- targets: []", nil
		},
	}

	rec, _ := postGenerate(t, newGenerateHandler(svc), "/generate?format=yaml", defaultPayload)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, domain.FormatYAML, gotFormat)
}

func TestGenerate_400_UnknownFormat(t *testing.T) {
	rec, resp := postGenerate(t, newGenerateHandler(&mockGenerateServicer{}), "/generate?format=toml", defaultPayload)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, `unknown format "toml"`, resp.Error)
}

func TestGenerate_400_MalformedBody(t *testing.T) {
	rec, resp := postGenerate(t, newGenerateHandler(&mockGenerateServicer{}), "/generate", `{"targets":`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "invalid request body")
}

func TestGenerate_400_ValidationError(t *testing.T) {
	svc := &mockGenerateServicer{
		generate: func(_ context.Context, _ []domain.Record, _ domain.Format) (string, error) {
			return "", fmt.Errorf("service.GenerateService.Generate: %w: boom", domain.ErrValidation)
		},
	}

	rec, resp := postGenerate(t, newGenerateHandler(svc), "/generate", `[]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.False(t, resp.Success)
	assert.Equal(t, "boom", resp.Error)
}

func TestGenerate_500_HidesCause(t *testing.T) {
	svc := &mockGenerateServicer{
		generate: func(_ context.Context, _ []domain.Record, _ domain.Format) (string, error) {
			return "", errors.New("disk on fire")
		},
	}

	rec, resp := postGenerate(t, newGenerateHandler(svc), "/generate", defaultPayload)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.False(t, resp.Success)
	assert.NotContains(t, resp.Error, "disk")
}

// An oversized body behind the body-size middleware still gets a JSON answer
// the client can decode.
func TestGenerate_413_BodyLimitAnswersJSON(t *testing.T) {
	h := middleware.NewMaxBodySizeHandler(16)(newGenerateHandler(service.NewGenerateService()))

	rec, resp := postGenerate(t, h, "/generate", defaultPayload)

	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Error, "request body too large")
}

// TestGenerate_RealService runs the default payload through the real service
// and checks the document the editor would render.
func TestGenerate_RealService(t *testing.T) {
	h := newGenerateHandler(service.NewGenerateService())

	rec, resp := postGenerate(t, h, "/generate", defaultPayload)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, resp.Success)
	assert.JSONEq(t, defaultPayload, resp.Config)
	assert.True(t, strings.HasPrefix(resp.Config, "[\n  {"), "document is indented")
}

func TestGenerate_RealService_EmptyList(t *testing.T) {
	h := newGenerateHandler(service.NewGenerateService())

	rec, resp := postGenerate(t, h, "/generate", `[]`)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "at least one target group is required", resp.Error)
}
