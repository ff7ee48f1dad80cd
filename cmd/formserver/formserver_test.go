package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/kilroy-fr/pdfforms/internal/pdffixture"
	"github.com/kilroy-fr/pdfforms/schema"
	"github.com/kilroy-fr/pdfforms/session"
)

func newTestServer(t *testing.T) (*server, *gin.Engine) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	templateDir := t.TempDir()
	data, err := pdffixture.Build(pdffixture.Spec{
		TextFields: []pdffixture.TextField{
			{Name: "VERS_VNR", Rect: pdffixture.Rect{50, 700, 300, 720}},
		},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(templateDir, "S0051.pdf"), data, 0o644))
	t.Setenv("PDFFORMS_OUTPUT_DIR", t.TempDir())

	srv := &server{
		registry:    schema.NewRegistry(),
		store:       session.NewMemoryStore(),
		templateDir: templateDir,
	}

	router := gin.New()
	v1 := router.Group("/api/v1")
	{
		v1.POST("/forms/:formID/sessions", srv.handleCreateSession)
		v1.POST("/forms/:formID/sessions/:sessionID/fields", srv.handleSetFields)
		v1.POST("/forms/:formID/sessions/:sessionID/generate", srv.handleGenerate)
	}
	return srv, router
}

func TestCreateSessionUnknownForm(t *testing.T) {
	_, router := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/NOPE/sessions", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestSessionLifecycleAndGenerate(t *testing.T) {
	_, router := newTestServer(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/S0051/sessions", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var created struct {
		SessionID string `json:"sessionID"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	require.NotEmpty(t, created.SessionID)

	body, err := json.Marshal([]map[string]string{
		{"fieldName": "VERS_VNR", "value": "12 345678 A 123"},
	})
	require.NoError(t, err)
	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost,
		"/api/v1/forms/S0051/sessions/"+created.SessionID+"/fields", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodPost,
		"/api/v1/forms/S0051/sessions/"+created.SessionID+"/generate", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	require.NotEmpty(t, w.Body.Bytes())
	require.Equal(t, "1", w.Header().Get("X-Fields-Filled"))
}

func TestGenerateUnknownSession(t *testing.T) {
	_, router := newTestServer(t)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/forms/S0051/sessions/does-not-exist/generate", nil)
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusNotFound, w.Code)
}
