package router

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/javajoker/art-rental-backend/internal/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testConfig(uploadDir string) *config.Config {
	return &config.Config{
		Server: config.ServerConfig{UploadDir: uploadDir},
		CORS:   config.CORSConfig{AllowedOrigins: []string{"http://localhost:3000"}},
	}
}

func TestLocalUploadsAreServed(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "artworks"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "artworks", "a.png"), []byte("png"), 0o644))

	r := New(testConfig(dir), Dependencies{})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/artworks/a.png", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "png", w.Body.String())
}

func TestUploadsNotServedWithS3(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.png"), []byte("png"), 0o644))

	cfg := testConfig(dir)
	cfg.AWS.AccessKeyID = "AKIA"
	w := httptest.NewRecorder()
	New(cfg, Dependencies{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/uploads/a.png", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}
