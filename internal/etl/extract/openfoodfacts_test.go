package extract

import (
	"compress/gzip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/Ayfri/ETL-1/internal/errors"
)

func gzipCSVServer(t *testing.T, csvContent string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		gz := gzip.NewWriter(w)
		_, err := gz.Write([]byte(csvContent))
		require.NoError(t, err)
		require.NoError(t, gz.Close())
	}))
}

func TestDownloadProductsSamplesRows(t *testing.T) {
	server := gzipCSVServer(t, "code,product_name\n1,One\n2,Two\n3,Three\n4,Four\n")
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "sample.csv")
	downloader := NewDownloader(5 * time.Second)

	rows, err := downloader.DownloadProducts(context.Background(), server.URL, dest, 2)
	require.NoError(t, err)
	assert.Equal(t, 2, rows)

	data, err := os.ReadFile(dest)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "code,product_name", lines[0])
	assert.Equal(t, "2,Two", lines[2])
}

func TestDownloadProductsShortFile(t *testing.T) {
	server := gzipCSVServer(t, "code,product_name\n1,One\n")
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "sample.csv")
	rows, err := NewDownloader(5*time.Second).DownloadProducts(context.Background(), server.URL, dest, 100)
	require.NoError(t, err)
	assert.Equal(t, 1, rows)
}

func TestDownloadProductsBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "sample.csv")
	_, err := NewDownloader(5*time.Second).DownloadProducts(context.Background(), server.URL, dest, 10)
	assert.True(t, apperrors.IsExtraction(err))
}

func TestDownloadProductsNotGzip(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("plain text, not gzip"))
	}))
	defer server.Close()

	dest := filepath.Join(t.TempDir(), "sample.csv")
	_, err := NewDownloader(5*time.Second).DownloadProducts(context.Background(), server.URL, dest, 10)
	assert.True(t, apperrors.IsExtraction(err))
}
