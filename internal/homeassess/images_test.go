package homeassess

import (
	"context"
	"encoding/base64"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joelkehle/homeassess/internal/intake"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestParseImageSource(t *testing.T) {
	payload := base64.StdEncoding.EncodeToString([]byte("hello"))

	src, err := ParseImageSource("data:image/png;base64," + payload)
	require.NoError(t, err)
	assert.Equal(t, InlineImage{MIMEType: "image/png", Data: []byte("hello")}, src)

	src, err = ParseImageSource(payload)
	require.NoError(t, err)
	assert.Equal(t, InlineImage{MIMEType: "image/jpeg", Data: []byte("hello")}, src)

	src, err = ParseImageSource("https://cdn.example.com/a.jpg")
	require.NoError(t, err)
	assert.Equal(t, RemoteImage{URL: "https://cdn.example.com/a.jpg"}, src)

	for _, bad := range []string{"", "data:image/png,notbase64", "data:image/png;base64", "not base64 !!"} {
		_, err := ParseImageSource(bad)
		assert.True(t, errors.Is(err, ErrInvalidImage), "input %q: %v", bad, err)
	}
}

func TestImageFetcherResolvesInOrder(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/slow.webp":
			time.Sleep(50 * time.Millisecond)
			w.Header().Set("Content-Type", "image/webp")
			_, _ = w.Write([]byte("webp-bytes"))
		case "/sniff":
			w.Header().Set("Content-Type", "application/octet-stream")
			_, _ = w.Write(pngHeader)
		default:
			http.NotFound(w, r)
		}
	}))
	defer srv.Close()

	f := NewImageFetcher(time.Second, nil)
	got, err := f.Resolve(context.Background(), []intake.ImageRef{
		{ID: "a", URL: srv.URL + "/slow.webp"},
		{ID: "b", URL: "data:image/gif;base64," + base64.StdEncoding.EncodeToString([]byte("gif"))},
		{ID: "c", URL: srv.URL + "/sniff"},
	})
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, InlineImage{MIMEType: "image/webp", Data: []byte("webp-bytes")}, got[0])
	assert.Equal(t, "image/gif", got[1].MIMEType)
	assert.Equal(t, "image/png", got[2].MIMEType)
}

func TestImageFetcherFailsOnErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	f := NewImageFetcher(time.Second, nil)
	_, err := f.Resolve(context.Background(), []intake.ImageRef{{ID: "missing", URL: srv.URL + "/gone.jpg"}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "image missing")
	assert.Contains(t, err.Error(), "status 404")
}

func TestImageMIMEFallsBackToJPEG(t *testing.T) {
	assert.Equal(t, "image/jpeg", imageMIME("", []byte("plain text")))
	assert.Equal(t, "image/png", imageMIME("image/png; charset=binary", nil))
}
