package homeassess

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/joelkehle/homeassess/internal/intake"
)

const defaultImageMIME = "image/jpeg"

var ErrInvalidImage = errors.New("invalid image")

// ImageSource is either a RemoteImage that still has to be fetched or an
// InlineImage whose bytes are already in hand.
type ImageSource interface {
	isImageSource()
}

type RemoteImage struct {
	URL string
}

type InlineImage struct {
	MIMEType string
	Data     []byte
}

func (RemoteImage) isImageSource() {}
func (InlineImage) isImageSource() {}

// Base64 returns the standard encoding of the image bytes.
func (i InlineImage) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// ParseImageSource classifies an image reference. Data URIs are decoded in
// place; http and https URLs are left for the fetcher; anything else is read
// as bare base64 JPEG data.
func ParseImageSource(ref string) (ImageSource, error) {
	ref = strings.TrimSpace(ref)
	lower := strings.ToLower(ref)
	switch {
	case ref == "":
		return nil, fmt.Errorf("%w: empty reference", ErrInvalidImage)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		return RemoteImage{URL: ref}, nil
	case strings.HasPrefix(lower, "data:"):
		return parseDataURI(ref)
	}
	data, err := decodeBase64(ref)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return InlineImage{MIMEType: defaultImageMIME, Data: data}, nil
}

func parseDataURI(ref string) (InlineImage, error) {
	header, payload, ok := strings.Cut(ref[len("data:"):], ",")
	if !ok {
		return InlineImage{}, fmt.Errorf("%w: data uri without payload", ErrInvalidImage)
	}
	mediaType, isBase64 := strings.CutSuffix(header, ";base64")
	if !isBase64 {
		return InlineImage{}, fmt.Errorf("%w: data uri is not base64 encoded", ErrInvalidImage)
	}
	if mediaType == "" {
		mediaType = defaultImageMIME
	}
	data, err := decodeBase64(payload)
	if err != nil {
		return InlineImage{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	return InlineImage{MIMEType: strings.ToLower(mediaType), Data: data}, nil
}

func decodeBase64(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if data, err := base64.StdEncoding.DecodeString(s); err == nil {
		return data, nil
	}
	return base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
}

// ImageFetcher resolves image references into inline payloads, downloading
// remote images concurrently.
type ImageFetcher struct {
	client *resty.Client
	logger *zap.Logger
}

func NewImageFetcher(timeout time.Duration, logger *zap.Logger) *ImageFetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "image/*")
	return &ImageFetcher{client: client, logger: logger}
}

// Resolve returns one inline image per reference, in the same order. Any
// failure aborts the whole set.
func (f *ImageFetcher) Resolve(ctx context.Context, refs []intake.ImageRef) ([]InlineImage, error) {
	sources := make([]ImageSource, len(refs))
	for i, ref := range refs {
		src, err := ParseImageSource(ref.URL)
		if err != nil {
			return nil, fmt.Errorf("image %s: %w", ref.ID, err)
		}
		sources[i] = src
	}

	out := make([]InlineImage, len(refs))
	g, gctx := errgroup.WithContext(ctx)
	for i, ref := range refs {
		switch s := sources[i].(type) {
		case InlineImage:
			out[i] = s
		case RemoteImage:
			g.Go(func() error {
				img, err := f.fetch(gctx, s.URL)
				if err != nil {
					return fmt.Errorf("image %s: %w", ref.ID, err)
				}
				out[i] = img
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

func (f *ImageFetcher) fetch(ctx context.Context, url string) (InlineImage, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return InlineImage{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	if resp.IsError() {
		f.logger.Warn("image fetch rejected",
			zap.String("url", url),
			zap.Int("status_code", resp.StatusCode()),
		)
		return InlineImage{}, fmt.Errorf("fetch %s: status %d", url, resp.StatusCode())
	}
	body := resp.Body()
	if len(body) == 0 {
		return InlineImage{}, fmt.Errorf("fetch %s: %w: empty body", url, ErrInvalidImage)
	}
	return InlineImage{MIMEType: imageMIME(resp.Header().Get("Content-Type"), body), Data: body}, nil
}

func imageMIME(contentType string, body []byte) string {
	if mt, _, err := mime.ParseMediaType(contentType); err == nil && strings.HasPrefix(mt, "image/") {
		return mt
	}
	if sniffed := http.DetectContentType(body); strings.HasPrefix(sniffed, "image/") {
		return sniffed
	}
	return defaultImageMIME
}
