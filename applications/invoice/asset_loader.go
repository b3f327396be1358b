package invoice

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	qrcode "github.com/skip2/go-qrcode"
)

// QRPrefix marks an asset reference that is generated instead of fetched.
const QRPrefix = "qr:"

var ErrAssetNotFound = errors.New("asset not found")

// AssetLoader fetches the bytes behind an asset reference.
type AssetLoader interface {
	Fetch(ctx context.Context, ref string) ([]byte, error)
}

// FileLoader reads assets below Dir. References cannot escape Dir.
type FileLoader struct {
	Dir string
}

func (l FileLoader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path := filepath.Join(l.Dir, filepath.Clean("/"+ref))
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%s: %w", ref, ErrAssetNotFound)
		}
		return nil, fmt.Errorf("failed to read asset %s: %w", ref, err)
	}
	return data, nil
}

// HTTPLoader downloads assets. A zero Timeout leaves the request unbounded.
type HTTPLoader struct {
	Client  *http.Client
	Timeout time.Duration
}

func (l HTTPLoader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if l.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, l.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid asset url %s: %w", ref, err)
	}

	client := l.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch asset %s: %w", ref, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("%s: %w", ref, ErrAssetNotFound)
	}
	if resp.StatusCode >= 300 {
		return nil, fmt.Errorf("asset %s: unexpected status %s", ref, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// QRLoader renders "qr:<payload>" references as PNG QR codes.
type QRLoader struct {
	Size int
}

func (l QRLoader) Fetch(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := strings.TrimPrefix(ref, QRPrefix)
	if payload == "" {
		return nil, fmt.Errorf("empty qr payload: %w", ErrAssetNotFound)
	}
	size := l.Size
	if size <= 0 {
		size = 256
	}
	png, err := qrcode.Encode(payload, qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to encode qr code: %w", err)
	}
	return png, nil
}

// AssetRouter picks a loader by reference shape: qr: payloads, http(s) URLs,
// and everything else from disk.
type AssetRouter struct {
	Files AssetLoader
	HTTP  AssetLoader
	QR    AssetLoader
}

func NewAssetRouter(dir string, timeout time.Duration) *AssetRouter {
	return &AssetRouter{
		Files: FileLoader{Dir: dir},
		HTTP:  HTTPLoader{Timeout: timeout},
		QR:    QRLoader{},
	}
}

func (r *AssetRouter) Fetch(ctx context.Context, ref string) ([]byte, error) {
	var loader AssetLoader
	switch {
	case strings.HasPrefix(ref, QRPrefix):
		loader = r.QR
	case strings.HasPrefix(ref, "http://"), strings.HasPrefix(ref, "https://"):
		loader = r.HTTP
	default:
		loader = r.Files
	}
	if loader == nil {
		return nil, fmt.Errorf("no loader for asset %s", ref)
	}
	return loader.Fetch(ctx, ref)
}
