package infra

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"
)

// BucketClient talks to the hosted blob-storage bucket that serves product
// images. Uploads are validated client-side (MIME allow-list + size cap)
// before any bytes leave the station, and every call goes through the circuit
// breaker so a downed bucket does not stall product operations.
type BucketClient struct {
	baseURL    string
	maxBytes   int64
	httpClient *http.Client
	cb         *CircuitBreaker
}

// mimePermitidos is the upload allow-list enforced before contacting the bucket.
var mimePermitidos = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/webp": true,
	"image/gif":  true,
}

func NewBucketClient(baseURL string, maxBytes int64, cb *CircuitBreaker) *BucketClient {
	return &BucketClient{
		baseURL:    strings.TrimRight(baseURL, "/"),
		maxBytes:   maxBytes,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		cb:         cb,
	}
}

type subirImagenResponse struct {
	URL string `json:"url"`
}

// Subir uploads an image payload and returns its publicly resolvable URL.
// Validation errors abort before any mutation; transport errors count against
// the circuit breaker.
func (c *BucketClient) Subir(ctx context.Context, nombre, mimeType string, data []byte) (string, error) {
	if !mimePermitidos[mimeType] {
		return "", fmt.Errorf("bucket: tipo de imagen no permitido: %s", mimeType)
	}
	if int64(len(data)) > c.maxBytes {
		return "", fmt.Errorf("bucket: imagen supera el maximo de %d bytes", c.maxBytes)
	}

	var publicURL string
	err := c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost,
			c.baseURL+"/objetos/"+url.PathEscape(nombre), bytes.NewReader(data))
		if err != nil {
			return fmt.Errorf("bucket: create request: %w", err)
		}
		req.Header.Set("Content-Type", mimeType)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("bucket: unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
			return fmt.Errorf("bucket: upload returned %d", resp.StatusCode)
		}

		var result subirImagenResponse
		if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
			return fmt.Errorf("bucket: decode response: %w", err)
		}
		publicURL = result.URL
		return nil
	})
	if err != nil {
		return "", err
	}
	return publicURL, nil
}

// Eliminar deletes the object behind a previously returned public URL.
// The object key is the last path segment of the URL.
func (c *BucketClient) Eliminar(ctx context.Context, publicURL string) error {
	u, err := url.Parse(publicURL)
	if err != nil {
		return fmt.Errorf("bucket: url invalida: %w", err)
	}
	key := path.Base(u.Path)
	if key == "" || key == "/" || key == "." {
		return fmt.Errorf("bucket: no se pudo derivar la clave de %q", publicURL)
	}

	return c.cb.Execute(func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete,
			c.baseURL+"/objetos/"+url.PathEscape(key), nil)
		if err != nil {
			return fmt.Errorf("bucket: create request: %w", err)
		}
		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("bucket: unreachable: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent &&
			resp.StatusCode != http.StatusNotFound {
			return fmt.Errorf("bucket: delete returned %d", resp.StatusCode)
		}
		return nil
	})
}
