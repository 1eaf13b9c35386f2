// Package storage is a thin client for the binary object host. Its whole
// contract is upload(file, path) -> url and get(url) -> bytes; versioning
// and deletion are not modeled.
package storage

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Client uploads and fetches objects over HTTP.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a storage client rooted at baseURL.
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// ObjectPath builds a collision-free object path for an upload, keeping the
// original extension: prefix/<uuid><ext>.
func ObjectPath(prefix, filename string) string {
	return path.Join(prefix, uuid.NewString()+path.Ext(filename))
}

// Upload stores the object at the given path and returns its public URL.
func (c *Client) Upload(ctx context.Context, r io.Reader, objectPath string) (string, error) {
	url := c.baseURL + "/" + strings.TrimLeft(objectPath, "/")

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, url, r)
	if err != nil {
		return "", err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).WithField("path", objectPath).Error("upload failed")
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		err := fmt.Errorf("upload %s: unexpected status %d", objectPath, resp.StatusCode)
		log.WithField("path", objectPath).Error(err)
		return "", err
	}
	return url, nil
}

// Get fetches the bytes behind a previously returned URL.
func (c *Client) Get(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		log.WithError(err).WithField("url", url).Error("fetch failed")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		err := fmt.Errorf("get %s: unexpected status %d", url, resp.StatusCode)
		log.WithField("url", url).Error(err)
		return nil, err
	}
	return io.ReadAll(resp.Body)
}
