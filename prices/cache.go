package prices

import (
	"bufio"
	"bytes"
	"crypto/sha1"
	"fmt"
	"net/http"
	"net/http/httputil"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// DiskCache is an http.RoundTripper keeping successful GET responses on disk.
//
// It is meant for historical market data, that never changes: entries do not
// expire.
type DiskCache struct {
	Dir  string            // where responses are stored, os.TempDir() if empty
	Base http.RoundTripper // http.DefaultTransport if nil
}

// NewCachedClient returns an http client caching responses in dir.
func NewCachedClient(dir string) *http.Client {
	return &http.Client{Transport: &DiskCache{Dir: dir}}
}

func (c *DiskCache) RoundTrip(req *http.Request) (*http.Response, error) {
	if req.Method != http.MethodGet {
		return c.base().RoundTrip(req)
	}
	key := fmt.Sprintf("%x", sha1.Sum([]byte(req.Method+" "+req.URL.String())))

	if resp, err := c.get(key, req); err == nil {
		logrus.WithField("url", req.URL.Path).Debug("cache hit")
		return resp, nil
	}

	resp, err := c.base().RoundTrip(req)
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"url": req.URL.Host + req.URL.Path, "status": resp.Status}).Debug(req.Method)
	if resp.StatusCode >= 300 {
		return resp, nil
	}
	if err := c.put(key, resp); err != nil {
		logrus.WithError(err).Warn("cache write failed (ignored)")
	}
	return resp, nil
}

func (c *DiskCache) base() http.RoundTripper {
	if c.Base == nil {
		return http.DefaultTransport
	}
	return c.Base
}

func (c *DiskCache) file(key string) string {
	dir := c.Dir
	if dir == "" {
		dir = os.TempDir()
	}
	return filepath.Join(dir, key)
}

// get retrieves a cached response from disk.
func (c *DiskCache) get(key string, req *http.Request) (*http.Response, error) {
	content, err := os.ReadFile(c.file(key))
	if err != nil {
		return nil, err
	}
	return http.ReadResponse(bufio.NewReader(bytes.NewReader(content)), req)
}

// put stores a response to disk. The body of resp is still readable after.
func (c *DiskCache) put(key string, resp *http.Response) error {
	content, err := httputil.DumpResponse(resp, true)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(c.file(key)), 0o755); err != nil {
		return err
	}
	return os.WriteFile(c.file(key), content, 0o644)
}
