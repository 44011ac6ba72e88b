package middleware

import (
	"bytes"
	"net/http"

	"github.com/dmaher/shoplite/internal/cache"
)

// ResponseCache serves repeated GETs from an in-process cache. Only GET
// responses with status 200 are stored; everything else passes through.
// The key must include the merchant id so tenants never see each other's
// responses — KeyFunc is responsible for that.
type ResponseCache struct {
	Store   *cache.Store[[]byte]
	KeyFunc func(r *http.Request) string
}

// capture buffers the response so a successful body can be cached after the
// handler returns.
type capture struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (c *capture) WriteHeader(status int) {
	c.status = status
	c.ResponseWriter.WriteHeader(status)
}

func (c *capture) Write(b []byte) (int, error) {
	if c.status == http.StatusOK {
		c.buf.Write(b)
	}
	return c.ResponseWriter.Write(b)
}

// Wrap is the middleware. Hits are replayed verbatim with X-Cache: HIT;
// misses run the handler and store the body with the default TTL.
func (rc *ResponseCache) Wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}
		key := rc.KeyFunc(r)

		if body, ok := rc.Store.Get(key); ok {
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			_, _ = w.Write(body)
			return
		}

		w.Header().Set("X-Cache", "MISS")
		cw := &capture{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(cw, r)

		if cw.status == http.StatusOK && cw.buf.Len() > 0 {
			rc.Store.Set(key, cw.buf.Bytes())
		}
	})
}
