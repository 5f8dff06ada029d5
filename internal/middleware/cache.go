package middleware

import (
    "bytes"
    "context"
    "crypto/sha1"
    "fmt"
    "net/http"

    "github.com/labstack/echo/v4"
    "github.com/redis/go-redis/v9"

    "github.com/cineseat/ticketing/internal/config"
)

// bodyCapture tees the response body into a buffer, up to limit bytes, while
// forwarding to the client.  Oversized bodies are still served but not cached.
type bodyCapture struct {
    http.ResponseWriter
    status   int
    buf      bytes.Buffer
    size     int
    limit    int
    overflow bool
}

func (w *bodyCapture) WriteHeader(code int) {
    w.status = code
    w.ResponseWriter.WriteHeader(code)
}

func (w *bodyCapture) Write(b []byte) (int, error) {
    w.size += len(b)
    if w.limit > 0 && w.size > w.limit {
        w.overflow = true
    } else {
        w.buf.Write(b)
    }
    return w.ResponseWriter.Write(b)
}

// NewSeatMapCache caches successful GET responses in Redis for a short TTL.
// It is meant for the public show and seat-map reads, which hammer the same
// rows during on-sale windows.  The TTL is the staleness bound: a seat freed
// or claimed elsewhere may be misreported for at most that long, and the
// booking path re-checks availability inside its own transaction anyway.
func NewSeatMapCache(cfg config.CacheConfig, rdb *redis.Client) echo.MiddlewareFunc {
    if !cfg.Enabled || rdb == nil {
        return passthrough
    }

    return func(next echo.HandlerFunc) echo.HandlerFunc {
        return func(c echo.Context) error {
            if c.Request().Method != http.MethodGet {
                return next(c)
            }

            key := cacheKey(cfg.Prefix, c)
            ctx := c.Request().Context()

            if body, err := rdb.Get(ctx, key).Bytes(); err == nil {
                c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
                c.Response().Header().Set("X-Cache", "HIT")
                c.Response().WriteHeader(http.StatusOK)
                _, _ = c.Response().Write(body)
                return nil
            }

            cw := &bodyCapture{ResponseWriter: c.Response().Writer, status: http.StatusOK, limit: cfg.MaxBody}
            c.Response().Writer = cw
            c.Response().Header().Set("X-Cache", "MISS")

            if err := next(c); err != nil {
                return err
            }

            if cw.status == http.StatusOK && !cw.overflow && cw.buf.Len() > 0 {
                // request context may be done once the response is written
                _ = rdb.SetEx(context.Background(), key, cw.buf.Bytes(), cfg.TTL).Err()
            }
            return nil
        }
    }
}

// cacheKey hashes route + path params + query so distinct shows never share an
// entry.
func cacheKey(prefix string, c echo.Context) string {
    h := sha1.New()
    fmt.Fprint(h, c.Path())
    for _, name := range c.ParamNames() {
        fmt.Fprintf(h, "|%s=%s", name, c.Param(name))
    }
    fmt.Fprintf(h, "|%s", c.Request().URL.RawQuery)
    return fmt.Sprintf("%s:%x", prefix, h.Sum(nil))
}
