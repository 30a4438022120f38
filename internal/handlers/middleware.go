package handlers

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	chimid "github.com/go-chi/chi/v5/middleware"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// WriteJSON writes a JSON response with the given status code
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// AccessLog emits one "http.access" record per request.
func AccessLog(log *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rw, r)

			lvl := slog.LevelInfo
			switch {
			case rw.status >= 500:
				lvl = slog.LevelError
			case rw.status >= 400:
				lvl = slog.LevelWarn
			case r.URL.Path == "/healthz":
				lvl = slog.LevelDebug
			}
			log.LogAttrs(r.Context(), lvl, "http.access",
				slog.Int("status", rw.status),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("ip", ClientIP(r)),
				slog.String("req_id", chimid.GetReqID(r.Context())),
				slog.Duration("latency", time.Since(start)),
			)
		})
	}
}

var (
	gzipPool sync.Pool
	zstdPool sync.Pool
)

func getGzipWriter(w io.Writer) *gzip.Writer {
	if v := gzipPool.Get(); v != nil {
		gw := v.(*gzip.Writer)
		gw.Reset(w)
		return gw
	}
	gw, _ := gzip.NewWriterLevel(w, gzip.DefaultCompression)
	return gw
}

func getZstdWriter(w io.Writer) (*zstd.Encoder, error) {
	if v := zstdPool.Get(); v != nil {
		zw := v.(*zstd.Encoder)
		zw.Reset(w)
		return zw, nil
	}
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedFastest), zstd.WithEncoderConcurrency(1))
}

type compressWriter struct {
	http.ResponseWriter
	w        io.Writer
	disabled bool
}

func (cw *compressWriter) WriteHeader(code int) {
	cw.Header().Del("Content-Length")
	// 204/304/1xx carry no body.
	if (code >= 100 && code < 200) || code == http.StatusNoContent || code == http.StatusNotModified {
		cw.disabled = true
		cw.Header().Del("Content-Encoding")
	}
	cw.ResponseWriter.WriteHeader(code)
}

func (cw *compressWriter) Write(b []byte) (int, error) {
	if cw.disabled {
		return cw.ResponseWriter.Write(b)
	}
	cw.Header().Del("Content-Length")
	if cw.Header().Get("Content-Type") == "" {
		cw.Header().Set("Content-Type", http.DetectContentType(b))
	}
	return cw.w.Write(b)
}

// Compress encodes responses with zstd or gzip when the client accepts it.
func Compress(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodHead || w.Header().Get("Content-Encoding") != "" {
			next.ServeHTTP(w, r)
			return
		}
		accept := r.Header.Get("Accept-Encoding")

		switch {
		case strings.Contains(accept, "zstd"):
			zw, err := getZstdWriter(w)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}
			w.Header().Set("Content-Encoding", "zstd")
			w.Header().Add("Vary", "Accept-Encoding")
			cw := &compressWriter{ResponseWriter: w, w: zw}
			defer func() {
				if cw.disabled {
					zw.Reset(io.Discard)
				}
				_ = zw.Close()
				zstdPool.Put(zw)
			}()
			next.ServeHTTP(cw, r)

		case strings.Contains(accept, "gzip"):
			gw := getGzipWriter(w)
			w.Header().Set("Content-Encoding", "gzip")
			w.Header().Add("Vary", "Accept-Encoding")
			cw := &compressWriter{ResponseWriter: w, w: gw}
			defer func() {
				if cw.disabled {
					gw.Reset(io.Discard)
				}
				_ = gw.Close()
				gzipPool.Put(gw)
			}()
			next.ServeHTTP(cw, r)

		default:
			next.ServeHTTP(w, r)
		}
	})
}
