package web

import (
	"net/http"
	"strings"
	"time"

	"github.com/andybalholm/brotli"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rubiane-edu/finedu-web/internal/backend"
	"github.com/rubiane-edu/finedu-web/internal/config"
	"github.com/rubiane-edu/finedu-web/internal/session"
)

const (
	sessionKey      = "session"
	initialTokenKey = "session_token"
	requestIDKey    = "request_id"
)

// recoveryMiddleware handles panics
func recoveryMiddleware(cfg *config.Config, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("request_id", c.GetString(requestIDKey)).Msg("Panic recovered")
				c.HTML(http.StatusInternalServerError, "error.html", view{
					Title: "Erro",
					Site:  cfg.Site,
					Data:  errorPage{Status: http.StatusInternalServerError, Message: "Ocorreu um erro inesperado"},
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// requestIDMiddleware tags each request with an id, reusing the caller's
func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.New().String()
		}
		c.Set(requestIDKey, id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("request_id", c.GetString(requestIDKey)).
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// corsMiddleware handles CORS
func corsMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", cfg.Site.URL)
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, X-Request-ID")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}

// sessionMiddleware attaches an unresolved session built from the cookie
func sessionMiddleware(store *session.Store, provider backend.Provider, log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := store.Token(c.Request)
		c.Set(initialTokenKey, token)
		c.Set(sessionKey, session.New(token, provider, log))
		c.Next()
	}
}

// brotliWriter compresses the body. The encoder is created on the first
// write so empty responses go out untouched.
type brotliWriter struct {
	gin.ResponseWriter
	enc *brotli.Writer
}

func (w *brotliWriter) Write(p []byte) (int, error) {
	if w.enc == nil {
		h := w.Header()
		h.Del("Content-Length")
		h.Set("Content-Encoding", "br")
		h.Add("Vary", "Accept-Encoding")
		w.enc = brotli.NewWriterLevel(w.ResponseWriter, brotli.DefaultCompression)
	}
	return w.enc.Write(p)
}

func (w *brotliWriter) WriteString(s string) (int, error) {
	return w.Write([]byte(s))
}

func (w *brotliWriter) close() error {
	if w.enc == nil {
		return nil
	}
	return w.enc.Close()
}

// brotliMiddleware compresses responses for clients accepting br
func brotliMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !strings.Contains(c.GetHeader("Accept-Encoding"), "br") {
			c.Next()
			return
		}

		w := &brotliWriter{ResponseWriter: c.Writer}
		c.Writer = w
		defer func() {
			if err := w.close(); err != nil {
				log.Debug().Err(err).Msg("Failed to finish compressed response")
			}
			c.Writer = w.ResponseWriter
		}()
		c.Next()
	}
}
