package response // import "github.com/Davidnet/BookWise/internal/http/response"

import (
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/Davidnet/BookWise/internal/log"
)

// Builder generates HTTP responses.
type Builder struct {
	w          http.ResponseWriter
	r          *http.Request
	statusCode int
	headers    map[string]string
	body       any
}

// New creates a new response builder.
func New(w http.ResponseWriter, r *http.Request) *Builder {
	return &Builder{w: w, r: r, statusCode: http.StatusOK, headers: make(map[string]string)}
}

// WithStatus uses the given status code to build the response.
func (b *Builder) WithStatus(statusCode int) {
	b.statusCode = statusCode
}

// WithHeader adds a new HTTP header to the response.
func (b *Builder) WithHeader(key, value string) {
	b.headers[key] = value
}

// WithBody uses the given body to build the response, []byte, string,
// error or io.Reader.
func (b *Builder) WithBody(body any) {
	b.body = body
}

// Write generates the HTTP response.
func (b *Builder) Write() {
	b.headers["X-Content-Type-Options"] = "nosniff"
	b.headers["X-Frame-Options"] = "DENY"
	for key, value := range b.headers {
		b.w.Header().Set(key, value)
	}
	b.w.WriteHeader(b.statusCode)

	switch v := b.body.(type) {
	case []byte:
		b.w.Write(v)
	case string:
		b.w.Write([]byte(v))
	case error:
		b.w.Write([]byte(v.Error()))
	case io.Reader:
		if _, err := io.Copy(b.w, v); err != nil {
			log.Error("Unable to write response body", zap.Error(err))
		}
	}
}
