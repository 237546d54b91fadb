package web

import (
	"io"
	"net/http"

	"github.com/gorilla/handlers"
)

// WithMiddleware adds CORS for browser clients and writes an access log line
// per request to out.
func WithMiddleware(h http.Handler, out io.Writer) http.Handler {
	cors := handlers.CORS(
		handlers.AllowedOrigins([]string{"*"}),
		handlers.AllowedMethods([]string{"GET", "POST", "OPTIONS"}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return handlers.LoggingHandler(out, cors(h))
}
