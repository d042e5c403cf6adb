package interfaces

import "net/http"

// HTTPHandler is what the transport layer exposes to cmd/server.
type HTTPHandler interface {
	http.Handler
}
