package services

import (
	"net/http"
	"strings"
)

// IdentityProvider liefert die Identität des Aufrufers einer Anfrage.
// Session-Handling liegt vollständig beim vorgelagerten Auth-Provider; die
// Pipeline kennt nur diese minimale Fähigkeit.
type IdentityProvider interface {
	// CallerID gibt die Aufrufer-ID zurück, oder false wenn die Anfrage
	// nicht authentifiziert ist.
	CallerID(r *http.Request) (string, bool)
}

// HeaderIdentity liest die vom Auth-Proxy gesetzte User-ID aus einem
// Request-Header (Default: X-User-ID).
type HeaderIdentity struct {
	Header string
}

// CallerID implementiert IdentityProvider.
func (h HeaderIdentity) CallerID(r *http.Request) (string, bool) {
	header := h.Header
	if header == "" {
		header = "X-User-ID"
	}
	id := strings.TrimSpace(r.Header.Get(header))
	return id, id != ""
}
