package request //import "github.com/Davidnet/BookWise/internal/http/request"

import (
	"net/http"
)

type ContextKey int

const (
	ClientIPContextKey ContextKey = iota
	AccountIDContextKey
	AccountEmailContextKey
	AccessTokenContextKey
)

func getContextStringValue(r *http.Request, key ContextKey) string {
	if v := r.Context().Value(key); v != nil {
		if value, valid := v.(string); valid {
			return value
		}
	}
	return ""
}

// ClientIP returns the client IP address stored in the context.
func ClientIP(r *http.Request) string {
	return getContextStringValue(r, ClientIPContextKey)
}

// GetAccountID returns the authenticated account, the owner of every book
// the request touches.
func GetAccountID(r *http.Request) string {
	return getContextStringValue(r, AccountIDContextKey)
}

func GetAccountEmail(r *http.Request) string {
	return getContextStringValue(r, AccountEmailContextKey)
}

func GetAccessToken(r *http.Request) string {
	return getContextStringValue(r, AccessTokenContextKey)
}
