package request

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// RouteStringParam returns a URL route parameter as string.
func RouteStringParam(r *http.Request, param string) string {
	vars := mux.Vars(r)
	return strings.TrimSpace(vars[param])
}
