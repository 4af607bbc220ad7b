package v1

import "strings"

var authenticationAllowlist = map[string]bool{
	"/api/v1/signup": true,
	"/api/v1/signin": true,
}

// isUnauthorizeAllowed returns whether the path is exempted from authentication.
// Support the wildcard character *.
func isUnauthorizeAllowed(path string) bool {
	for k := range authenticationAllowlist {
		if strings.HasSuffix(k, "*") {
			if strings.HasPrefix(path, strings.TrimSuffix(k, "*")) {
				return true
			}
		}
	}

	return authenticationAllowlist[path]
}
