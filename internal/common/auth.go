package common

import (
	"crypto/subtle"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const BasicAuthRealm = "Restricted"

// NewBasicAuthGuard admits a request only if both the username and the password
// match the configured pair. Failures answer 401 with a Basic challenge.
func NewBasicAuthGuard(username, password string) echo.MiddlewareFunc {
	return middleware.BasicAuthWithConfig(middleware.BasicAuthConfig{
		Realm: BasicAuthRealm,
		Validator: func(u, p string, _ echo.Context) (bool, error) {
			userMatch := subtle.ConstantTimeCompare([]byte(u), []byte(username)) == 1
			passMatch := subtle.ConstantTimeCompare([]byte(p), []byte(password)) == 1
			return userMatch && passMatch, nil
		},
	})
}
