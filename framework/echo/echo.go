package jwtecho

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/devtoolbox/jwtinspect"
	"github.com/devtoolbox/jwtinspect/core"
)

// DefaultDecodedKey is the echo context key the decoded token is stored under.
var DefaultDecodedKey = "jwt"

// echoMiddlewareConfig holds all configuration for the middleware
type echoMiddlewareConfig struct {
	errorHandler func(echo.Context, error) error
	contextKey   string
}

// NewEchoMiddleware adapts an Inspector to echo.
func NewEchoMiddleware(inspector *jwtinspect.Inspector, opts ...Option) echo.MiddlewareFunc {
	config := &echoMiddlewareConfig{
		errorHandler: defaultEchoErrorHandler,
		contextKey:   DefaultDecodedKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			var result error
			onError := func(_ http.ResponseWriter, _ *http.Request, err error) {
				result = config.errorHandler(c, err)
			}

			var handler http.HandlerFunc = func(_ http.ResponseWriter, r *http.Request) {
				c.SetRequest(r)

				// Store the token in the echo context if decoding succeeded
				if decoded, err := core.GetDecoded[*core.DecodedJWT](r.Context()); err == nil {
					c.Set(config.contextKey, decoded)
				}

				result = next(c)
			}

			inspector.CheckJWTWithErrorHandler(handler, onError).ServeHTTP(c.Response(), c.Request())
			return result
		}
	}
}

func defaultEchoErrorHandler(c echo.Context, err error) error {
	status, body := jwtinspect.StatusOf(err)
	if status == http.StatusUnauthorized {
		c.Response().Header().Set("WWW-Authenticate", jwtinspect.BearerChallenge(body))
	}
	return c.JSON(status, body)
}

// GetDecoded extracts the decoded token from the echo context.
func GetDecoded(c echo.Context, contextKey string) (*core.DecodedJWT, bool) {
	if contextKey == "" {
		contextKey = DefaultDecodedKey
	}
	value := c.Get(contextKey)
	if value == nil {
		return nil, false
	}

	decoded, ok := value.(*core.DecodedJWT)
	return decoded, ok
}

// DecodeHandler serves the inspector's decode endpoint from an echo route.
func DecodeHandler(inspector *jwtinspect.Inspector) echo.HandlerFunc {
	return echo.WrapHandler(inspector.DecodeHandler())
}
