package jwtgin

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/devtoolbox/jwtinspect"
	"github.com/devtoolbox/jwtinspect/core"
)

// DefaultDecodedKey is the gin context key the decoded token is stored under.
const DefaultDecodedKey = "jwt"

var (
	ErrMissingDecoded = errors.New("no decoded JWT found in context")
	ErrInvalidDecoded = errors.New("invalid decoded JWT type")
)

type ginMiddlewareConfig struct {
	errorHandler func(*gin.Context, error)
	contextKey   string
}

// NewGinMiddleware adapts an Inspector to gin. Decoded tokens are stored on
// the gin context under the configured key and in the request context.
func NewGinMiddleware(inspector *jwtinspect.Inspector, opts ...Option) gin.HandlerFunc {
	config := &ginMiddlewareConfig{
		errorHandler: defaultGinErrorHandler,
		contextKey:   DefaultDecodedKey,
	}

	for _, opt := range opts {
		opt(config)
	}

	return func(c *gin.Context) {
		onError := func(_ http.ResponseWriter, _ *http.Request, err error) {
			config.errorHandler(c, err)
		}

		encounteredError := true
		var handler http.HandlerFunc = func(w http.ResponseWriter, r *http.Request) {
			encounteredError = false
			c.Request = r

			if decoded, err := core.GetDecoded[*core.DecodedJWT](r.Context()); err == nil {
				c.Set(config.contextKey, decoded)
			}

			c.Next()
		}

		inspector.CheckJWTWithErrorHandler(handler, onError).ServeHTTP(c.Writer, c.Request)

		if encounteredError {
			c.Abort()
		}
	}
}

func defaultGinErrorHandler(c *gin.Context, err error) {
	status, body := jwtinspect.StatusOf(err)
	if status == http.StatusUnauthorized {
		c.Header("WWW-Authenticate", jwtinspect.BearerChallenge(body))
	}
	c.AbortWithStatusJSON(status, body)
}

// GetDecoded returns the token stored by NewGinMiddleware. An empty
// contextKey means DefaultDecodedKey.
func GetDecoded(c *gin.Context, contextKey string) (*core.DecodedJWT, error) {
	if contextKey == "" {
		contextKey = DefaultDecodedKey
	}
	value, exists := c.Get(contextKey)
	if !exists {
		return nil, ErrMissingDecoded
	}

	decoded, ok := value.(*core.DecodedJWT)
	if !ok {
		return nil, ErrInvalidDecoded
	}

	return decoded, nil
}

// DecodeHandler serves the inspector's decode endpoint from a gin route.
func DecodeHandler(inspector *jwtinspect.Inspector) gin.HandlerFunc {
	return gin.WrapH(inspector.DecodeHandler())
}
