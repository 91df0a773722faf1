package core

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
)

const identityGinKey = "identity"

// Authorize runs strategy against every request of the route group it is
// attached to.
//
//   - Authenticated: the identity is attached to the gin and request contexts
//     and the chain continues.
//   - Rejected (or no credentials): 401 with the generic body, chain stops.
//   - Errored: the cause goes to the error pipeline via c.Error; no response
//     is written here.
//
// A panic inside the strategy is treated like Errored.
func Authorize(strategy Strategy, logger *slog.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "authorize", "strategy", strategy.Name())

	return func(c *gin.Context) {
		outcome := verifyRequest(c.Request, strategy)
		if outcome.Kind == OutcomeAuthenticated && outcome.Identity == nil {
			outcome = Rejected()
		}
		AuthAttemptsTotal.WithLabelValues(strategy.Name(), outcome.Kind.String()).Inc()

		switch outcome.Kind {
		case OutcomeErrored:
			_ = c.Error(outcome.Err)
			c.Abort()
		case OutcomeAuthenticated:
			logger.Debug("authentication succeeded", "user_id", outcome.Identity.ID, "path", c.Request.URL.Path)
			c.Set(identityGinKey, outcome.Identity)
			c.Request = c.Request.WithContext(WithIdentity(c.Request.Context(), outcome.Identity))
		default:
			// Not-found and wrong-password are logged identically.
			logger.Warn("authentication rejected", "path", c.Request.URL.Path, "request_id", RequestIDFromGin(c))
			respondUnauthorized(c)
		}
	}
}

func verifyRequest(r *http.Request, strategy Strategy) (outcome AuthOutcome) {
	defer func() {
		if rec := recover(); rec != nil {
			outcome = Errored(fmt.Errorf("%s strategy panicked: %v", strategy.Name(), rec))
		}
	}()

	creds, ok := strategy.Credentials(r)
	if !ok {
		return Rejected()
	}
	return strategy.Verify(r.Context(), creds)
}

// CurrentIdentity returns the identity attached by Authorize, or nil.
func CurrentIdentity(c *gin.Context) *Identity {
	if v, ok := c.Get(identityGinKey); ok {
		if id, ok := v.(*Identity); ok {
			return id
		}
	}
	return IdentityFromContext(c.Request.Context())
}
