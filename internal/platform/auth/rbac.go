package auth

import (
	"github.com/labstack/echo/v4"

	"github.com/hms/hms/internal/platform/httperr"
)

// Authorize checks the actor against the policy matrix for a concrete record.
// GrantAll passes unconditionally, GrantOwn passes only when the actor owns
// the record, GrantNone always fails.
func Authorize(actor Actor, resource Resource, action Action, owners Owners) error {
	switch Decide(actor.Role, resource, action) {
	case GrantAll:
		return nil
	case GrantOwn:
		if actor.Owns(owners) {
			return nil
		}
	}
	return httperr.Forbidden("")
}

// Require returns route middleware that rejects roles with no grant at all
// for the resource/action pair. Ownership of GrantOwn roles is enforced
// later, in the service, once the record's owning references are known.
func Require(resource Resource, action Action) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			actor, ok := ActorFromContext(c.Request().Context())
			if !ok {
				return httperr.Unauthorized("")
			}
			if Decide(actor.Role, resource, action) == GrantNone {
				return httperr.Forbidden("")
			}
			return next(c)
		}
	}
}
