package contracts

import (
	"rentals/pkg/middleware"

	"github.com/julienschmidt/httprouter"
)

// Handler registers a domain's routes. Routes that need a caller are wrapped
// with auth.Require.
type Handler interface {
	RegisterRoutes(router *httprouter.Router, auth *middleware.Authenticator)
}
