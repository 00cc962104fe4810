package middleware

import (
	"context"
	"net/http"
	"strings"

	apperrors "rentals/pkg/errors"
	httputil "rentals/pkg/http"
	"rentals/pkg/logger"
	"rentals/pkg/model"

	"github.com/julienschmidt/httprouter"
)

// TokenHeader is the legacy header some clients send the bare token in.
const TokenHeader = "token"

type actorKey struct{}

type TokenVerifier interface {
	Verify(token string) (string, error)
}

type UserLookup interface {
	GetByID(ctx context.Context, id string) (*model.User, error)
}

// Authenticator resolves the caller from a signed token and loads their
// current role from the user store on every request.
type Authenticator struct {
	tokens TokenVerifier
	users  UserLookup
	log    *logger.Logger
}

func NewAuthenticator(tokens TokenVerifier, users UserLookup, log *logger.Logger) *Authenticator {
	return &Authenticator{tokens: tokens, users: users, log: log}
}

func (a *Authenticator) Require(next httprouter.Handle) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		actor, err := a.authenticate(r)
		if err != nil {
			if writeErr := httputil.WriteError(w, err); writeErr != nil {
				a.log.Error("failed to write error response",
					"handler", "Authenticator",
					"operation", "WriteError",
					"error", writeErr,
				)
			}
			return
		}
		next(w, r.WithContext(ContextWithActor(r.Context(), actor)), ps)
	}
}

func (a *Authenticator) authenticate(r *http.Request) (model.Actor, error) {
	token := ExtractToken(r)
	if token == "" {
		return model.Actor{}, apperrors.Unauthorized("Authentication token is required")
	}

	userID, err := a.tokens.Verify(token)
	if err != nil {
		a.log.Debug("token rejected",
			"request_id", logger.RequestIDFromContext(r.Context()),
			"error", err,
		)
		return model.Actor{}, apperrors.Unauthorized("Invalid or expired token")
	}

	user, err := a.users.GetByID(r.Context(), userID)
	if err != nil {
		if apperrors.HasCode(err, apperrors.CodeNotFound) {
			return model.Actor{}, apperrors.Unauthorized("User no longer exists")
		}
		return model.Actor{}, err
	}

	return model.Actor{UserID: user.ID, Role: user.Role}, nil
}

// ExtractToken reads "Authorization: Bearer <token>", falling back to the token header.
func ExtractToken(r *http.Request) string {
	if header := r.Header.Get("Authorization"); header != "" {
		scheme, token, found := strings.Cut(header, " ")
		if found && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	return strings.TrimSpace(r.Header.Get(TokenHeader))
}

func ContextWithActor(ctx context.Context, actor model.Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFromContext(ctx context.Context) (model.Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(model.Actor)
	return actor, ok
}

// MustActor returns the authenticated actor or an Unauthorized error when the
// route was not wrapped by Require.
func MustActor(ctx context.Context) (model.Actor, error) {
	actor, ok := ActorFromContext(ctx)
	if !ok {
		return model.Actor{}, apperrors.Unauthorized("Authentication required")
	}
	return actor, nil
}
