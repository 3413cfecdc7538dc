package middleware

import (
	"context"
	"strings"

	"github.com/stridehq/backend/internal/model"
	"github.com/stridehq/backend/pkg/authenticator"
	"github.com/stridehq/backend/pkg/errorx"
	"github.com/stridehq/backend/pkg/router"
	"github.com/stridehq/backend/pkg/xcontext"
)

type AuthVerifier struct {
	tokenEngine authenticator.TokenEngine[model.AccessToken]
}

func NewAuthVerifier(tokenEngine authenticator.TokenEngine[model.AccessToken]) *AuthVerifier {
	return &AuthVerifier{tokenEngine: tokenEngine}
}

// Middleware resolves the bearer token to a user id and stores it in the
// context for the handlers downstream.
func (a *AuthVerifier) Middleware() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		authorization := xcontext.HTTPRequest(ctx).Header.Get("Authorization")
		token, found := strings.CutPrefix(authorization, "Bearer ")
		if !found || token == "" {
			return nil, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		accessToken, err := a.tokenEngine.Verify(token)
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot verify access token: %v", err)
			return nil, errorx.New(errorx.Unauthenticated, "Invalid access token")
		}

		return xcontext.WithRequestUserID(ctx, accessToken.ID), nil
	}
}
