package middleware

import (
	"context"

	"github.com/stridehq/backend/pkg/router"
	"github.com/stridehq/backend/pkg/xcontext"
)

func setCorsHeaders(ctx context.Context) {
	req := xcontext.HTTPRequest(ctx)
	if req == nil || req.Header.Get("Origin") == "" {
		return
	}

	header := xcontext.HTTPWriter(ctx).Header()
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS, PUT, DELETE")
	header.Set("Access-Control-Allow-Headers",
		"Accept, Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization")
}

// AllowCors writes CORS headers before the handler runs.
func AllowCors() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		setCorsHeaders(ctx)
		return nil, nil
	}
}

// AllowCorsPreflight covers OPTIONS requests, which skip the middleware
// chain and only run closers.
func AllowCorsPreflight() router.CloserFunc {
	return func(ctx context.Context, err error) {
		setCorsHeaders(ctx)
	}
}
