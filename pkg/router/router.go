package router

import (
	"context"
	"net/http"

	"github.com/stridehq/backend/config"
	"github.com/stridehq/backend/pkg/logger"
	"github.com/stridehq/backend/pkg/xcontext"
	"gorm.io/gorm"
)

// HandlerFunc is a business handler. It receives a decoded request object and
// returns the response object or a business error (pkg/errorx).
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It may return a derived context to
// pass values (like the request user id) downstream. A non-nil error aborts
// the request with an error envelope.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response envelope has been written. The error is
// the handler or middleware error, nil on success.
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	mux *http.ServeMux

	cfg    config.Configs
	logger logger.Logger
	db     *gorm.DB

	befores []MiddlewareFunc
	closers []CloserFunc
}

func New(db *gorm.DB, cfg config.Configs, logger logger.Logger) *Router {
	return &Router{
		mux:    http.NewServeMux(),
		cfg:    cfg,
		logger: logger,
		db:     db,
	}
}

// Branch creates a router sharing the same mux but with an independent
// middleware chain, seeded with the parent's.
func (r *Router) Branch() *Router {
	branch := &Router{
		mux:    r.mux,
		cfg:    r.cfg,
		logger: r.logger,
		db:     r.db,
	}
	branch.befores = append(branch.befores, r.befores...)
	branch.closers = append(branch.closers, r.closers...)
	return branch
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.mux
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrapHandler(r, http.MethodPost, handler))
}

func (r *Router) baseContext(req *http.Request, w http.ResponseWriter) context.Context {
	ctx := req.Context()
	ctx = xcontext.WithConfigs(ctx, r.cfg)
	ctx = xcontext.WithLogger(ctx, r.logger)
	ctx = xcontext.WithDB(ctx, r.db)
	ctx = xcontext.WithHTTPRequest(ctx, req)
	ctx = xcontext.WithHTTPWriter(ctx, w)
	return ctx
}
