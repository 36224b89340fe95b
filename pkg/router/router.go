package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc handles one endpoint. The request object is already bound from
// the query string (GET) or the JSON body (POST/PATCH) when the handler runs.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before the handler. It can derive a new context (for
// example, attaching the authenticated user id) or reject the request by
// returning an error.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written, with the handler error (nil
// on success).
type CloserFunc func(ctx context.Context, err error)

type Router struct {
	Inner gin.IRouter

	baseCtx context.Context
	befores []MiddlewareFunc
	closers []CloserFunc
}

// New creates a router on top of a base context carrying the database,
// logger, and configs of the process.
func New(ctx context.Context) *Router {
	gin.SetMode(gin.ReleaseMode)
	return &Router{Inner: gin.New(), baseCtx: ctx}
}

// Branch returns a router sharing the underlying engine but with an
// independent middleware chain. Endpoints registered on the branch only run
// the branch's middlewares.
func (r *Router) Branch() *Router {
	return &Router{
		Inner:   r.Inner,
		baseCtx: r.baseCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Handler() http.Handler {
	return r.Inner.(*gin.Engine)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

func PATCH[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.Inner.PATCH(pattern, wrapHandler(r, http.MethodPatch, handler))
}
