package router

import (
	"net/http"

	"github.com/changemaker-lab/backend/pkg/errorx"
	"github.com/changemaker-lab/backend/pkg/xcontext"
	"github.com/gin-gonic/gin"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(gctx *gin.Context) {
		var req Request
		var err error
		switch method {
		case http.MethodGet:
			err = gctx.ShouldBindQuery(&req)
		default:
			if gctx.Request.ContentLength > 0 {
				err = gctx.ShouldBindJSON(&req)
			}
		}

		ctx := xcontext.WithHTTPRequest(r.baseCtx, gctx.Request)
		if err != nil {
			writeResponse(gctx, newErrorResponse(errorx.New(errorx.BadRequest, "Cannot bind the request")))
			return
		}

		err = func() error {
			for _, middleware := range r.befores {
				ctx, err = middleware(ctx)
				if err != nil {
					return err
				}
			}

			resp, err := handler(ctx, &req)
			if err != nil {
				return err
			}

			writeResponse(gctx, newResponse(resp))
			return nil
		}()

		if err != nil {
			writeResponse(gctx, newErrorResponse(err))
		}

		for _, closer := range r.closers {
			closer(ctx, err)
		}
	}
}
