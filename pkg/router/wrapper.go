package router

import (
	"encoding/json"
	"io"
	"net/http"
	"reflect"
	"strconv"

	"github.com/stridehq/backend/pkg/errorx"
)

func wrapHandler[Request, Response any](
	r *Router,
	method string,
	handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		ctx := r.baseContext(req, w)

		if req.Method == http.MethodOptions {
			// Preflight. Closers still run so CORS headers are written.
			for _, closer := range r.closers {
				closer(ctx, nil)
			}
			return
		}

		if req.Method != method {
			writeError(w, errorx.New(errorx.BadRequest, "Method not allowed"))
			return
		}

		err := func() error {
			for _, middleware := range r.befores {
				newCtx, err := middleware(ctx)
				if err != nil {
					return err
				}
				if newCtx != nil {
					ctx = newCtx
				}
			}

			var request Request
			if err := bindRequest(req, method, &request); err != nil {
				return errorx.New(errorx.BadRequest, "Cannot parse the request")
			}

			resp, err := handler(ctx, &request)
			if err != nil {
				return err
			}

			return writeResponse(w, resp)
		}()

		if err != nil {
			writeError(w, err)
		}

		for _, closer := range r.closers {
			closer(ctx, err)
		}
	}
}

// bindRequest decodes GET requests from query parameters using json tags, and
// POST requests from the JSON body.
func bindRequest(req *http.Request, method string, request any) error {
	if method == http.MethodGet {
		v := reflect.ValueOf(request).Elem()
		for i := 0; i < v.NumField(); i++ {
			name := v.Type().Field(i).Tag.Get("json")
			queryVal := req.URL.Query().Get(name)
			if queryVal == "" {
				continue
			}

			switch v.Field(i).Kind() {
			case reflect.String:
				v.Field(i).SetString(queryVal)
			case reflect.Int, reflect.Int64:
				n, err := strconv.ParseInt(queryVal, 10, 64)
				if err != nil {
					return err
				}
				v.Field(i).SetInt(n)
			case reflect.Bool:
				b, err := strconv.ParseBool(queryVal)
				if err != nil {
					return err
				}
				v.Field(i).SetBool(b)
			}
		}
		return nil
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return err
	}

	if len(body) == 0 {
		return nil
	}

	return json.Unmarshal(body, request)
}
