package echoapi

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
)

// streamEvents writes every value of c as a server-sent event until c closes, stop is closed
// or the client leaves.
func streamEvents[T, R any](ctx echo.Context, stop <-chan struct{}, event string, c <-chan T, render func(T) R) error {
	res := ctx.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set("Cache-Control", "no-cache")
	res.Header().Set("Connection", "keep-alive")
	res.WriteHeader(http.StatusOK)
	res.Flush()

	done := ctx.Request().Context().Done()
	for {
		select {
		case <-done:
			return nil
		case <-stop:
			return nil
		case v, ok := <-c:
			if !ok {
				return nil
			}
			data, err := json.Marshal(render(v))
			if err != nil {
				return errors.Wrapf(err, "encoding %s event", event)
			}
			if _, err = fmt.Fprintf(res, "event: %s\ndata: %s\n\n", event, data); err != nil {
				return nil // client gone
			}
			res.Flush()
		}
	}
}
