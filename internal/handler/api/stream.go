package api

import (
	"net/http"
	"time"

	models "LagScan/internal/domain/models"
	xhttp "LagScan/pkg/http"
	xlogger "LagScan/pkg/logger"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(*http.Request) bool { return true },
}

const streamWriteTimeout = 10 * time.Second

// streamFrame is one websocket message: a result row, or the final frame
// with Done set and the total row count.
type streamFrame struct {
	Pair string       `json:"pair"`
	Row  *lagPointDTO `json:"row,omitempty"`
	Done bool         `json:"done,omitempty"`
	Rows int          `json:"rows,omitempty"`
}

// Stream pushes one pair's full result sequence over a websocket, one row per
// message, then a terminating done frame.
func (h *CorrelationHandler) Stream(c echo.Context) error {
	req := &models.StreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	pair := models.Pair{Base: req.Base, Quote: req.Quote}
	results, ok := h.store.Results(pair)
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("pair %s not processed", pair.Key()))
	}

	conn, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	defer conn.Close()

	for _, r := range results {
		row := toLagPoint(r)
		frame := streamFrame{Pair: pair.Key(), Row: &row}
		_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(frame); err != nil {
			if h.logger != nil {
				h.logger.Warn("stream write failed",
					xlogger.String("pair", pair.Key()),
					xlogger.Error(err),
				)
			}
			return nil
		}
	}

	_ = conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
	_ = conn.WriteJSON(streamFrame{Pair: pair.Key(), Done: true, Rows: len(results)})
	_ = conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return nil
}
