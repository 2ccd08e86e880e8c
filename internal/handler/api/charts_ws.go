package api

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"Natalis/internal/domain/models"
	"Natalis/internal/usecase"
	"Natalis/pkg/errors"
	xhttp "Natalis/pkg/http"
	xlogger "Natalis/pkg/logger"
)

// Frame types of the chart session protocol.
const (
	FrameChart   = "chart"
	FrameAnalyze = "analyze"
	FrameResult  = "result"
	FrameError   = "error"
)

// WSRequest is one client frame. Exactly one of Chart and Analyze is set,
// matching Type.
type WSRequest struct {
	Type    string                 `json:"type"`
	ID      string                 `json:"id,omitempty"`
	Chart   *models.ChartRequest   `json:"chart,omitempty"`
	Analyze *models.AnalyzeRequest `json:"analyze,omitempty"`
}

// WSResponse answers one frame, echoing its ID.
type WSResponse struct {
	Type   string      `json:"type"`
	ID     string      `json:"id,omitempty"`
	Status int         `json:"status"`
	Data   interface{} `json:"data,omitempty"`
	Errors interface{} `json:"errors,omitempty"`
}

// ChartsWSHandler keeps a websocket session open and answers chart frames
// in order.
type ChartsWSHandler struct {
	logger       *xlogger.Logger
	charts       *usecase.ChartService
	upgrader     websocket.Upgrader
	pingInterval time.Duration
	writeWait    time.Duration
	readLimit    int64
}

func NewChartsWSHandler(logger *xlogger.Logger, charts *usecase.ChartService, allowedOrigins []string) *ChartsWSHandler {
	if logger == nil {
		logger = xlogger.Nop()
	}
	return &ChartsWSHandler{
		logger: logger,
		charts: charts,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 16384,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		pingInterval: 30 * time.Second,
		writeWait:    10 * time.Second,
		readLimit:    1 << 20,
	}
}

func (h *ChartsWSHandler) RegisterRoutes(e *echo.Echo) {
	e.GET("/ws/charts", h.Serve)
}

// Serve upgrades the connection and runs the session until the client
// disconnects or stops answering pings.
func (h *ChartsWSHandler) Serve(c echo.Context) error {
	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("ws: upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(c.Request().Context())
	ctx = usecase.WithCall(ctx, usecase.Call{
		Source:        models.SourceWebSocket,
		Authorization: c.Request().Header.Get(echo.HeaderAuthorization),
	})

	pongWait := 2 * h.pingInterval
	conn.SetReadLimit(h.readLimit)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(h.pingInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(h.writeWait)); err != nil {
					return
				}
			}
		}
	}()
	defer func() {
		cancel()
		wg.Wait()
	}()

	h.logger.Debug("ws: session opened", xlogger.String("remote_ip", c.RealIP()))
	for {
		_, b, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.logger.Warn("ws: read failed", xlogger.Error(err))
			}
			return nil
		}
		resp := h.handle(ctx, b)
		_ = conn.SetWriteDeadline(time.Now().Add(h.writeWait))
		if err := conn.WriteJSON(resp); err != nil {
			h.logger.Warn("ws: write failed", xlogger.Error(err))
			return nil
		}
	}
}

func (h *ChartsWSHandler) handle(ctx context.Context, b []byte) WSResponse {
	var req WSRequest
	if err := json.Unmarshal(b, &req); err != nil {
		return errorFrame("", xhttp.BadRequestError("frame is not valid JSON"))
	}

	var (
		res *models.ChartResponse
		err error
	)
	switch req.Type {
	case FrameChart:
		if req.Chart == nil {
			return errorFrame(req.ID, xhttp.BadRequestError("chart frame without chart request"))
		}
		if verr := validate(ctx, req.Chart); verr != nil {
			return WSResponse{Type: FrameError, ID: req.ID, Status: http.StatusBadRequest, Errors: verr}
		}
		res, err = h.charts.Build(ctx, *req.Chart)
	case FrameAnalyze:
		if req.Analyze == nil {
			return errorFrame(req.ID, xhttp.BadRequestError("analyze frame without analyze request"))
		}
		if verr := validate(ctx, req.Analyze); verr != nil {
			return WSResponse{Type: FrameError, ID: req.ID, Status: http.StatusBadRequest, Errors: verr}
		}
		res, err = h.charts.Analyze(ctx, *req.Analyze)
	default:
		return errorFrame(req.ID, xhttp.BadRequestErrorf("unknown frame type %q", req.Type))
	}

	if err != nil {
		return errorFrame(req.ID, toAppError(err))
	}
	return WSResponse{Type: FrameResult, ID: req.ID, Status: http.StatusOK, Data: res}
}

func validate(ctx context.Context, req interface{}) []xhttp.ValidationError {
	err := xhttp.ValidateStruct(ctx, req)
	if err == nil {
		return nil
	}
	var verrs xhttp.ValidationErrors
	if errors.As(err, &verrs) {
		return verrs
	}
	return []xhttp.ValidationError{{Code: "ERR_UNKNOWN", Message: err.Error()}}
}

func errorFrame(id string, appErr *xhttp.AppError) WSResponse {
	return WSResponse{Type: FrameError, ID: id, Status: appErr.Status, Errors: []*xhttp.AppError{appErr}}
}

func originChecker(allowed []string) func(*http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || strings.EqualFold(o, origin) {
				return true
			}
		}
		return false
	}
}
