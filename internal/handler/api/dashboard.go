package api

import (
	"context"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"

	"CryptoDash/internal/domain/models"
	xhttp "CryptoDash/pkg/http"
	xlogger "CryptoDash/pkg/logger"
	"CryptoDash/pkg/util"
)

const (
	minStreamInterval = 15 * time.Second
	maxStreamInterval = 10 * time.Minute

	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = (wsPongWait * 9) / 10
)

type DashboardHandler struct {
	logger         *xlogger.Logger
	dashboard      DashboardService
	streamInterval time.Duration
	upgrader       websocket.Upgrader
}

func NewDashboardHandler(logger *xlogger.Logger, dashboard DashboardService, streamInterval time.Duration, allowedOrigins []string) *DashboardHandler {
	return &DashboardHandler{
		logger:         logger,
		dashboard:      dashboard,
		streamInterval: util.ClampDuration(streamInterval, minStreamInterval, maxStreamInterval),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     originChecker(allowedOrigins),
		},
	}
}

// Get always answers 200 once the user exists; provider failures show up as
// fallback sections.
func (h *DashboardHandler) Get(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	d, err := h.dashboard.GetDashboard(c.Request().Context(), id)
	if err != nil {
		appErr := toAppError(err)
		if appErr.Status >= http.StatusInternalServerError {
			h.logger.Error("dashboard usecase error", xlogger.Error(err))
		}
		return xhttp.AppErrorResponse(c, appErr)
	}
	c.Response().Header().Set(echo.HeaderCacheControl, "no-store")
	return xhttp.SuccessResponse(c, d)
}

// Stream pushes a fresh dashboard over a websocket at a fixed interval.
func (h *DashboardHandler) Stream(c echo.Context) error {
	id, err := currentUser(c)
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	req := &models.DashboardStreamRequest{}
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}
	interval := h.streamInterval
	if req.Interval > 0 {
		interval = util.ClampDuration(time.Duration(req.Interval)*time.Second, minStreamInterval, maxStreamInterval)
	}

	// Resolve the first frame before upgrading so a missing user still gets a 404.
	first, err := h.dashboard.GetDashboard(c.Request().Context(), id)
	if err != nil {
		return xhttp.AppErrorResponse(c, toAppError(err))
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", xlogger.Error(err))
		return nil
	}
	defer conn.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go h.readPump(conn, cancel)

	h.logger.Debug("dashboard stream opened",
		xlogger.String("user_id", id.String()), xlogger.Duration("interval", interval))
	h.writeLoop(ctx, conn, id, first, interval)
	return nil
}

// readPump discards client frames and cancels the stream when the peer goes away.
func (h *DashboardHandler) readPump(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()
	conn.SetReadLimit(512)
	_ = conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *DashboardHandler) writeLoop(ctx context.Context, conn *websocket.Conn, id uuid.UUID, first *models.Dashboard, interval time.Duration) {
	refresh := time.NewTicker(interval)
	defer refresh.Stop()
	ping := time.NewTicker(wsPingPeriod)
	defer ping.Stop()

	if err := h.send(conn, first); err != nil {
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-refresh.C:
			d, err := h.dashboard.GetDashboard(ctx, id)
			if err != nil {
				h.logger.Warn("dashboard stream refresh failed", xlogger.Error(err))
				_ = conn.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseInternalServerErr, "refresh failed"))
				return
			}
			if err := h.send(conn, d); err != nil {
				return
			}
		}
	}
}

func (h *DashboardHandler) send(conn *websocket.Conn, d *models.Dashboard) error {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(xhttp.APIResponse{Status: http.StatusOK, Message: http.StatusText(http.StatusOK), Data: d})
}

func originChecker(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return func(*http.Request) bool { return true }
	}
	set := make(map[string]struct{}, len(allowed))
	for _, o := range allowed {
		if o == "*" {
			return func(*http.Request) bool { return true }
		}
		set[o] = struct{}{}
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		_, ok := set[origin]
		return ok
	}
}
