package controllers

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"dorm-portal/pkg/utils"
	appwebsocket "dorm-portal/pkg/websocket"
)

type WebSocketController struct {
	hub      *appwebsocket.Hub
	upgrader websocket.Upgrader
	logger   *zap.Logger
}

func NewWebSocketController(hub *appwebsocket.Hub, allowedOrigins []string, logger *zap.Logger) *WebSocketController {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}
	return &WebSocketController{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
		logger: logger,
	}
}

// ServeWs вызывается после TokenFromQuery, актор уже в контексте.
func (ctrl *WebSocketController) ServeWs(c echo.Context) error {
	userID, err := utils.GetUserIDFromCtx(c.Request().Context())
	if err != nil {
		return utils.ErrorResponse(c, err, ctrl.logger)
	}

	conn, err := ctrl.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		ctrl.logger.Error("WebSocket: не удалось улучшить соединение", zap.Error(err))
		return nil
	}

	client := appwebsocket.NewClient(ctrl.hub, conn, userID)
	if !ctrl.hub.Add(client) {
		ctrl.logger.Warn("WebSocket: сервер останавливается, соединение закрыто", zap.String("userID", userID.String()))
		conn.Close()
		return nil
	}

	go client.WritePump()
	go client.ReadPump()

	ctrl.logger.Info("WebSocket: клиент подключен", zap.String("userID", userID.String()))
	return nil
}
