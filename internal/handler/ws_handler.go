/*
Package handler provides the HTTP handlers and routing setup for the signaling server.

This file contains the websocket upgrade handler: rate limiting, optional
connection-token validation, the upgrade itself, and starting the session pumps.
*/
package handler

import (
	"net"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/skillswap/signaling/internal/app/signal"
	"github.com/skillswap/signaling/internal/pkg/auth/jwt"
	"github.com/skillswap/signaling/internal/pkg/errs"
	"github.com/skillswap/signaling/internal/pkg/limiter"
	"github.com/skillswap/signaling/internal/pkg/logx"
	"github.com/skillswap/signaling/internal/pkg/resp"
)

// HandleWebSocket creates the HandlerFunc processing websocket connection requests.
// When WS_REQUIRE_TOKEN is enabled, the upgrade requires a valid connection
// token ("token" query parameter) and the session is bound to its subject.
func HandleWebSocket(upgrader websocket.Upgrader, rateLimiter *limiter.IPRateLimiter, deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip, _, err := net.SplitHostPort(r.RemoteAddr)
		if err != nil {
			ip = r.RemoteAddr
		}

		if ip == "" {
			ip = "unknown_ip"
		}

		if !rateLimiter.GetLimiter(ip).Allow() {
			logx.Warn("WebSocket connection rejected: Rate limit exceeded.", "ip", ip)
			resp.RespondError(w, r, errs.NewError(errs.ErrRateLimitExceeded))
			return
		}

		boundUserID := ""
		if deps.Config.WSRequireToken {
			tokenString := r.URL.Query().Get("token")
			if tokenString == "" {
				logx.Warn("WebSocket connection rejected: Missing connection token.")
				resp.RespondError(w, r, errs.NewError(errs.ErrTokenRequired))
				return
			}

			claims, err := jwt.ParseToken(tokenString, deps.Config.JWTSecret)
			if err != nil {
				logx.Warn("WebSocket connection rejected: Invalid connection token.", "error", err.Error())
				resp.RespondError(w, r, errs.NewError(errs.ErrTokenInvalid))
				return
			}
			boundUserID = claims.UserID
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logx.Error(err, "Failed to upgrade connection to WebSocket")
			return
		}

		session := signal.NewSession(deps.Hub, conn, boundUserID)
		deps.Hub.Attach(session)

		go session.WritePump()

		logx.Info("WebSocket connection established", "endpoint_id", session.ID())

		session.ReadPump()
	}
}
