package router

import (
	"github.com/Yulia-Kablukova/runenburg/core/logger"
	tg "github.com/Yulia-Kablukova/runenburg/core/telegram"
	"github.com/Yulia-Kablukova/runenburg/core/telegram/middleware"
	"log/slog"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	SupportIDs    []int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes prepares command handlers wrapped with shared middleware.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}

	accessOpts := middleware.AccessOptions{
		AdminID:    opts.AdminID,
		SupportIDs: opts.SupportIDs,
		OnReject:   opts.OnAdminReject,
	}

	routes := make([]tg.Route, 0, len(reg.Commands()))
	for cmd, def := range reg.Commands() {
		h := def.Handler
		h = middleware.RecoverMiddleware(h)
		h = middleware.LoggerMiddleware(h)
		switch {
		case def.AdminOnly:
			h = middleware.AdminOnlyMiddleware(accessOpts)(h)
		case def.StaffOnly:
			h = middleware.StaffOnlyMiddleware(accessOpts)(h)
		}
		routes = append(routes, tg.Route{
			Endpoint: cmd,
			Handler:  h,
		})
	}

	logger.TWire.Info("tg.wire",
		slog.String("event", "complete"),
		slog.Int("commands", len(reg.Commands())),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)

	return routes
}
