package router

import (
	"log/slog"
	"sort"

	"github.com/m3rciful/rentalbot/core/logger"
	tg "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/middleware"

	tele "gopkg.in/telebot.v4"
)

// CommandRouteOptions configures how commands are wrapped and exposed.
type CommandRouteOptions struct {
	AdminID       int64
	OnAdminReject tele.HandlerFunc
}

// CommandRoutes turns every registered command into a route. Admin-only
// commands are guarded before logging so rejected calls never reach the handler.
func CommandRoutes(reg *tg.Registry, opts CommandRouteOptions) []tg.Route {
	if reg == nil {
		return nil
	}
	guard := middleware.AdminOnlyMiddleware(middleware.AdminOptions{
		AdminID:  opts.AdminID,
		OnReject: opts.OnAdminReject,
	})

	defs := reg.Commands()
	names := make([]string, 0, len(defs))
	for name := range defs {
		names = append(names, name)
	}
	sort.Strings(names)

	routes := make([]tg.Route, 0, len(names))
	admin := 0
	for _, name := range names {
		def := defs[name]
		h := middleware.LoggerMiddleware(middleware.RecoverMiddleware(def.Handler))
		if def.AdminOnly {
			h = guard(h)
			admin++
		}
		routes = append(routes, tg.Route{Endpoint: name, Handler: h})
	}

	logger.Info(logger.Background(), "tg.wire", "complete",
		slog.Int("commands", len(routes)),
		slog.Int("admin_commands", admin),
		slog.Int("callbacks", len(reg.ListCallbacks())),
	)
	return routes
}
