package middleware

import (
	"log/slog"

	"github.com/m3rciful/rentalbot/core/logger"
	tghelpers "github.com/m3rciful/rentalbot/core/telegram/helpers"

	tele "gopkg.in/telebot.v4"
)

// AdminOptions configures AdminOnlyMiddleware.
type AdminOptions struct {
	AdminID  int64
	OnReject tele.HandlerFunc
}

// AdminOnlyMiddleware passes only updates sent by AdminID. An unset admin
// (zero) rejects everyone.
func AdminOnlyMiddleware(opts AdminOptions) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			if isAdmin(c.Sender(), opts.AdminID) {
				return next(c)
			}
			logger.Info(tghelpers.BuildContext(c), "tg", "admin.reject",
				slog.Bool("admin_configured", opts.AdminID != 0),
			)
			if opts.OnReject != nil {
				return opts.OnReject(c)
			}
			return nil
		}
	}
}

func isAdmin(user *tele.User, adminID int64) bool {
	return adminID != 0 && user != nil && user.ID == adminID
}
