package helpers

import (
	"context"

	"github.com/m3rciful/rentalbot/core/logger"

	tele "gopkg.in/telebot.v4"
)

const (
	contextKey = "logger_ctx"
	ridKey     = "rid"
)

// UpdateMeta identifies the update being handled.
type UpdateMeta struct {
	UpdateID int
	ChatID   int64
	UserID   int64
	RID      string
}

// MetaFrom extracts ids from c. The RID is reused when a middleware already
// assigned one.
func MetaFrom(c tele.Context) UpdateMeta {
	m := UpdateMeta{UpdateID: c.Update().ID}
	if chat := c.Chat(); chat != nil {
		m.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		m.UserID = user.ID
	}
	m.RID, _ = c.Get(ridKey).(string)
	if m.RID == "" {
		m.RID = logger.BuildRID(m.UpdateID, m.ChatID, m.UserID)
	}
	return m
}

// StoreContext caches ctx on c for downstream helpers.
func StoreContext(c tele.Context, ctx context.Context) {
	if c != nil && ctx != nil {
		c.Set(contextKey, ctx)
	}
}

// BuildContext returns the context cached on c, creating one with the
// update metadata and the "tg" logger on first use.
func BuildContext(c tele.Context) context.Context {
	if c == nil {
		return context.Background()
	}
	if ctx, ok := c.Get(contextKey).(context.Context); ok {
		return ctx
	}
	m := MetaFrom(c)
	c.Set(ridKey, m.RID)

	ctx := logger.WithRID(context.Background(), m.RID)
	ctx = logger.WithUpdateMeta(ctx, m.UpdateID, m.UserID, m.ChatID)
	ctx = logger.WithLogger(ctx, logger.Component("tg"))
	StoreContext(c, ctx)
	return ctx
}

// WithHandler tags the cached context with the handler name.
func WithHandler(c tele.Context, handler string) context.Context {
	ctx := BuildContext(c)
	if handler == "" {
		return ctx
	}
	ctx = logger.WithHandler(ctx, handler)
	StoreContext(c, ctx)
	return ctx
}
