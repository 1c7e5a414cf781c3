package middleware

import tele "gopkg.in/telebot.v4"

const countersKey = "reply_counters"

// replyCounters accumulates what a handler sent back for one update.
type replyCounters struct {
	messages int
	keyboard bool
}

// UpdateObserver receives the update kind and reply count once a handler returns.
type UpdateObserver func(kind string, messages int, err error)

// MessageMetrics counts successful replies made through the context and
// reports them to observe, which may be nil.
func MessageMetrics(observe UpdateObserver) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			counters := &replyCounters{}
			c.Set(countersKey, counters)
			err := next(countingContext{Context: c, counters: counters})
			if observe != nil {
				observe(UpdateKind(c.Update()), counters.messages, err)
			}
			return err
		}
	}
}

// GetCounters returns the reply count and whether any reply carried a keyboard.
func GetCounters(c tele.Context) (int, bool) {
	if rc, ok := c.Get(countersKey).(*replyCounters); ok {
		return rc.messages, rc.keyboard
	}
	return 0, false
}

// UpdateKind classifies an update for rate limiting, logging and metrics.
func UpdateKind(upd tele.Update) string {
	switch msg := upd.Message; {
	case upd.Callback != nil:
		return "callback"
	case msg != nil && msg.Photo != nil:
		return "photo"
	case msg != nil && msg.Document != nil:
		return "document"
	case msg != nil:
		return "message"
	case upd.Query != nil:
		return "inline_query"
	}
	return "other"
}

// countingContext intercepts the reply methods of tele.Context.
type countingContext struct {
	tele.Context
	counters *replyCounters
}

func (m countingContext) track(err error, opts []any) error {
	if err != nil {
		return err
	}
	m.counters.messages++
	for _, o := range opts {
		switch v := o.(type) {
		case *tele.SendOptions:
			m.counters.keyboard = m.counters.keyboard || (v != nil && v.ReplyMarkup != nil)
		case *tele.ReplyMarkup:
			m.counters.keyboard = m.counters.keyboard || v != nil
		}
	}
	return nil
}

func (m countingContext) Send(what any, opts ...any) error {
	return m.track(m.Context.Send(what, opts...), opts)
}

func (m countingContext) Reply(what any, opts ...any) error {
	return m.track(m.Context.Reply(what, opts...), opts)
}

func (m countingContext) Edit(what any, opts ...any) error {
	return m.track(m.Context.Edit(what, opts...), opts)
}

func (m countingContext) EditOrSend(what any, opts ...any) error {
	return m.track(m.Context.EditOrSend(what, opts...), opts)
}

func (m countingContext) EditOrReply(what any, opts ...any) error {
	return m.track(m.Context.EditOrReply(what, opts...), opts)
}
