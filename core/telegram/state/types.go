package state

import tele "gopkg.in/telebot.v4"

// Key identifies a conversation: one user in one chat.
type Key struct {
	ChatID int64
	UserID int64
}

// KeyFrom derives the conversation key from an update.
func KeyFrom(c tele.Context) Key {
	var k Key
	if chat := c.Chat(); chat != nil {
		k.ChatID = chat.ID
	}
	if user := c.Sender(); user != nil {
		k.UserID = user.ID
	}
	return k
}

// Store keeps one session value per conversation.
type Store[S any] interface {
	Get(key Key) (S, bool)
	Put(key Key, session S)
	Delete(key Key)
	Len() int
}
