package intake

import (
	"github.com/m3rciful/rentalbot/core/telegram/helpers"
	"github.com/m3rciful/rentalbot/core/telegram/keyboard"
	"github.com/m3rciful/rentalbot/internal/listing"

	tele "gopkg.in/telebot.v4"
)

// Conversation is the user side of the current update.
type Conversation interface {
	Send(text string, kb listing.Keyboard) error
	// Edit replaces the message that carried the pressed button, falling
	// back to a new message when there is nothing to edit.
	Edit(text string, kb listing.Keyboard) error
}

// Sink reaches the admin chat.
type Sink interface {
	SendText(chatID int64, text string) error
	SendAlbum(chatID int64, photoIDs []string) error
}

type teleConversation struct {
	c tele.Context
}

func (t teleConversation) Send(text string, kb listing.Keyboard) error {
	return helpers.SendMD(t.c, text, markup(kb))
}

func (t teleConversation) Edit(text string, kb listing.Keyboard) error {
	if t.c.Callback() == nil {
		return t.Send(text, kb)
	}
	return helpers.EditOrSendMD(t.c, text, markup(kb))
}

// BotSink sends to arbitrary chats through the Bot API.
type BotSink struct {
	API tele.API
}

// SendText sends Markdown text to chatID.
func (s BotSink) SendText(chatID int64, text string) error {
	_, err := s.API.Send(tele.ChatID(chatID), text, &tele.SendOptions{ParseMode: tele.ModeMarkdown})
	return err
}

// SendAlbum sends the photos as a single media group.
func (s BotSink) SendAlbum(chatID int64, photoIDs []string) error {
	album := make(tele.Album, 0, len(photoIDs))
	for _, id := range photoIDs {
		album = append(album, &tele.Photo{File: tele.File{FileID: id}})
	}
	_, err := s.API.SendAlbum(tele.ChatID(chatID), album)
	return err
}

func markup(kb listing.Keyboard) *tele.ReplyMarkup {
	switch kb {
	case listing.KeyboardRemove:
		return keyboard.RemoveKeyboard()
	case listing.KeyboardCategories:
		labels := make([]string, len(listing.Categories))
		for i, c := range listing.Categories {
			labels[i] = string(c)
		}
		return keyboard.OneTimeButtons(labels)
	case listing.KeyboardReview:
		return reviewMarkup()
	}
	return nil
}

func reviewMarkup() *tele.ReplyMarkup {
	rows := make([][]keyboard.InlineBtn, len(listing.ReviewMenu))
	for i, row := range listing.ReviewMenu {
		for _, b := range row {
			rows[i] = append(rows[i], keyboard.InlineBtn{Text: b.Label, Unique: string(b.Action)})
		}
	}
	return keyboard.InlineButtonsRows(rows...)
}

// eventFrom converts the message of an update into a state machine event.
func eventFrom(c tele.Context) listing.Event {
	msg := c.Message()
	switch {
	case msg == nil:
		return listing.TextInput(c.Text())
	case msg.Photo != nil:
		p := msg.Photo
		return listing.PhotoInput(listing.PhotoSize{
			FileID:   p.FileID,
			Width:    p.Width,
			Height:   p.Height,
			FileSize: int64(p.FileSize),
		})
	case msg.Document != nil:
		return listing.DocumentInput()
	}
	return listing.TextInput(msg.Text)
}

func submitterFrom(c tele.Context) listing.Submitter {
	u := c.Sender()
	if u == nil {
		return listing.Submitter{}
	}
	return listing.Submitter{ID: u.ID, Username: u.Username}
}
