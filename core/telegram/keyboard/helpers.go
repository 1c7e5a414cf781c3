// Package keyboard builds reply and inline markups.
package keyboard

import tele "gopkg.in/telebot.v4"

// InlineBtn is one inline button. Unique is the callback key the router
// dispatches on; Data is an optional payload.
type InlineBtn struct {
	Text   string
	Unique string
	Data   string
}

// RemoveKeyboard hides a previously shown reply keyboard.
func RemoveKeyboard() *tele.ReplyMarkup {
	return &tele.ReplyMarkup{RemoveKeyboard: true}
}

// OneTimeButtons builds a resized reply keyboard that collapses after one press.
func OneTimeButtons(rows ...[]string) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{ResizeKeyboard: true, OneTimeKeyboard: true}
	m.ReplyKeyboard = make([][]tele.ReplyButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]tele.ReplyButton, len(row))
		for i, label := range row {
			buttons[i] = tele.ReplyButton{Text: label}
		}
		m.ReplyKeyboard = append(m.ReplyKeyboard, buttons)
	}
	return m
}

// InlineButtonsRows builds an inline keyboard, one slice per row.
func InlineButtonsRows(rows ...[]InlineBtn) *tele.ReplyMarkup {
	m := &tele.ReplyMarkup{InlineKeyboard: make([][]tele.InlineButton, len(rows))}
	for i, row := range rows {
		m.InlineKeyboard[i] = make([]tele.InlineButton, len(row))
		for j, b := range row {
			m.InlineKeyboard[i][j] = tele.InlineButton{Text: b.Text, Unique: b.Unique, Data: b.Data}
		}
	}
	return m
}
