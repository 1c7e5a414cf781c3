// Package commands defines the metadata attached to slash commands.
package commands

import tele "gopkg.in/telebot.v4"

// Command is a slash command as registered with the bot.
// Admin-only commands are also left out of the public menu.
type Command struct {
	Handler     tele.HandlerFunc
	Description string
	AdminOnly   bool
	Hidden      bool
	Aliases     []string
}

// Public reports whether the command belongs in the menu and /help output.
func (c Command) Public() bool {
	return !c.Hidden && !c.AdminOnly
}
