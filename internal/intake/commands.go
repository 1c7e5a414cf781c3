package intake

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/m3rciful/rentalbot/core/logger"
	tg "github.com/m3rciful/rentalbot/core/telegram"
	"github.com/m3rciful/rentalbot/core/telegram/commands"
	"github.com/m3rciful/rentalbot/core/telegram/format"
	tghelpers "github.com/m3rciful/rentalbot/core/telegram/helpers"
	"github.com/m3rciful/rentalbot/internal/listing"

	tele "gopkg.in/telebot.v4"
)

// Register adds the intake commands and review callbacks to reg.
func (s *Service) Register(reg *tg.Registry) error {
	cmds := []struct {
		name string
		cmd  commands.Command
	}{
		{"/start", commands.Command{Handler: s.Start, Description: "Add a car rental listing"}},
		{"/cancel", commands.Command{Handler: s.Cancel, Description: "Cancel the current listing"}},
		{"/id", commands.Command{Handler: ChatID, Description: "Show this chat's ID"}},
		{"/help", commands.Command{Handler: Help(reg), Description: "List available commands"}},
		{"/stats", commands.Command{Handler: s.Stats, Description: "Intake statistics", AdminOnly: true, Hidden: true}},
	}
	var errs []error
	for _, c := range cmds {
		errs = append(errs, reg.RegisterCommand(c.name, c.cmd))
	}
	for _, a := range listing.Actions() {
		if err := reg.RegisterCallback(string(a), s.Press(a)); err != nil {
			errs = append(errs, fmt.Errorf("register %s: %w", a, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("intake: %w", err)
	}
	return nil
}

// ChatID replies with the id of the current chat so operators can configure
// the admin chat.
func ChatID(c tele.Context) error {
	var id int64
	if chat := c.Chat(); chat != nil {
		id = chat.ID
	}
	return tghelpers.SendMD(c, fmt.Sprintf("Your chat ID is: `%d`", id))
}

// Help lists the visible commands of reg.
func Help(reg *tg.Registry) tele.HandlerFunc {
	return func(c tele.Context) error {
		return tghelpers.SendText(c, HelpText(reg.ListCommands(true)))
	}
}

// HelpText renders one "/command - description" line per command.
func HelpText(cmds []tele.Command) string {
	var b strings.Builder
	b.WriteString("Available commands:")
	for _, cmd := range cmds {
		fmt.Fprintf(&b, "\n%s - %s", cmd.Text, cmd.Description)
	}
	return b.String()
}

// Stats reports active sessions and delivery totals.
func (s *Service) Stats(c tele.Context) error {
	ctx := tghelpers.BuildContext(c)
	text, err := s.StatsText(ctx)
	if err != nil {
		logger.Warn(ctx, logger.CompIntake, "stats.failed",
			logger.Err(err),
		)
	}
	return tghelpers.SendMD(c, text)
}

const recentSubmissions = 5

// StatsText renders the /stats reply. Ledger errors leave the totals out.
func (s *Service) StatsText(ctx context.Context) (string, error) {
	var b strings.Builder
	b.WriteString("*Intake stats*\n")
	fmt.Fprintf(&b, "Active sessions: %d", s.sessions.Len())
	counts, err := s.exec.Ledger.Counts(ctx)
	if err != nil {
		b.WriteString("\nSubmissions: unavailable")
		return b.String(), err
	}
	fmt.Fprintf(&b, "\nDelivered: %d\nFailed: %d", counts.Delivered, counts.Failed)
	recent, err := s.exec.Ledger.Recent(ctx, recentSubmissions)
	if err != nil {
		return b.String(), err
	}
	if len(recent) > 0 {
		b.WriteString("\n\n*Recent*")
	}
	for _, sub := range recent {
		fmt.Fprintf(&b, "\n%s %s %s", sub.CreatedAt.UTC().Format("2006-01-02 15:04"), sub.ListingID, sub.Outcome)
		if sub.ErrorKind != "" {
			fmt.Fprintf(&b, " (%s)", format.EscapeMD(sub.ErrorKind))
		}
	}
	return b.String(), nil
}
