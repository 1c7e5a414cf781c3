package telegram

import (
	"errors"
	"testing"

	"github.com/m3rciful/rentalbot/core/telegram/commands"

	tele "gopkg.in/telebot.v4"
)

func nopHandler(tele.Context) error { return nil }

func TestRegisterCommandValidation(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCommand("start", commands.Command{Handler: nopHandler, Description: "x"}); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("missing slash: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: nopHandler}); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("missing description: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: nopHandler, Description: "Begin"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCommand("/start", commands.Command{Handler: nopHandler, Description: "Again"}); err == nil {
		t.Fatal("expected duplicate error")
	}
}

func TestLookupCommandResolvesAliases(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/cancel", commands.Command{Handler: nopHandler, Description: "Stop", Aliases: []string{"stop", "/abort"}})

	for _, name := range []string{"/cancel", "cancel", "stop", "/abort"} {
		key, _, ok := reg.LookupCommand(name)
		if !ok || key != "/cancel" {
			t.Fatalf("LookupCommand(%q) = %q, %v", name, key, ok)
		}
	}
	if _, _, ok := reg.LookupCommand("/missing"); ok {
		t.Fatal("unexpected match")
	}
}

func TestListCommandsHidesAdminAndHidden(t *testing.T) {
	reg := NewRegistry()
	_ = reg.RegisterCommand("/start", commands.Command{Handler: nopHandler, Description: "Begin"})
	_ = reg.RegisterCommand("/stats", commands.Command{Handler: nopHandler, Description: "Stats", AdminOnly: true})
	_ = reg.RegisterCommand("/debug", commands.Command{Handler: nopHandler, Description: "Debug", Hidden: true})

	if got := reg.ListCommands(true); len(got) != 1 || got[0].Text != "/start" {
		t.Fatalf("visible = %+v", got)
	}
	if got := reg.ListCommands(false); len(got) != 3 || got[0].Text != "/debug" {
		t.Fatalf("all = %+v", got)
	}
}

func TestRegisterCallback(t *testing.T) {
	reg := NewRegistry()
	if err := reg.RegisterCallback("", nopHandler); !errors.Is(err, ErrInvalidRegistration) {
		t.Fatalf("empty key: %v", err)
	}
	if err := reg.RegisterCallback("submit", nopHandler); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := reg.RegisterCallback("submit", nopHandler); err == nil {
		t.Fatal("expected duplicate error")
	}
	if _, ok := reg.GetCallback("submit"); !ok {
		t.Fatal("callback not found")
	}
	if keys := reg.ListCallbacks(); len(keys) != 1 || keys[0] != "submit" {
		t.Fatalf("keys = %v", keys)
	}
}
