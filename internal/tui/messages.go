package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
	"github.com/dukerupert/grocerybuddy/internal/websocket"
)

type authDoneMsg struct {
	user *model.User
	err  error
}

type loggedOutMsg struct{}

type loadedMsg struct{ err error }

// actionDoneMsg reports a finished list action. submitted marks a create or
// update so the form can be reset.
type actionDoneMsg struct {
	err       error
	fieldErrs grocery.FieldErrors
	submitted bool
}

type suggestedMsg struct{ category model.Category }

type syncMsg websocket.Message

type noticeExpiredMsg struct{}

func loginCmd(api *client.Client, identifier, password string) tea.Cmd {
	return func() tea.Msg {
		user, err := api.Login(context.Background(), identifier, password)
		return authDoneMsg{user: user, err: err}
	}
}

func registerCmd(api *client.Client, in service.RegisterInput) tea.Cmd {
	return func() tea.Msg {
		user, err := api.Register(context.Background(), in)
		return authDoneMsg{user: user, err: err}
	}
}

func logoutCmd(api *client.Client) tea.Cmd {
	return func() tea.Msg {
		// The server clears the session even when the call fails midway.
		api.Logout(context.Background())
		return loggedOutMsg{}
	}
}

func loadCmd(ctrl *client.Controller) tea.Cmd {
	return func() tea.Msg {
		return loadedMsg{err: ctrl.Load(context.Background())}
	}
}

func actionCmd(fn func(ctx context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{err: fn(context.Background())}
	}
}

func submitCmd(ctrl *client.Controller, d grocery.Draft) tea.Cmd {
	return func() tea.Msg {
		fe, err := ctrl.Submit(context.Background(), d)
		return actionDoneMsg{err: err, fieldErrs: fe, submitted: fe == nil && err == nil}
	}
}

func suggestCmd(api *client.Client, name string) tea.Cmd {
	return func() tea.Msg {
		cat, err := api.Suggest(context.Background(), name)
		if err != nil {
			cat = grocery.Suggest(name)
		}
		return suggestedMsg{category: cat}
	}
}

func waitForEvent(events <-chan websocket.Message) tea.Cmd {
	return func() tea.Msg {
		msg, ok := <-events
		if !ok {
			return nil
		}
		return syncMsg(msg)
	}
}

func noticeTimer() tea.Cmd {
	return tea.Tick(client.NoticeTTL, func(time.Time) tea.Msg {
		return noticeExpiredMsg{}
	})
}
