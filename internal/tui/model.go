// Package tui is a terminal front end for the grocery list built on
// Bubble Tea. All list state lives in a client.Controller.
package tui

import (
	"context"
	"log/slog"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/websocket"
)

type screen int

const (
	screenLogin screen = iota
	screenList
)

type Model struct {
	api    *client.Client
	ctrl   *client.Controller
	logger *slog.Logger

	screen screen
	login  loginModel
	list   listModel

	events    chan websocket.Message
	stopWatch context.CancelFunc
	quitting  bool
}

func New(api *client.Client, logger *slog.Logger) Model {
	return Model{
		api:    api,
		ctrl:   client.NewController(api, logger.With("component", "controller")),
		logger: logger,
		screen: screenLogin,
		login:  newLoginModel(api),
	}
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

// watch follows live-sync events so changes made elsewhere show up here.
// Events are coalesced: a full reload follows any of them.
func (m *Model) watch() tea.Cmd {
	ctx, cancel := context.WithCancel(context.Background())
	m.stopWatch = cancel
	events := make(chan websocket.Message, 1)
	m.events = events

	api, logger := m.api, m.logger
	go func() {
		defer close(events)
		err := api.Watch(ctx, func(msg websocket.Message) {
			select {
			case events <- msg:
			default:
			}
		})
		if err != nil && ctx.Err() == nil {
			logger.Warn("live sync stopped", "error", err)
		}
	}()
	return waitForEvent(events)
}

func (m *Model) unwatch() {
	if m.stopWatch != nil {
		m.stopWatch()
		m.stopWatch = nil
	}
	m.events = nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC || (m.screen == screenList && !m.list.formOpen && msg.String() == "q") {
			m.quitting = true
			m.unwatch()
			return m, tea.Quit
		}
		if m.screen == screenList && !m.list.formOpen && msg.String() == "L" {
			m.unwatch()
			return m, logoutCmd(m.api)
		}

	case authDoneMsg:
		if msg.err == nil {
			m.logger.Info("signed in", "username", msg.user.Username)
			m.screen = screenList
			m.list = newListModel(m.api, m.ctrl, msg.user)
			return m, tea.Batch(loadCmd(m.ctrl), m.watch())
		}

	case loggedOutMsg:
		m.ctrl = client.NewController(m.api, m.logger.With("component", "controller"))
		m.screen = screenLogin
		m.login = newLoginModel(m.api)
		return m, textinput.Blink

	case syncMsg:
		if m.events == nil {
			return m, nil
		}
		m.logger.Debug("live sync", "type", msg.Type)
		return m, tea.Batch(loadCmd(m.ctrl), waitForEvent(m.events))

	case noticeExpiredMsg:
		// Render drops the notice once it is old enough; redraw is enough.
		return m, nil
	}

	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.Update(msg)
	case screenList:
		m.list, cmd = m.list.Update(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return "Bye!\n"
	}
	if m.screen == screenList {
		return m.list.View()
	}
	return m.login.View()
}
