package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
)

const (
	inputUsername = iota
	inputEmail
	inputPassword
	inputConfirm
)

// loginModel is the sign-in form. In register mode it also asks for an
// email and a password confirmation.
type loginModel struct {
	api      *client.Client
	register bool
	inputs   []textinput.Model
	focus    int
	busy     bool
	err      string
}

func newLoginModel(api *client.Client) loginModel {
	inputs := make([]textinput.Model, 4)
	for i := range inputs {
		inputs[i] = textinput.New()
		inputs[i].CharLimit = 128
	}
	inputs[inputUsername].Prompt = "Email or username: "
	inputs[inputEmail].Prompt = "Email: "
	inputs[inputPassword].Prompt = "Password: "
	inputs[inputPassword].EchoMode = textinput.EchoPassword
	inputs[inputConfirm].Prompt = "Confirm password: "
	inputs[inputConfirm].EchoMode = textinput.EchoPassword
	inputs[inputUsername].Focus()

	return loginModel{api: api, inputs: inputs}
}

// fields lists the inputs shown in the current mode.
func (m loginModel) fields() []int {
	if m.register {
		return []int{inputUsername, inputEmail, inputPassword, inputConfirm}
	}
	return []int{inputUsername, inputPassword}
}

func (m *loginModel) setFocus(pos int) {
	fields := m.fields()
	pos = (pos + len(fields)) % len(fields)
	for _, i := range fields {
		m.inputs[i].Blur()
	}
	m.focus = pos
	m.inputs[fields[pos]].Focus()
}

func (m *loginModel) toggleMode() {
	m.register = !m.register
	m.err = ""
	if m.register {
		m.inputs[inputUsername].Prompt = "Username: "
	} else {
		m.inputs[inputUsername].Prompt = "Email or username: "
	}
	m.setFocus(0)
}

func (m loginModel) submit() (loginModel, tea.Cmd) {
	m.busy = true
	m.err = ""
	if m.register {
		return m, registerCmd(m.api, service.RegisterInput{
			Username:        strings.TrimSpace(m.inputs[inputUsername].Value()),
			Email:           strings.TrimSpace(m.inputs[inputEmail].Value()),
			Password:        m.inputs[inputPassword].Value(),
			ConfirmPassword: m.inputs[inputConfirm].Value(),
		})
	}
	return m, loginCmd(m.api, strings.TrimSpace(m.inputs[inputUsername].Value()), m.inputs[inputPassword].Value())
}

func (m loginModel) Update(msg tea.Msg) (loginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.busy = false
		if msg.err != nil {
			m.err = model.UserMessage(msg.err)
			m.inputs[inputPassword].SetValue("")
			m.inputs[inputConfirm].SetValue("")
		}
		return m, nil

	case tea.KeyMsg:
		if m.busy {
			return m, nil
		}
		switch msg.Type {
		case tea.KeyEnter:
			if m.focus == len(m.fields())-1 {
				return m.submit()
			}
			m.setFocus(m.focus + 1)
			return m, nil
		case tea.KeyTab, tea.KeyDown:
			m.setFocus(m.focus + 1)
			return m, nil
		case tea.KeyShiftTab, tea.KeyUp:
			m.setFocus(m.focus - 1)
			return m, nil
		case tea.KeyCtrlR:
			m.toggleMode()
			return m, nil
		}
	}

	cmds := make([]tea.Cmd, len(m.inputs))
	for i := range m.inputs {
		m.inputs[i], cmds[i] = m.inputs[i].Update(msg)
	}
	return m, tea.Batch(cmds...)
}

func (m loginModel) View() string {
	var b strings.Builder
	if m.register {
		b.WriteString(titleStyle.Render("grocerybuddy · Register") + "\n\n")
	} else {
		b.WriteString(titleStyle.Render("grocerybuddy · Log in") + "\n\n")
	}

	for _, i := range m.fields() {
		b.WriteString(m.inputs[i].View() + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.busy:
		b.WriteString(blurredStyle.Render("Signing in..."))
	case m.register:
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+R to log in instead"))
	default:
		b.WriteString(blurredStyle.Render("Tab to change fields, Enter to submit, Ctrl+R to register"))
	}
	if m.err != "" {
		b.WriteString("\n\n" + errorMessageStyle(m.err))
	}
	return b.String()
}
