package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
)

const (
	formName = iota
	formCategory
	formQuantity
)

var filterOrder = []grocery.Filter{grocery.FilterAll, grocery.FilterActive, grocery.FilterCompleted}

// listModel draws the controller's view and turns keys into controller
// actions. The form is open while adding or editing an item.
type listModel struct {
	api       *client.Client
	ctrl      *client.Controller
	user      *model.User
	cursor    int
	form      []textinput.Model
	formFocus int
	formOpen  bool
	fieldErrs grocery.FieldErrors
	err       string
}

func newListModel(api *client.Client, ctrl *client.Controller, user *model.User) listModel {
	form := make([]textinput.Model, 3)
	for i := range form {
		form[i] = textinput.New()
	}
	form[formName].Prompt = "Name: "
	form[formName].CharLimit = grocery.MaxNameLen
	form[formCategory].Prompt = "Category: "
	form[formCategory].Placeholder = "blank to guess"
	form[formQuantity].Prompt = "Quantity: "
	form[formQuantity].CharLimit = 3

	return listModel{api: api, ctrl: ctrl, user: user, form: form}
}

func (m *listModel) openForm(d grocery.Draft) tea.Cmd {
	m.formOpen = true
	m.fieldErrs = nil
	m.form[formName].SetValue(d.Name)
	m.form[formCategory].SetValue(d.Category)
	m.form[formQuantity].SetValue(d.Quantity)
	return m.focusForm(formName)
}

func (m *listModel) closeForm() {
	m.formOpen = false
	m.fieldErrs = nil
	for i := range m.form {
		m.form[i].Blur()
		m.form[i].SetValue("")
	}
	m.ctrl.CancelEdit()
}

// focusForm moves focus to field pos. Leaving the name field with no
// category asks the server for a suggestion.
func (m *listModel) focusForm(pos int) tea.Cmd {
	pos = (pos + len(m.form)) % len(m.form)
	var cmd tea.Cmd
	name := strings.TrimSpace(m.form[formName].Value())
	if m.formFocus == formName && pos != formName && name != "" && m.form[formCategory].Value() == "" {
		cmd = suggestCmd(m.api, name)
	}
	for i := range m.form {
		m.form[i].Blur()
	}
	m.formFocus = pos
	m.form[pos].Focus()
	return cmd
}

func (m listModel) draft() grocery.Draft {
	d := grocery.Draft{
		Name:     m.form[formName].Value(),
		Category: m.form[formCategory].Value(),
		Quantity: m.form[formQuantity].Value(),
	}
	if strings.TrimSpace(d.Category) == "" && strings.TrimSpace(d.Name) != "" {
		d.Category = string(grocery.Suggest(d.Name))
	}
	return d
}

func (m listModel) selected() (model.GroceryItem, bool) {
	items := m.ctrl.Render().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return model.GroceryItem{}, false
	}
	return items[m.cursor], true
}

func (m *listModel) clampCursor() {
	n := len(m.ctrl.Render().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m listModel) Update(msg tea.Msg) (listModel, tea.Cmd) {
	switch msg := msg.(type) {
	case loadedMsg:
		if msg.err != nil {
			m.err = model.UserMessage(msg.err)
		}
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		m.err = ""
		if msg.fieldErrs != nil {
			m.fieldErrs = msg.fieldErrs
			return m, nil
		}
		if msg.err != nil {
			m.err = model.UserMessage(msg.err)
			return m, nil
		}
		m.clampCursor()
		if msg.submitted {
			m.closeForm()
			return m, noticeTimer()
		}
		return m, nil

	case suggestedMsg:
		if m.formOpen && m.form[formCategory].Value() == "" {
			m.form[formCategory].SetValue(string(msg.category))
		}
		return m, nil

	case tea.KeyMsg:
		if m.formOpen {
			return m.updateForm(msg)
		}
		return m.updateList(msg)
	}
	return m, nil
}

func (m listModel) updateForm(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.closeForm()
		return m, nil
	case tea.KeyTab, tea.KeyDown:
		return m, m.focusForm(m.formFocus + 1)
	case tea.KeyShiftTab, tea.KeyUp:
		return m, m.focusForm(m.formFocus - 1)
	case tea.KeyEnter:
		m.fieldErrs = nil
		return m, submitCmd(m.ctrl, m.draft())
	}

	var cmd tea.Cmd
	m.form[m.formFocus], cmd = m.form[m.formFocus].Update(msg)
	return m, cmd
}

func (m listModel) updateList(msg tea.KeyMsg) (listModel, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		m.cursor++
		m.clampCursor()
	case "a", "n":
		m.ctrl.CancelEdit()
		return m, m.openForm(grocery.Draft{Quantity: "1"})
	case "e", "enter":
		if item, ok := m.selected(); ok {
			if d, ok := m.ctrl.Edit(item.ID); ok {
				return m, m.openForm(d)
			}
		}
	case " ", "x":
		if item, ok := m.selected(); ok {
			return m, actionCmd(func(ctx context.Context) error { return m.ctrl.Toggle(ctx, item.ID) })
		}
	case "d", "delete":
		if item, ok := m.selected(); ok {
			return m, actionCmd(func(ctx context.Context) error { return m.ctrl.Delete(ctx, item.ID) })
		}
	case "c":
		return m, actionCmd(func(ctx context.Context) error {
			_, err := m.ctrl.ClearCompleted(ctx)
			return err
		})
	case "X":
		return m, actionCmd(func(ctx context.Context) error {
			_, err := m.ctrl.ClearAll(ctx)
			return err
		})
	case "f", "tab":
		current := m.ctrl.Render().Filter
		for i, f := range filterOrder {
			if f == current {
				m.ctrl.SetFilter(filterOrder[(i+1)%len(filterOrder)])
				break
			}
		}
		m.cursor = 0
	case "r":
		return m, loadCmd(m.ctrl)
	}
	return m, nil
}

func (m listModel) View() string {
	v := m.ctrl.Render()
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("%s's groceries", m.user.Username)) + "\n")
	b.WriteString(blurredStyle.Render(fmt.Sprintf("Total %d · Active %d · Completed %d · Remaining %d",
		v.Stats.Total, v.Stats.Active, v.Stats.Completed, v.Stats.Remaining)) + "\n\n")

	for _, f := range filterOrder {
		if f == v.Filter {
			b.WriteString(activeTab.Render(string(f)))
		} else {
			b.WriteString(inactiveTab.Render(string(f)))
		}
		b.WriteString(" ")
	}
	b.WriteString("\n\n")

	if len(v.Items) == 0 {
		if v.Filter == grocery.FilterAll {
			b.WriteString(blurredStyle.Render("No items yet. Press a to add one.") + "\n")
		} else {
			b.WriteString(blurredStyle.Render("No items match this filter.") + "\n")
		}
	}
	for i, item := range v.Items {
		check := "[ ]"
		if item.Completed {
			check = "[x]"
		}
		line := fmt.Sprintf("%s %s × %d", check, item.Name, item.Quantity)
		if item.Completed {
			line = completedStyle.Render(line)
		}
		line += " " + categoryStyle.Render(string(item.Category))
		if item.ID == v.EditingID {
			line += focusedStyle.Render(" (editing)")
		}
		if i == m.cursor {
			b.WriteString(cursorStyle.Render("> ") + line + "\n")
		} else {
			b.WriteString("  " + line + "\n")
		}
	}

	if m.formOpen {
		b.WriteString("\n" + m.formView(v.EditingID != 0) + "\n")
	}
	if v.Notice != "" {
		b.WriteString("\n" + noticeStyle.Render(v.Notice) + "\n")
	}
	if m.err != "" {
		b.WriteString("\n" + errorMessageStyle(m.err) + "\n")
	}

	b.WriteString("\n")
	if m.formOpen {
		b.WriteString(blurredStyle.Render("Tab next field · Enter save · Esc cancel"))
	} else {
		b.WriteString(blurredStyle.Render("a add · e edit · space toggle · d delete · c clear completed · X clear all · f filter · r reload · L log out · q quit"))
	}
	return b.String()
}

func (m listModel) formView(editing bool) string {
	var b strings.Builder
	if editing {
		b.WriteString(focusedStyle.Render("Edit item") + "\n")
	} else {
		b.WriteString(focusedStyle.Render("New item") + "\n")
	}
	fields := []string{grocery.FieldName, grocery.FieldCategory, grocery.FieldQuantity}
	for i, in := range m.form {
		b.WriteString(in.View())
		if msg, ok := m.fieldErrs[fields[i]]; ok {
			b.WriteString("  " + errorMessageStyle(msg))
		}
		if i < len(m.form)-1 {
			b.WriteString("\n")
		}
	}
	b.WriteString("\n" + blurredStyle.Render("Categories: "+joinCategories()))
	return formStyle.Render(b.String())
}

func joinCategories() string {
	names := make([]string, len(model.Categories))
	for i, c := range model.Categories {
		names[i] = string(c)
	}
	return strings.Join(names, ", ")
}
