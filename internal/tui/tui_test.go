package tui

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dukerupert/grocerybuddy/internal/client"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
)

type stubAPI struct {
	items  []model.GroceryItem
	nextID int64
}

func (s *stubAPI) List(context.Context) ([]model.GroceryItem, error) {
	return append([]model.GroceryItem{}, s.items...), nil
}

func (s *stubAPI) Create(_ context.Context, in grocery.ItemInput) (*model.GroceryItem, error) {
	s.nextID++
	it := model.GroceryItem{ID: s.nextID, Name: in.Name, Category: in.Category, Quantity: in.Quantity}
	s.items = append([]model.GroceryItem{it}, s.items...)
	return &it, nil
}

func (s *stubAPI) Update(_ context.Context, id int64, p model.ItemPatch) (*model.GroceryItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Name, s.items[i].Category, s.items[i].Quantity = *p.Name, *p.Category, *p.Quantity
			it := s.items[i]
			return &it, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubAPI) Toggle(_ context.Context, id int64) (*model.GroceryItem, error) {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Completed = !s.items[i].Completed
			it := s.items[i]
			return &it, nil
		}
	}
	return nil, model.ErrNotFound
}

func (s *stubAPI) Delete(context.Context, int64) (*model.GroceryItem, error) {
	return &model.GroceryItem{}, nil
}

func (s *stubAPI) ClearCompleted(context.Context) (int64, error) { return 0, nil }
func (s *stubAPI) ClearAll(context.Context) (int64, error)       { return 0, nil }

func newTestList(t *testing.T, items ...model.GroceryItem) listModel {
	t.Helper()
	api := &stubAPI{items: items, nextID: int64(len(items))}
	ctrl := client.NewController(api, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := ctrl.Load(context.Background()); err != nil {
		t.Fatalf("load: %v", err)
	}
	return newListModel(nil, ctrl, &model.User{Username: "alice"})
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// run executes cmd and feeds its message back into the list.
func run(m listModel, cmd tea.Cmd) listModel {
	if cmd == nil {
		return m
	}
	m, _ = m.Update(cmd())
	return m
}

func TestListViewShowsStats(t *testing.T) {
	m := newTestList(t,
		model.GroceryItem{ID: 1, Name: "Milk", Category: model.CategoryDairy, Quantity: 2},
		model.GroceryItem{ID: 2, Name: "Bread", Category: model.CategoryBakery, Quantity: 1, Completed: true},
	)

	view := m.View()
	for _, want := range []string{"alice's groceries", "Total 2", "Active 1", "Completed 1", "Remaining 1", "Milk", "Bread"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestFilterKeyCycles(t *testing.T) {
	m := newTestList(t,
		model.GroceryItem{ID: 1, Name: "Milk", Category: model.CategoryDairy, Quantity: 2},
		model.GroceryItem{ID: 2, Name: "Bread", Category: model.CategoryBakery, Quantity: 1, Completed: true},
	)

	want := []grocery.Filter{grocery.FilterActive, grocery.FilterCompleted, grocery.FilterAll}
	for _, f := range want {
		m, _ = m.Update(key("f"))
		if got := m.ctrl.Render().Filter; got != f {
			t.Errorf("filter = %q, want %q", got, f)
		}
	}
}

func TestAddItemThroughForm(t *testing.T) {
	m := newTestList(t)

	m, _ = m.Update(key("a"))
	if !m.formOpen {
		t.Fatal("form should open")
	}
	m.form[formName].SetValue("Frozen peas")
	m.form[formQuantity].SetValue("3")

	m, cmd := m.Update(key("enter"))
	m = run(m, cmd)

	if m.formOpen {
		t.Error("form should close after a successful submit")
	}
	items := m.ctrl.Render().Items
	if len(items) != 1 {
		t.Fatalf("items = %d, want 1", len(items))
	}
	if items[0].Category != model.CategoryFrozen {
		t.Errorf("category = %q, want guessed Frozen", items[0].Category)
	}
	if !strings.Contains(m.View(), "Item added") {
		t.Error("notice missing")
	}
}

func TestFormShowsFieldErrors(t *testing.T) {
	m := newTestList(t)

	m, _ = m.Update(key("a"))
	m.form[formName].SetValue("M")
	m.form[formCategory].SetValue("Dairy")
	m.form[formQuantity].SetValue("0")

	m, cmd := m.Update(key("enter"))
	m = run(m, cmd)

	if !m.formOpen {
		t.Fatal("form should stay open on field errors")
	}
	view := m.View()
	for _, want := range []string{"Item name must be between 2 and 50 characters", "Quantity must be between 1 and 999"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestEditAndToggleKeys(t *testing.T) {
	m := newTestList(t, model.GroceryItem{ID: 1, Name: "Milk", Category: model.CategoryDairy, Quantity: 2})

	m, cmd := m.Update(key(" "))
	m = run(m, cmd)
	if !m.ctrl.Render().Items[0].Completed {
		t.Error("space should toggle the selected item")
	}

	m, _ = m.Update(key("e"))
	if !m.formOpen || m.form[formName].Value() != "Milk" {
		t.Fatalf("edit form = open %v, name %q", m.formOpen, m.form[formName].Value())
	}
	m.form[formQuantity].SetValue("6")
	m, cmd = m.Update(key("enter"))
	m = run(m, cmd)

	if got := m.ctrl.Render().Items[0].Quantity; got != 6 {
		t.Errorf("quantity = %d, want 6", got)
	}
	if m.ctrl.Render().EditingID != 0 {
		t.Error("editing should end after save")
	}
}

func TestEscCancelsEdit(t *testing.T) {
	m := newTestList(t, model.GroceryItem{ID: 1, Name: "Milk", Category: model.CategoryDairy, Quantity: 2})

	m, _ = m.Update(key("e"))
	m, _ = m.Update(key("esc"))
	if m.formOpen || m.ctrl.Render().EditingID != 0 {
		t.Error("esc should close the form and leave edit mode")
	}
}

func TestLoginModeToggle(t *testing.T) {
	m := newLoginModel(nil)
	if got := len(m.fields()); got != 2 {
		t.Errorf("login fields = %d, want 2", got)
	}

	m, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlR})
	if !m.register || len(m.fields()) != 4 {
		t.Errorf("register = %v, fields = %d", m.register, len(m.fields()))
	}
	if !strings.Contains(m.View(), "Confirm password") {
		t.Error("register view should ask for confirmation")
	}
}
