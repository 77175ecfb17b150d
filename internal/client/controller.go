package client

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
)

// NoticeTTL is how long a success notice stays visible.
const NoticeTTL = 3 * time.Second

// API is the subset of *Client the controller drives.
type API interface {
	List(ctx context.Context) ([]model.GroceryItem, error)
	Create(ctx context.Context, in grocery.ItemInput) (*model.GroceryItem, error)
	Update(ctx context.Context, id int64, patch model.ItemPatch) (*model.GroceryItem, error)
	Toggle(ctx context.Context, id int64) (*model.GroceryItem, error)
	Delete(ctx context.Context, id int64) (*model.GroceryItem, error)
	ClearCompleted(ctx context.Context) (int64, error)
	ClearAll(ctx context.Context) (int64, error)
}

// ViewState is the controller's mirror of the server list. EditingID is 0
// when the next submit creates an item.
type ViewState struct {
	Items     []model.GroceryItem
	Filter    grocery.Filter
	EditingID int64
}

// View is what a front end draws: the filtered items plus statistics over
// the whole mirror.
type View struct {
	Items     []model.GroceryItem
	Stats     grocery.Stats
	Filter    grocery.Filter
	EditingID int64
	Notice    string
}

// Controller keeps ViewState in step with the server. Network calls are
// made without holding the lock, so overlapping actions are allowed and
// settle in response order.
type Controller struct {
	api    API
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	state    ViewState
	notice   string
	noticeAt time.Time
	nextTemp int64
}

func NewController(api API, logger *slog.Logger) *Controller {
	return &Controller{
		api:    api,
		logger: logger,
		now:    time.Now,
		state:  ViewState{Items: []model.GroceryItem{}, Filter: grocery.FilterAll},
	}
}

// Load replaces the mirror with the server's list.
func (c *Controller) Load(ctx context.Context) error {
	items, err := c.api.List(ctx)
	if err != nil {
		c.logger.Error("load items", "error", err)
		return err
	}
	c.mu.Lock()
	c.state.Items = items
	c.mu.Unlock()
	return nil
}

func (c *Controller) SetFilter(f grocery.Filter) {
	c.mu.Lock()
	c.state.Filter = f
	c.mu.Unlock()
}

// Edit marks id as the target of the next Submit and returns its fields as
// a draft for the form.
func (c *Controller) Edit(id int64) (grocery.Draft, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(id)
	if i < 0 {
		return grocery.Draft{}, false
	}
	c.state.EditingID = id
	it := c.state.Items[i]
	return grocery.Draft{Name: it.Name, Category: string(it.Category), Quantity: fmt.Sprint(it.Quantity)}, true
}

func (c *Controller) CancelEdit() {
	c.mu.Lock()
	c.state.EditingID = 0
	c.mu.Unlock()
}

// Submit validates d and then creates or updates an item. Field errors are
// returned without contacting the server. The mirror is updated
// optimistically and reconciled with the server's response.
func (c *Controller) Submit(ctx context.Context, d grocery.Draft) (grocery.FieldErrors, error) {
	in, fieldErrs := d.Check()
	if fieldErrs != nil {
		return fieldErrs, nil
	}

	c.mu.Lock()
	editing := c.state.EditingID
	c.mu.Unlock()

	if editing != 0 {
		return nil, c.update(ctx, editing, in)
	}
	return nil, c.create(ctx, in)
}

func (c *Controller) create(ctx context.Context, in grocery.ItemInput) error {
	c.mu.Lock()
	c.nextTemp--
	tempID := c.nextTemp
	now := c.now()
	c.state.Items = slices.Insert(c.state.Items, 0, model.GroceryItem{
		ID:        tempID,
		Name:      in.Name,
		Category:  in.Category,
		Quantity:  in.Quantity,
		CreatedAt: now,
		UpdatedAt: now,
	})
	c.mu.Unlock()

	item, err := c.api.Create(ctx, in)

	c.mu.Lock()
	defer c.mu.Unlock()
	i := c.indexOf(tempID)
	if err != nil {
		if i >= 0 {
			c.state.Items = slices.Delete(c.state.Items, i, i+1)
		}
		c.logger.Error("create item", "error", err)
		return err
	}
	switch {
	case i >= 0:
		c.state.Items[i] = *item
	case c.indexOf(item.ID) < 0:
		// A reload dropped the placeholder before the server answered.
		c.state.Items = slices.Insert(c.state.Items, 0, *item)
	}
	c.setNotice("Item added")
	return nil
}

func (c *Controller) update(ctx context.Context, id int64, in grocery.ItemInput) error {
	c.mu.Lock()
	i := c.indexOf(id)
	if i < 0 {
		c.state.EditingID = 0
		c.mu.Unlock()
		return fmt.Errorf("%w: Item not found or unauthorized", model.ErrNotFound)
	}
	before := c.state.Items[i]
	optimistic := before
	optimistic.Name, optimistic.Category, optimistic.Quantity = in.Name, in.Category, in.Quantity
	c.state.Items[i] = optimistic
	c.mu.Unlock()

	item, err := c.api.Update(ctx, id, model.ItemPatch{Name: &in.Name, Category: &in.Category, Quantity: &in.Quantity})

	c.mu.Lock()
	defer c.mu.Unlock()
	i = c.indexOf(id)
	if err != nil {
		if i >= 0 {
			c.state.Items[i] = before
		}
		c.logger.Error("update item", "error", err, "item_id", id)
		return err
	}
	if i >= 0 {
		c.state.Items[i] = *item
	}
	c.state.EditingID = 0
	c.setNotice("Item updated")
	return nil
}

// Toggle flips an item's completed flag once the server confirms it.
func (c *Controller) Toggle(ctx context.Context, id int64) error {
	item, err := c.api.Toggle(ctx, id)
	if err != nil {
		c.logger.Error("toggle item", "error", err, "item_id", id)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if i := c.indexOf(id); i >= 0 {
		c.state.Items[i] = *item
	}
	return nil
}

func (c *Controller) Delete(ctx context.Context, id int64) error {
	if _, err := c.api.Delete(ctx, id); err != nil {
		c.logger.Error("delete item", "error", err, "item_id", id)
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = slices.DeleteFunc(c.state.Items, func(it model.GroceryItem) bool { return it.ID == id })
	if c.state.EditingID == id {
		c.state.EditingID = 0
	}
	return nil
}

func (c *Controller) ClearCompleted(ctx context.Context) (int64, error) {
	n, err := c.api.ClearCompleted(ctx)
	if err != nil {
		c.logger.Error("clear completed", "error", err)
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = slices.DeleteFunc(c.state.Items, func(it model.GroceryItem) bool { return it.Completed })
	if c.state.EditingID != 0 && c.indexOf(c.state.EditingID) < 0 {
		c.state.EditingID = 0
	}
	return n, nil
}

func (c *Controller) ClearAll(ctx context.Context) (int64, error) {
	n, err := c.api.ClearAll(ctx)
	if err != nil {
		c.logger.Error("clear all", "error", err)
		return 0, err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state.Items = []model.GroceryItem{}
	c.state.EditingID = 0
	return n, nil
}

// Render recomputes the filtered list and statistics from the mirror.
func (c *Controller) Render() View {
	c.mu.Lock()
	defer c.mu.Unlock()
	v := View{
		Items:     c.state.Filter.Apply(c.state.Items),
		Stats:     grocery.ComputeStats(c.state.Items),
		Filter:    c.state.Filter,
		EditingID: c.state.EditingID,
	}
	if c.notice != "" && c.now().Sub(c.noticeAt) < NoticeTTL {
		v.Notice = c.notice
	}
	return v
}

// State returns a copy of the mirror.
func (c *Controller) State() ViewState {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := c.state
	s.Items = slices.Clone(c.state.Items)
	return s
}

func (c *Controller) setNotice(msg string) {
	c.notice = msg
	c.noticeAt = c.now()
}

func (c *Controller) indexOf(id int64) int {
	return slices.IndexFunc(c.state.Items, func(it model.GroceryItem) bool { return it.ID == id })
}
