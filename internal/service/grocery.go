package service

import (
	"context"
	"fmt"

	"github.com/dukerupert/grocerybuddy/internal/auth"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/websocket"
)

type ItemRepository interface {
	ListItems(ctx context.Context, ownerID int64) ([]model.GroceryItem, error)
	CreateItem(ctx context.Context, ownerID int64, name string, category model.Category, quantity int) (*model.GroceryItem, error)
	UpdateItem(ctx context.Context, ownerID, id int64, patch model.ItemPatch) (*model.GroceryItem, error)
	ToggleCompleted(ctx context.Context, ownerID, id int64) (*model.GroceryItem, error)
	DeleteItem(ctx context.Context, ownerID, id int64) (*model.GroceryItem, error)
	ClearCompleted(ctx context.Context, ownerID int64) (int64, error)
	ClearAll(ctx context.Context, ownerID int64) (int64, error)
}

// Notifier receives an event after every successful mutation.
type Notifier interface {
	Publish(ownerID int64, msg websocket.Message)
}

var errItemNotFound = fmt.Errorf("%w: Item not found or unauthorized", model.ErrNotFound)

// GroceryService runs item operations on behalf of an authenticated caller.
// The owner always comes from the Identity, never from request input.
type GroceryService struct {
	items    ItemRepository
	notifier Notifier
}

func NewGroceryService(items ItemRepository, notifier Notifier) *GroceryService {
	return &GroceryService{items: items, notifier: notifier}
}

func (s *GroceryService) publish(ownerID int64, msg websocket.Message) {
	if s.notifier != nil {
		s.notifier.Publish(ownerID, msg)
	}
}

func (s *GroceryService) List(ctx context.Context, id auth.Identity) ([]model.GroceryItem, error) {
	return s.items.ListItems(ctx, id.UserID)
}

// View returns the caller's items narrowed by f along with stats for the
// whole list.
func (s *GroceryService) View(ctx context.Context, id auth.Identity, f grocery.Filter) ([]model.GroceryItem, grocery.Stats, error) {
	items, err := s.items.ListItems(ctx, id.UserID)
	if err != nil {
		return nil, grocery.Stats{}, err
	}
	return f.Apply(items), grocery.ComputeStats(items), nil
}

func (s *GroceryService) Create(ctx context.Context, id auth.Identity, in grocery.ItemInput) (*model.GroceryItem, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}
	item, err := s.items.CreateItem(ctx, id.UserID, in.Name, in.Category, in.Quantity)
	if err != nil {
		return nil, err
	}
	s.publish(id.UserID, websocket.NewMessage(websocket.ActionCreated, item, 0))
	return item, nil
}

// Update changes only the fields set in patch. If any supplied field is
// invalid nothing is written.
func (s *GroceryService) Update(ctx context.Context, id auth.Identity, itemID int64, patch model.ItemPatch) (*model.GroceryItem, error) {
	if err := grocery.ValidatePatch(&patch); err != nil {
		return nil, err
	}
	item, err := s.items.UpdateItem(ctx, id.UserID, itemID, patch)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errItemNotFound
	}
	if !patch.Empty() {
		s.publish(id.UserID, websocket.NewMessage(websocket.ActionUpdated, item, 0))
	}
	return item, nil
}

func (s *GroceryService) Toggle(ctx context.Context, id auth.Identity, itemID int64) (*model.GroceryItem, error) {
	item, err := s.items.ToggleCompleted(ctx, id.UserID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errItemNotFound
	}
	s.publish(id.UserID, websocket.NewMessage(websocket.ActionToggled, item, 0))
	return item, nil
}

func (s *GroceryService) Delete(ctx context.Context, id auth.Identity, itemID int64) (*model.GroceryItem, error) {
	item, err := s.items.DeleteItem(ctx, id.UserID, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, errItemNotFound
	}
	s.publish(id.UserID, websocket.NewMessage(websocket.ActionDeleted, item, 0))
	return item, nil
}

func (s *GroceryService) ClearCompleted(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.items.ClearCompleted(ctx, id.UserID)
	if err != nil {
		return 0, err
	}
	s.publish(id.UserID, websocket.NewMessage(websocket.ActionClearedDone, nil, n))
	return n, nil
}

func (s *GroceryService) ClearAll(ctx context.Context, id auth.Identity) (int64, error) {
	n, err := s.items.ClearAll(ctx, id.UserID)
	if err != nil {
		return 0, err
	}
	s.publish(id.UserID, websocket.NewMessage(websocket.ActionClearedAll, nil, n))
	return n, nil
}
