package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/dukerupert/grocerybuddy/internal/auth"
	"github.com/dukerupert/grocerybuddy/internal/grocery"
	"github.com/dukerupert/grocerybuddy/internal/model"
	"github.com/dukerupert/grocerybuddy/internal/service"
)

const maxBodyBytes = 1 << 16

type GroceryHandler struct {
	items *service.GroceryService
	errorWriter
}

func NewGroceryHandler(items *service.GroceryService, production bool, logger *slog.Logger) *GroceryHandler {
	return &GroceryHandler{items: items, errorWriter: errorWriter{production: production, logger: logger}}
}

// quantity accepts 3 or "3" so form-style clients can post strings.
type quantity int

func (q *quantity) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		b = []byte(s)
	}
	n, err := strconv.Atoi(string(b))
	if err != nil {
		return fmt.Errorf("%w: Quantity must be a number", model.ErrValidation)
	}
	*q = quantity(n)
	return nil
}

type createItemRequest struct {
	Name     string   `json:"name"`
	Category string   `json:"category"`
	Quantity quantity `json:"quantity"`
}

type updateItemRequest struct {
	Name     *string   `json:"name"`
	Category *string   `json:"category"`
	Quantity *quantity `json:"quantity"`
}

func (u updateItemRequest) patch() model.ItemPatch {
	var p model.ItemPatch
	p.Name = u.Name
	if u.Category != nil {
		c := model.Category(*u.Category)
		p.Category = &c
	}
	if u.Quantity != nil {
		q := int(*u.Quantity)
		p.Quantity = &q
	}
	return p
}

// decodeBody reads a JSON body into v. Malformed input is a validation error.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		if errors.Is(err, model.ErrValidation) {
			return err
		}
		return errInvalidBody
	}
	return nil
}

func identity(r *http.Request) auth.Identity {
	id, _ := auth.FromContext(r.Context())
	return id
}

func (h *GroceryHandler) ListItems(w http.ResponseWriter, r *http.Request) {
	items, err := h.items.List(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, r, "list items", err)
		return
	}
	writeJSON(w, http.StatusOK, items)
}

func (h *GroceryHandler) CreateItem(w http.ResponseWriter, r *http.Request) {
	var req createItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, "create item", err)
		return
	}

	item, err := h.items.Create(r.Context(), identity(r), grocery.ItemInput{
		Name:     req.Name,
		Category: model.Category(req.Category),
		Quantity: int(req.Quantity),
	})
	if err != nil {
		h.writeError(w, r, "create item", err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *GroceryHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.writeError(w, r, "update item", errNotFoundParam)
		return
	}

	var req updateItemRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.writeError(w, r, "update item", err)
		return
	}

	item, err := h.items.Update(r.Context(), identity(r), id, req.patch())
	if err != nil {
		h.writeError(w, r, "update item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) ToggleItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.writeError(w, r, "toggle item", errNotFoundParam)
		return
	}

	item, err := h.items.Toggle(r.Context(), identity(r), id)
	if err != nil {
		h.writeError(w, r, "toggle item", err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *GroceryHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	id, err := parseIDParam(r)
	if err != nil {
		h.writeError(w, r, "delete item", errNotFoundParam)
		return
	}

	item, err := h.items.Delete(r.Context(), identity(r), id)
	if err != nil {
		h.writeError(w, r, "delete item", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Item deleted successfully",
		"item":    item,
	})
}

func (h *GroceryHandler) ClearCompleted(w http.ResponseWriter, r *http.Request) {
	n, err := h.items.ClearCompleted(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, r, "clear completed", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Deleted %d completed items", n),
		"deletedCount": n,
	})
}

func (h *GroceryHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	n, err := h.items.ClearAll(r.Context(), identity(r))
	if err != nil {
		h.writeError(w, r, "clear all", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"message":      fmt.Sprintf("Deleted %d items", n),
		"deletedCount": n,
	})
}

// Suggest guesses a category for ?name= without touching the list.
func (h *GroceryHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"category":   grocery.Suggest(r.URL.Query().Get("name")),
		"categories": model.Categories,
	})
}

// A non-numeric id cannot name anything the caller owns.
var errNotFoundParam = fmt.Errorf("%w: Item not found or unauthorized", model.ErrNotFound)
