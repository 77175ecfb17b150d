// Package grocery holds the list rules shared by the server and the client:
// field validation, view filters, statistics and category suggestions.
package grocery

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

const (
	MinNameLen  = 2 // grocery_items.name CHECK uses the same bounds
	MaxNameLen  = 50
	MinQuantity = 1
	MaxQuantity = 999

	// ForbiddenNameChars may not appear in an item name.
	ForbiddenNameChars = `<>{}[]\`
)

// Field names used as keys in FieldErrors.
const (
	FieldName     = "name"
	FieldCategory = "category"
	FieldQuantity = "quantity"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	parts := make([]string, 0, len(fe))
	for _, field := range []string{FieldName, FieldCategory, FieldQuantity} {
		if msg, ok := fe[field]; ok {
			parts = append(parts, msg)
		}
	}
	return strings.Join(parts, "; ")
}

// Err returns nil when there are no field errors, otherwise an error that
// wraps model.ErrValidation.
func (fe FieldErrors) Err() error {
	if len(fe) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %s", model.ErrValidation, fe.Error())
}

// NormalizeName trims surrounding whitespace.
func NormalizeName(name string) string {
	return strings.TrimSpace(name)
}

// ValidateName checks an already-normalized item name.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("%w: Item name is required", model.ErrValidation)
	}
	n := utf8.RuneCountInString(name)
	if n < MinNameLen || n > MaxNameLen {
		return fmt.Errorf("%w: Item name must be between %d and %d characters", model.ErrValidation, MinNameLen, MaxNameLen)
	}
	if strings.ContainsAny(name, ForbiddenNameChars) {
		return fmt.Errorf("%w: Item name contains invalid characters", model.ErrValidation)
	}
	return nil
}

func ValidateCategory(c model.Category) error {
	if c == "" {
		return fmt.Errorf("%w: Category is required", model.ErrValidation)
	}
	if !c.Valid() {
		return fmt.Errorf("%w: Invalid category %q", model.ErrValidation, string(c))
	}
	return nil
}

func ValidateQuantity(q int) error {
	if q < MinQuantity || q > MaxQuantity {
		return fmt.Errorf("%w: Quantity must be between %d and %d", model.ErrValidation, MinQuantity, MaxQuantity)
	}
	return nil
}

// Draft is an item as typed into a form, before parsing.
type Draft struct {
	Name     string
	Category string
	Quantity string
}

// ItemInput is a validated set of fields for creating an item.
type ItemInput struct {
	Name     string         `json:"name"`
	Category model.Category `json:"category"`
	Quantity int            `json:"quantity"`
}

// Check parses and validates a form draft, reporting every bad field at once.
func (d Draft) Check() (ItemInput, FieldErrors) {
	in := ItemInput{
		Name:     NormalizeName(d.Name),
		Category: model.Category(strings.TrimSpace(d.Category)),
	}
	errs := FieldErrors{}

	if err := ValidateName(in.Name); err != nil {
		errs[FieldName] = model.UserMessage(err)
	}
	if err := ValidateCategory(in.Category); err != nil {
		errs[FieldCategory] = model.UserMessage(err)
	}

	raw := strings.TrimSpace(d.Quantity)
	q, err := strconv.Atoi(raw)
	switch {
	case raw == "":
		errs[FieldQuantity] = "Quantity is required"
	case err != nil:
		errs[FieldQuantity] = "Quantity must be a number"
	default:
		in.Quantity = q
		if err := ValidateQuantity(q); err != nil {
			errs[FieldQuantity] = model.UserMessage(err)
		}
	}

	if len(errs) == 0 {
		return in, nil
	}
	return in, errs
}

// Validate normalizes the input in place and checks every field.
func (in *ItemInput) Validate() error {
	in.Name = NormalizeName(in.Name)
	if err := ValidateName(in.Name); err != nil {
		return err
	}
	if err := ValidateCategory(in.Category); err != nil {
		return err
	}
	return ValidateQuantity(in.Quantity)
}

// ValidatePatch normalizes and checks the supplied fields of a partial update.
// A single bad field fails the whole patch.
func ValidatePatch(p *model.ItemPatch) error {
	if p.Name != nil {
		name := NormalizeName(*p.Name)
		if err := ValidateName(name); err != nil {
			return err
		}
		p.Name = &name
	}
	if p.Category != nil {
		if err := ValidateCategory(*p.Category); err != nil {
			return err
		}
	}
	if p.Quantity != nil {
		if err := ValidateQuantity(*p.Quantity); err != nil {
			return err
		}
	}
	return nil
}
