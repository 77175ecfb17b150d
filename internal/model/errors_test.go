package model

import (
	"errors"
	"fmt"
	"testing"
)

func TestUserMessage(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"wrapped validation", fmt.Errorf("%w: quantity must be at least 1", ErrValidation), "quantity must be at least 1"},
		{"wrapped conflict", fmt.Errorf("%w: username or email already exists", ErrConflict), "username or email already exists"},
		{"bare sentinel", ErrInvalidCredentials, "invalid credentials"},
		{"unrelated", errors.New("disk full"), "disk full"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := UserMessage(tt.err); got != tt.want {
				t.Errorf("UserMessage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCategoryValid(t *testing.T) {
	for _, c := range Categories {
		if !c.Valid() {
			t.Errorf("%q.Valid() = false, want true", c)
		}
	}
	for _, c := range []Category{"", "Household", "dairy", "Meat & Seafood"} {
		if c.Valid() {
			t.Errorf("%q.Valid() = true, want false", c)
		}
	}
}
