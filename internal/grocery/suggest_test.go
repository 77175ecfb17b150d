package grocery

import (
	"testing"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

func TestSuggestWholeName(t *testing.T) {
	tests := []struct {
		input string
		want  model.Category
	}{
		{"ham", model.CategoryMeat},
		{"eggs", model.CategoryDairy},
		{"coffee", model.CategoryBeverages},
		{"flour", model.CategoryPantry},
		{"rolls", model.CategoryBakery},
	}
	for _, tt := range tests {
		if got := Suggest(tt.input); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestKeyword(t *testing.T) {
	tests := []struct {
		input string
		want  model.Category
	}{
		{"Milk", model.CategoryDairy},
		{"chicken breast", model.CategoryMeat},
		{"whole wheat bread", model.CategoryBakery},
		{"frozen pizza", model.CategoryFrozen},
		{"frozen chicken nuggets", model.CategoryFrozen},
		{"vanilla ice cream", model.CategoryFrozen},
		{"organic baby spinach", model.CategoryProduce},
		{"oat milk", model.CategoryBeverages},
		{"canned black beans", model.CategoryPantry},
		{"peanut butter", model.CategoryPantry},
		{"potato chips", model.CategorySnacks},
		{"greek yogurt cups", model.CategoryDairy},
	}
	for _, tt := range tests {
		if got := Suggest(tt.input); got != tt.want {
			t.Errorf("Suggest(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestSuggestNormalizesInput(t *testing.T) {
	if got := Suggest("  FROZEN   Pizza "); got != model.CategoryFrozen {
		t.Errorf("Suggest = %q, want %q", got, model.CategoryFrozen)
	}
}

func TestSuggestUnknown(t *testing.T) {
	for _, input := range []string{"", "   ", "widget", "xyz123", "paper towels"} {
		if got := Suggest(input); got != model.CategoryOther {
			t.Errorf("Suggest(%q) = %q, want %q", input, got, model.CategoryOther)
		}
	}
}

func TestSuggestAlwaysValid(t *testing.T) {
	for _, input := range []string{"milk", "bread", "anything else", "ice"} {
		if got := Suggest(input); !got.Valid() {
			t.Errorf("Suggest(%q) = %q, not a valid category", input, got)
		}
	}
}
