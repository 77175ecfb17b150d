package grocery

import (
	"strings"

	"github.com/dukerupert/grocerybuddy/internal/model"
)

// Suggest guesses the category for an item name. Whole-name matches win,
// then the first keyword rule contained in the name. Unknown names map to
// CategoryOther.
func Suggest(itemName string) model.Category {
	name := strings.ToLower(strings.Join(strings.Fields(itemName), " "))
	if name == "" {
		return model.CategoryOther
	}

	if cat, ok := wholeNames[name]; ok {
		return cat
	}

	for _, rule := range keywordRules {
		for _, kw := range rule.keywords {
			if strings.Contains(name, kw) {
				return rule.category
			}
		}
	}
	return model.CategoryOther
}

var wholeNames = map[string]model.Category{
	"ham":      model.CategoryMeat,
	"fish":     model.CategoryMeat,
	"corn":     model.CategoryProduce,
	"peas":     model.CategoryFrozen,
	"ice":      model.CategoryFrozen,
	"rolls":    model.CategoryBakery,
	"buns":     model.CategoryBakery,
	"eggs":     model.CategoryDairy,
	"oil":      model.CategoryPantry,
	"tea":      model.CategoryBeverages,
	"nuts":     model.CategorySnacks,
	"popcorn":  model.CategorySnacks,
	"flour":    model.CategoryPantry,
	"sugar":    model.CategoryPantry,
	"salt":     model.CategoryPantry,
	"pepper":   model.CategoryPantry,
	"soda":     model.CategoryBeverages,
	"water":    model.CategoryBeverages,
	"juice":    model.CategoryBeverages,
	"coffee":   model.CategoryBeverages,
	"crackers": model.CategorySnacks,
}

type keywordRule struct {
	category model.Category
	keywords []string
}

// Rules are checked in order, so modifiers that decide the aisle ("frozen",
// "ice cream") come before the foods they modify, and multi-word phrases come
// before their single-word parts.
var keywordRules = []keywordRule{
	{model.CategoryFrozen, []string{"frozen", "ice cream", "popsicle", "waffles", "tater tots", "pizza rolls"}},
	{model.CategoryBeverages, []string{"sparkling water", "orange juice", "apple juice", "almond milk", "oat milk", "coffee", "juice", "soda", "beer", "wine", "kombucha", "lemonade", "water bottle"}},
	{model.CategoryPantry, []string{"peanut butter", "olive oil", "canned", "pasta", "spaghetti", "rice", "cereal", "oats", "beans", "soup", "sauce", "flour", "sugar", "honey", "vinegar", "spice", "broth", "lentils"}},
	{model.CategorySnacks, []string{"chips", "pretzel", "cookie", "candy", "chocolate", "granola bar", "trail mix", "popcorn", "crackers"}},
	{model.CategoryMeat, []string{"chicken", "beef", "pork", "turkey", "bacon", "sausage", "steak", "salmon", "shrimp", "tuna", "lamb", "hot dog", "deli meat", "meatball"}},
	{model.CategoryDairy, []string{"cream cheese", "sour cream", "cottage cheese", "yogurt", "cheese", "milk", "butter", "cream", "egg"}},
	{model.CategoryBakery, []string{"sourdough", "bread", "bagel", "tortilla", "muffin", "croissant", "baguette", "donut", "cake"}},
	{model.CategoryProduce, []string{"salad", "spinach", "lettuce", "kale", "apple", "banana", "orange", "lemon", "lime", "avocado", "tomato", "potato", "onion", "garlic", "carrot", "celery", "cucumber", "broccoli", "mushroom", "berries", "berry", "grape", "melon", "herb", "bell pepper"}},
}
