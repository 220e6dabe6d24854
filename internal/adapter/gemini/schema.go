package gemini

// macroProperties are the shared numeric macro fields of food results and
// meal totals.
func macroProperties() map[string]*schema {
	return map[string]*schema{
		"calories": {Type: "number", Description: "Total calories in kcal"},
		"protein":  {Type: "number", Description: "Protein in grams"},
		"carbs":    {Type: "number", Description: "Carbohydrates in grams"},
		"fat":      {Type: "number", Description: "Fat in grams"},
	}
}

// foodItemSchema is the response schema for text parsing and image
// analysis: an array of named items with full macro estimates.
func foodItemSchema() *schema {
	props := macroProperties()
	props["name"] = &schema{Type: "string", Description: "Name of the food item"}

	return &schema{
		Type: "array",
		Items: &schema{
			Type:       "object",
			Properties: props,
			Required:   []string{"name", "calories", "protein", "carbs", "fat"},
		},
	}
}

// mealPlanSchema is the response schema for plan generation: a meals array
// with per-ingredient gram weights and a nested totals object.
func mealPlanSchema() *schema {
	ingredient := &schema{
		Type: "object",
		Properties: map[string]*schema{
			"name":     {Type: "string"},
			"grams":    {Type: "number"},
			"protein":  {Type: "number"},
			"fat":      {Type: "number"},
			"carbs":    {Type: "number"},
			"calories": {Type: "number"},
		},
		Required: []string{"name", "grams", "protein", "fat", "carbs", "calories"},
	}

	meal := &schema{
		Type: "object",
		Properties: map[string]*schema{
			"name":        {Type: "string"},
			"mealType":    {Type: "string", Description: "Suggested label based on time (Breakfast, Lunch, Dinner, Snack)"},
			"description": {Type: "string", Description: "Short appetizing description"},
			"ingredients": {Type: "array", Items: ingredient},
			"totals": {
				Type:       "object",
				Properties: macroProperties(),
				Required:   []string{"protein", "fat", "carbs", "calories"},
			},
			"instructions": {Type: "array", Items: &schema{Type: "string"}},
			"alternative":  {Type: "string"},
		},
		Required: []string{"name", "mealType", "description", "ingredients", "totals", "instructions", "alternative"},
	}

	return &schema{
		Type: "object",
		Properties: map[string]*schema{
			"meals": {Type: "array", Items: meal},
		},
	}
}
