// ABOUTME: Equipment model and EquipmentCategory enum used by the packing checklist.
// ABOUTME: Includes keyword-based category guessing from a free-text name.
package models

import "strings"

// EquipmentCategory classifies equipment. Values are persisted by name.
type EquipmentCategory string

const (
	CategoryStrength    EquipmentCategory = "STRENGTH"
	CategoryCardio      EquipmentCategory = "CARDIO"
	CategoryMats        EquipmentCategory = "MATS"
	CategoryAccessories EquipmentCategory = "ACCESSORIES"
	CategoryWeights     EquipmentCategory = "WEIGHTS"
	CategoryResistance  EquipmentCategory = "RESISTANCE"
	CategoryOther       EquipmentCategory = "OTHER"
)

// AllEquipmentCategories lists every category in declaration order.
var AllEquipmentCategories = []EquipmentCategory{
	CategoryStrength, CategoryCardio, CategoryMats, CategoryAccessories,
	CategoryWeights, CategoryResistance, CategoryOther,
}

var categoryDisplay = map[EquipmentCategory]string{
	CategoryStrength:    "Strength Equipment",
	CategoryCardio:      "Cardio Equipment",
	CategoryMats:        "Mats & Flooring",
	CategoryAccessories: "Accessories",
	CategoryWeights:     "Weights",
	CategoryResistance:  "Resistance Bands",
	CategoryOther:       "Other",
}

var categoryEmoji = map[EquipmentCategory]string{
	CategoryStrength:    "🏋️",
	CategoryCardio:      "🏃",
	CategoryMats:        "🧘",
	CategoryAccessories: "🎒",
	CategoryWeights:     "💪",
	CategoryResistance:  "🔗",
	CategoryOther:       "📦",
}

// DisplayName returns the human label for the category.
func (c EquipmentCategory) DisplayName() string {
	if s, ok := categoryDisplay[c]; ok {
		return s
	}
	return categoryDisplay[CategoryOther]
}

// Emoji returns the checklist icon for the category.
func (c EquipmentCategory) Emoji() string {
	if s, ok := categoryEmoji[c]; ok {
		return s
	}
	return categoryEmoji[CategoryOther]
}

// ParseEquipmentCategory accepts a category name in any case.
func ParseEquipmentCategory(s string) (EquipmentCategory, bool) {
	c := EquipmentCategory(strings.ToUpper(strings.TrimSpace(s)))
	_, ok := categoryDisplay[c]
	return c, ok
}

// categoryKeywords is checked in order; the first match wins.
var categoryKeywords = []struct {
	category EquipmentCategory
	words    []string
}{
	{CategoryWeights, []string{"dumbbell", "barbell", "weight", "kettlebell"}},
	{CategoryResistance, []string{"band", "resistance"}},
	{CategoryMats, []string{"mat", "floor"}},
	{CategoryCardio, []string{"treadmill", "bike", "rowing", "elliptical"}},
	{CategoryStrength, []string{"bench", "rack", "machine", "cable"}},
	{CategoryAccessories, []string{"gloves", "strap", "belt", "rope"}},
}

// GuessEquipmentCategory infers a category from an equipment name.
func GuessEquipmentCategory(name string) EquipmentCategory {
	lower := strings.ToLower(name)
	for _, kw := range categoryKeywords {
		for _, w := range kw.words {
			if strings.Contains(lower, w) {
				return kw.category
			}
		}
	}
	return CategoryOther
}

// Equipment is an item needed for an exercise.
type Equipment struct {
	ID         int64             `json:"id" yaml:"id"`
	ExerciseID int64             `json:"exercise_id" yaml:"exercise_id"`
	Name       string            `json:"name" yaml:"name"`
	Category   EquipmentCategory `json:"category" yaml:"category"`
	IsChecked  bool              `json:"is_checked" yaml:"is_checked"`
}

// NewEquipment creates equipment in the given category.
func NewEquipment(exerciseID int64, name string, category EquipmentCategory) *Equipment {
	if category == "" {
		category = CategoryOther
	}
	return &Equipment{
		ExerciseID: exerciseID,
		Name:       name,
		Category:   category,
	}
}
