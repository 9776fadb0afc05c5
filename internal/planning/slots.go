package planning

import "fmt"

// Slot is one of the five fixed meal occasions of a day.
type Slot string

const (
	SlotBreakfast    Slot = "breakfast"
	SlotMorningSnack Slot = "morning_snack"
	SlotLunch        Slot = "lunch"
	SlotDinner       Slot = "dinner"
	SlotEveningSnack Slot = "evening_snack"
)

// SlotInfo describes a slot for display.
type SlotInfo struct {
	Slot  Slot   `json:"slot"`
	Label string `json:"label"`
	Icon  string `json:"icon"`
}

// Slots lists every slot in day order.
var Slots = []SlotInfo{
	{Slot: SlotBreakfast, Label: "Breakfast", Icon: "🌅"},
	{Slot: SlotMorningSnack, Label: "Morning Snack", Icon: "🍎"},
	{Slot: SlotLunch, Label: "Lunch", Icon: "☀️"},
	{Slot: SlotDinner, Label: "Dinner", Icon: "🌙"},
	{Slot: SlotEveningSnack, Label: "Evening Snack", Icon: "🍪"},
}

// SlotCount is the number of slots per day.
const SlotCount = 5

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotBreakfast, SlotMorningSnack, SlotLunch, SlotDinner, SlotEveningSnack:
		return true
	}
	return false
}

// ParseSlot converts raw input to a Slot.
func ParseSlot(raw string) (Slot, error) {
	s := Slot(raw)
	if !s.Valid() {
		return "", fmt.Errorf("%w: unknown meal_slot %q", ErrValidation, raw)
	}
	return s, nil
}

// DayPlan holds the slot assignments of one calendar date. A nil slot is
// unassigned; a plan with every slot nil is the same as no plan.
type DayPlan struct {
	Date         string  `json:"date"`
	Breakfast    *string `json:"breakfast"`
	MorningSnack *string `json:"morning_snack"`
	Lunch        *string `json:"lunch"`
	Dinner       *string `json:"dinner"`
	EveningSnack *string `json:"evening_snack"`
}

// EmptyDay returns an unassigned plan for date.
func EmptyDay(date string) DayPlan {
	return DayPlan{Date: date}
}

func (d *DayPlan) field(slot Slot) **string {
	switch slot {
	case SlotBreakfast:
		return &d.Breakfast
	case SlotMorningSnack:
		return &d.MorningSnack
	case SlotLunch:
		return &d.Lunch
	case SlotDinner:
		return &d.Dinner
	case SlotEveningSnack:
		return &d.EveningSnack
	}
	return nil
}

// Get returns the meal id assigned to slot, or nil.
func (d DayPlan) Get(slot Slot) *string {
	f := d.field(slot)
	if f == nil {
		return nil
	}
	return *f
}

// Set assigns mealID to slot. A nil or blank id clears the slot.
func (d *DayPlan) Set(slot Slot, mealID *string) {
	f := d.field(slot)
	if f == nil {
		return
	}
	if mealID == nil || *mealID == "" {
		*f = nil
		return
	}
	v := *mealID
	*f = &v
}

// AssignedCount returns how many slots hold a meal id (0-5).
func (d DayPlan) AssignedCount() int {
	n := 0
	for _, info := range Slots {
		if d.Get(info.Slot) != nil {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no slot is assigned.
func (d DayPlan) IsEmpty() bool {
	return d.AssignedCount() == 0
}

// MealIDs returns the assigned ids in slot order, duplicates included.
func (d DayPlan) MealIDs() []string {
	ids := make([]string, 0, SlotCount)
	for _, info := range Slots {
		if id := d.Get(info.Slot); id != nil {
			ids = append(ids, *id)
		}
	}
	return ids
}

// StringPtr returns a pointer to a copy of s.
func StringPtr(s string) *string {
	return &s
}
