package grocery

import (
	"fmt"
	"strings"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/google/uuid"
)

// ToggleItem sets the checked flag of one item.
func ToggleItem(list ListDTO, itemID string, checked bool) (ListDTO, error) {
	i := indexOf(list.Items, itemID)
	if i < 0 {
		return list, fmt.Errorf("%w: item %s", planning.ErrNotFound, itemID)
	}
	items := append([]ItemDTO(nil), list.Items...)
	items[i].Checked = checked
	list.Items = items
	return list, nil
}

// AddItem appends a manual item. Names are not deduplicated against existing items.
func AddItem(list ListDTO, req AddItemRequest) (ListDTO, ItemDTO, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return list, ItemDTO{}, fmt.Errorf("%w: item name is required", planning.ErrValidation)
	}
	category, err := planning.NormalizeCategory(req.Category)
	if err != nil {
		return list, ItemDTO{}, err
	}

	item := ItemDTO{
		ID:       uuid.New().String(),
		Name:     name,
		Category: category,
		Quantity: strings.TrimSpace(req.Quantity),
		Notes:    strings.TrimSpace(req.Notes),
		Source:   SourceManual,
	}
	items := make([]ItemDTO, 0, len(list.Items)+1)
	items = append(items, list.Items...)
	list.Items = append(items, item)
	return list, item, nil
}

// RemoveItem drops one item, keeping the order of the rest.
func RemoveItem(list ListDTO, itemID string) (ListDTO, error) {
	i := indexOf(list.Items, itemID)
	if i < 0 {
		return list, fmt.Errorf("%w: item %s", planning.ErrNotFound, itemID)
	}
	items := make([]ItemDTO, 0, len(list.Items)-1)
	items = append(items, list.Items[:i]...)
	list.Items = append(items, list.Items[i+1:]...)
	return list, nil
}

// GroupByCategory partitions items by category. Groups follow the category
// vocabulary order, unknown categories last; items keep list order.
func GroupByCategory(items []ItemDTO) []CategoryGroup {
	byCategory := make(map[string][]ItemDTO)
	var extra []string
	for _, item := range items {
		if _, ok := byCategory[item.Category]; !ok && !isKnownCategory(item.Category) {
			extra = append(extra, item.Category)
		}
		byCategory[item.Category] = append(byCategory[item.Category], item)
	}

	groups := make([]CategoryGroup, 0, len(byCategory))
	for _, c := range append(append([]string(nil), planning.Categories...), extra...) {
		if its, ok := byCategory[c]; ok {
			groups = append(groups, CategoryGroup{Category: c, Items: its})
		}
	}
	return groups
}

func isKnownCategory(c string) bool {
	for _, known := range planning.Categories {
		if c == known {
			return true
		}
	}
	return false
}

func indexOf(items []ItemDTO, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}
