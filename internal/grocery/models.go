package grocery

import (
	"fmt"
	"strings"
	"time"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
)

const (
	SourceMeal   = "meal"
	SourceManual = "manual"
)

// ItemDTO is one line of a grocery list.
type ItemDTO struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
	Checked  bool   `json:"checked"`
	Source   string `json:"source"`
}

// ListDTO is a grocery list with its items in insertion order.
type ListDTO struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	WeekStart *string   `json:"week_start"`
	StartDate *string   `json:"start_date"`
	EndDate   *string   `json:"end_date"`
	Items     []ItemDTO `json:"items"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListGroceryListsResponse struct {
	GroceryLists []ListDTO `json:"grocery_lists"`
}

// CategoryGroup holds the items of one category.
type CategoryGroup struct {
	Category string    `json:"category"`
	Items    []ItemDTO `json:"items"`
}

type GroupedListResponse struct {
	ID         string          `json:"id"`
	Name       string          `json:"name"`
	Categories []CategoryGroup `json:"categories"`
}

// CreateListRequest creates a list manually or generates it from the plan.
// With AutoGenerate the range comes from WeekStart or StartDate/EndDate.
type CreateListRequest struct {
	Name         string           `json:"name"`
	WeekStart    *string          `json:"week_start,omitempty"`
	StartDate    *string          `json:"start_date,omitempty"`
	EndDate      *string          `json:"end_date,omitempty"`
	AutoGenerate bool             `json:"auto_generate"`
	Items        []AddItemRequest `json:"items,omitempty"`
}

// Range resolves the requested plan range.
func (r CreateListRequest) Range() (time.Time, time.Time, error) {
	if r.WeekStart != nil && strings.TrimSpace(*r.WeekStart) != "" {
		start, err := planning.ParseDate(*r.WeekStart)
		if err != nil {
			return time.Time{}, time.Time{}, err
		}
		return start, start.AddDate(0, 0, 6), nil
	}
	if r.StartDate == nil || r.EndDate == nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: week_start or start_date and end_date are required", planning.ErrValidation)
	}
	return planning.ParseRange(*r.StartDate, *r.EndDate)
}

type AddItemRequest struct {
	Name     string `json:"name"`
	Category string `json:"category"`
	Quantity string `json:"quantity"`
	Notes    string `json:"notes"`
}

type UpdateItemRequest struct {
	Checked *bool `json:"checked"`
}

type ExportRequest struct {
	Format string `json:"format"` // csv | pdf
}

type ExportResponse struct {
	URL       string     `json:"url"`
	Format    string     `json:"format"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

type ShareResponse struct {
	Token     string    `json:"token"`
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expires_at"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func toItemDTO(item storage.GroceryItem) ItemDTO {
	return ItemDTO{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Quantity: item.Quantity,
		Notes:    item.Notes,
		Checked:  item.Checked,
		Source:   item.Source,
	}
}

func toItemRow(item ItemDTO) storage.GroceryItem {
	return storage.GroceryItem{
		ID:       item.ID,
		Name:     item.Name,
		Category: item.Category,
		Quantity: item.Quantity,
		Notes:    item.Notes,
		Checked:  item.Checked,
		Source:   item.Source,
	}
}

func toDTO(list storage.GroceryList) ListDTO {
	items := make([]ItemDTO, len(list.Items))
	for i, item := range list.Items {
		items[i] = toItemDTO(item)
	}
	return ListDTO{
		ID:        list.ID,
		Name:      list.Name,
		WeekStart: list.WeekStart,
		StartDate: list.StartDate,
		EndDate:   list.EndDate,
		Items:     items,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}

func toRow(list ListDTO) storage.GroceryList {
	items := make([]storage.GroceryItem, len(list.Items))
	for i, item := range list.Items {
		items[i] = toItemRow(item)
	}
	return storage.GroceryList{
		ID:        list.ID,
		Name:      list.Name,
		WeekStart: list.WeekStart,
		StartDate: list.StartDate,
		EndDate:   list.EndDate,
		Items:     items,
		CreatedAt: list.CreatedAt,
		UpdatedAt: list.UpdatedAt,
	}
}
