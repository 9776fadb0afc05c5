package grocery

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/fdg312/mealboard/internal/planning"
	"github.com/fdg312/mealboard/internal/storage"
	"go.uber.org/zap"
)

// Service handles grocery lists.
type Service struct {
	storage    storage.GroceryListsStorage
	meals      MealSource
	plans      PlanSource
	categories CategorySource
	logger     *zap.Logger
}

// NewService creates a new grocery service. categories may be nil.
func NewService(storage storage.GroceryListsStorage, meals MealSource, plans PlanSource, categories CategorySource, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		storage:    storage,
		meals:      meals,
		plans:      plans,
		categories: categories,
		logger:     logger,
	}
}

// Create stores a manual list, or generates one from the plan when AutoGenerate is set.
func (s *Service) Create(ctx context.Context, req CreateListRequest) (ListDTO, error) {
	var list ListDTO
	name := strings.TrimSpace(req.Name)

	if req.AutoGenerate {
		start, end, err := req.Range()
		if err != nil {
			return ListDTO{}, err
		}
		if name == "" {
			name = DefaultName(start, end)
		}
		list, err = GenerateFromRange(ctx, s.meals, s.plans, s.categories, start, end, name)
		if err != nil {
			return ListDTO{}, err
		}
		if req.WeekStart != nil && strings.TrimSpace(*req.WeekStart) != "" {
			list.WeekStart = planning.StringPtr(planning.FormatDate(start))
		}
	} else {
		if name == "" {
			return ListDTO{}, fmt.Errorf("%w: name is required", planning.ErrValidation)
		}
		list = ListDTO{Name: name, Items: []ItemDTO{}}
	}

	for _, itemReq := range req.Items {
		var err error
		list, _, err = AddItem(list, itemReq)
		if err != nil {
			return ListDTO{}, err
		}
	}

	row := toRow(list)
	if err := s.storage.CreateGroceryList(ctx, &row); err != nil {
		return ListDTO{}, err
	}

	s.logger.Info("grocery list created",
		zap.String("list_id", row.ID),
		zap.Int("items", len(row.Items)),
		zap.Bool("auto_generate", req.AutoGenerate),
	)
	return toDTO(row), nil
}

// List returns every list, newest first.
func (s *Service) List(ctx context.Context) ([]ListDTO, error) {
	rows, err := s.storage.ListGroceryLists(ctx)
	if err != nil {
		return nil, err
	}
	lists := make([]ListDTO, len(rows))
	for i, row := range rows {
		lists[i] = toDTO(row)
	}
	return lists, nil
}

// Get returns one list.
func (s *Service) Get(ctx context.Context, id string) (ListDTO, error) {
	row, found, err := s.storage.GetGroceryList(ctx, id)
	if err != nil {
		return ListDTO{}, err
	}
	if !found {
		return ListDTO{}, fmt.Errorf("%w: grocery list %s", planning.ErrNotFound, id)
	}
	return toDTO(row), nil
}

// Delete removes a list. Deleting a missing list succeeds.
func (s *Service) Delete(ctx context.Context, id string) error {
	return s.storage.DeleteGroceryList(ctx, id)
}

// Grouped returns the list items partitioned by category.
func (s *Service) Grouped(ctx context.Context, id string) (GroupedListResponse, error) {
	list, err := s.Get(ctx, id)
	if err != nil {
		return GroupedListResponse{}, err
	}
	return GroupedListResponse{
		ID:         list.ID,
		Name:       list.Name,
		Categories: GroupByCategory(list.Items),
	}, nil
}

// AddItem appends a manual item to a stored list.
func (s *Service) AddItem(ctx context.Context, listID string, req AddItemRequest) (ItemDTO, error) {
	_, item, err := AddItem(ListDTO{}, req)
	if err != nil {
		return ItemDTO{}, err
	}
	row := toItemRow(item)
	if err := s.storage.AddGroceryItem(ctx, listID, &row); err != nil {
		return ItemDTO{}, notFound(err, "grocery list "+listID)
	}
	return toItemDTO(row), nil
}

// UpdateItem sets the checked flag of an item.
func (s *Service) UpdateItem(ctx context.Context, listID, itemID string, req UpdateItemRequest) (ListDTO, error) {
	if req.Checked == nil {
		return ListDTO{}, fmt.Errorf("%w: checked is required", planning.ErrValidation)
	}
	if err := s.storage.SetGroceryItemChecked(ctx, listID, itemID, *req.Checked); err != nil {
		return ListDTO{}, notFound(err, "item "+itemID)
	}
	return s.Get(ctx, listID)
}

// RemoveItem deletes an item from a stored list.
func (s *Service) RemoveItem(ctx context.Context, listID, itemID string) error {
	if err := s.storage.DeleteGroceryItem(ctx, listID, itemID); err != nil {
		return notFound(err, "item "+itemID)
	}
	return nil
}

// notFound maps storage.ErrNotFound onto planning.ErrNotFound.
func notFound(err error, what string) error {
	if errors.Is(err, storage.ErrNotFound) {
		return fmt.Errorf("%w: %s", planning.ErrNotFound, what)
	}
	return err
}
