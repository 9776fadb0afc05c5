package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fdg312/mealboard/internal/storage"
	"github.com/google/uuid"
)

type groceryListsStorage struct {
	mu    sync.RWMutex
	lists map[string]*storage.GroceryList // key: list_id
	seq   map[string]int                  // key: list_id -> creation sequence
	next  int
}

func newGroceryListsStorage() *groceryListsStorage {
	return &groceryListsStorage{
		lists: make(map[string]*storage.GroceryList),
		seq:   make(map[string]int),
	}
}

func (s *groceryListsStorage) CreateGroceryList(ctx context.Context, list *storage.GroceryList) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC()
	list.ID = uuid.New().String()
	list.CreatedAt = now
	list.UpdatedAt = now
	assignItemIDs(list.Items)

	stored := cloneList(*list)
	s.lists[list.ID] = &stored
	s.next++
	s.seq[list.ID] = s.next
	return nil
}

func (s *groceryListsStorage) GetGroceryList(ctx context.Context, id string) (storage.GroceryList, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	list, ok := s.lists[id]
	if !ok {
		return storage.GroceryList{}, false, nil
	}
	return cloneList(*list), true, nil
}

func (s *groceryListsStorage) ListGroceryLists(ctx context.Context) ([]storage.GroceryList, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lists := make([]storage.GroceryList, 0, len(s.lists))
	for _, list := range s.lists {
		lists = append(lists, cloneList(*list))
	}
	sort.Slice(lists, func(i, j int) bool {
		return s.seq[lists[i].ID] > s.seq[lists[j].ID]
	})
	return lists, nil
}

func (s *groceryListsStorage) AddGroceryItem(ctx context.Context, listID string, item *storage.GroceryItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok {
		return storage.ErrNotFound
	}
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	list.Items = append(list.Items, *item)
	list.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *groceryListsStorage) SetGroceryItemChecked(ctx context.Context, listID, itemID string, checked bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok {
		return storage.ErrNotFound
	}
	i := itemIndex(list.Items, itemID)
	if i < 0 {
		return storage.ErrNotFound
	}
	list.Items[i].Checked = checked
	list.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *groceryListsStorage) DeleteGroceryItem(ctx context.Context, listID, itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list, ok := s.lists[listID]
	if !ok {
		return storage.ErrNotFound
	}
	i := itemIndex(list.Items, itemID)
	if i < 0 {
		return storage.ErrNotFound
	}
	// readers hold clones, so the backing array can be reused
	list.Items = append(list.Items[:i], list.Items[i+1:]...)
	list.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *groceryListsStorage) DeleteGroceryList(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.lists, id)
	delete(s.seq, id)
	return nil
}

func assignItemIDs(items []storage.GroceryItem) {
	for i := range items {
		if items[i].ID == "" {
			items[i].ID = uuid.New().String()
		}
	}
}

func itemIndex(items []storage.GroceryItem, id string) int {
	for i, item := range items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func cloneList(l storage.GroceryList) storage.GroceryList {
	l.Items = append([]storage.GroceryItem(nil), l.Items...)
	return l
}
