package suggestions

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/fdg312/mealboard/internal/ai"
	"github.com/fdg312/mealboard/internal/meals"
	"github.com/fdg312/mealboard/internal/planning"
	"go.uber.org/zap"
)

// ErrUpstream marks failures of the AI provider or an imported page.
var ErrUpstream = errors.New("upstream failure")

var difficulties = map[string]bool{"easy": true, "medium": true, "hard": true}

// MealCreator persists accepted suggestions.
type MealCreator interface {
	Create(ctx context.Context, req meals.CreateMealRequest) (meals.MealDTO, error)
}

// Service turns prompts and recipe pages into meal drafts.
type Service struct {
	provider ai.Provider
	meals    MealCreator
	fetcher  PageFetcher
	logger   *zap.Logger
}

// NewService creates a new suggestions service.
func NewService(provider ai.Provider, meals MealCreator, fetcher PageFetcher, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{provider: provider, meals: meals, fetcher: fetcher, logger: logger}
}

// Suggest asks the provider for one meal matching the prompt and filters.
func (s *Service) Suggest(ctx context.Context, req SuggestRequest) (SuggestionDTO, error) {
	prompt := strings.TrimSpace(req.Prompt)
	if prompt == "" {
		return SuggestionDTO{}, fmt.Errorf("%w: prompt is required", planning.ErrValidation)
	}
	difficulty := strings.ToLower(strings.TrimSpace(req.Difficulty))
	if difficulty != "" && !difficulties[difficulty] {
		return SuggestionDTO{}, fmt.Errorf("%w: difficulty must be easy, medium or hard", planning.ErrValidation)
	}

	suggestion, err := s.provider.SuggestMeal(ctx, ai.SuggestRequest{
		Prompt:     prompt,
		Dietary:    cleanList(req.Dietary),
		Cuisine:    strings.TrimSpace(req.Cuisine),
		Difficulty: difficulty,
		FamilyKeys: familyKeys(),
	})
	if err != nil {
		s.logger.Warn("meal suggestion failed", zap.Error(err))
		return SuggestionDTO{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	return toDTO(suggestion), nil
}

// Accept stores a suggestion in the meal catalog.
func (s *Service) Accept(ctx context.Context, req AcceptRequest) (meals.MealDTO, error) {
	return s.meals.Create(ctx, meals.CreateMealRequest{
		Name:              req.Name,
		Ingredients:       req.Ingredients,
		Recipe:            req.Recipe,
		FamilyPreferences: keepFamilyTags(req.FamilyPreferences),
	})
}

// ImportURL extracts a suggestion from a recipe web page.
func (s *Service) ImportURL(ctx context.Context, req ImportRequest) (SuggestionDTO, error) {
	raw := strings.TrimSpace(req.URL)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return SuggestionDTO{}, fmt.Errorf("%w: url must be an absolute http or https URL", planning.ErrValidation)
	}

	text, err := s.fetcher.FetchText(ctx, raw)
	if err != nil {
		s.logger.Warn("recipe import fetch failed", zap.String("url", raw), zap.Error(err))
		return SuggestionDTO{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if text == "" {
		return SuggestionDTO{}, fmt.Errorf("%w: page has no readable text", ErrUpstream)
	}

	suggestion, err := s.provider.SuggestMeal(ctx, ai.SuggestRequest{
		SourceText: text,
		SourceURL:  raw,
		FamilyKeys: familyKeys(),
	})
	if err != nil {
		s.logger.Warn("recipe import extraction failed", zap.String("url", raw), zap.Error(err))
		return SuggestionDTO{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	dto := toDTO(suggestion)
	dto.SourceURL = raw
	return dto, nil
}

func toDTO(s ai.MealSuggestion) SuggestionDTO {
	return SuggestionDTO{
		Name:              strings.TrimSpace(s.Name),
		Ingredients:       cleanList(s.Ingredients),
		Recipe:            strings.TrimSpace(s.Recipe),
		FamilyPreferences: keepFamilyTags(s.FamilyTags),
		Cuisine:           strings.TrimSpace(s.Cuisine),
		Difficulty:        strings.ToLower(strings.TrimSpace(s.Difficulty)),
		PrepMinutes:       s.PrepMinutes,
	}
}

// keepFamilyTags lower-cases tags and drops unknown and repeated ones.
func keepFamilyTags(tags []string) []string {
	out := []string{}
	seen := make(map[string]bool)
	for _, tag := range tags {
		key := strings.ToLower(strings.TrimSpace(tag))
		if !meals.IsFamilyMember(key) || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, key)
	}
	return out
}

func cleanList(items []string) []string {
	out := []string{}
	for _, item := range items {
		if v := strings.TrimSpace(item); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func familyKeys() []string {
	keys := make([]string, len(meals.FamilyMembers))
	for i, m := range meals.FamilyMembers {
		keys[i] = m.Key
	}
	return keys
}
