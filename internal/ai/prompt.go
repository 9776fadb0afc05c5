package ai

import (
	"encoding/json"
	"fmt"
	"strings"
)

const (
	mealStartTag = "<meal>"
	mealEndTag   = "</meal>"
)

// maxSourceChars bounds imported page text sent to a provider.
const maxSourceChars = 12000

func buildPrompt(req SuggestRequest) string {
	var sb strings.Builder

	if req.SourceText != "" {
		sb.WriteString("You are a recipe extraction expert. Extract the recipe from the page text below.\n")
	} else {
		sb.WriteString("You are a family meal planning assistant. Suggest one meal for this request: ")
		sb.WriteString(strings.TrimSpace(req.Prompt))
		sb.WriteString("\n")
	}

	if len(req.Dietary) > 0 {
		sb.WriteString("Dietary requirements: " + strings.Join(req.Dietary, ", ") + "\n")
	}
	if req.Cuisine != "" {
		sb.WriteString("Cuisine: " + req.Cuisine + "\n")
	}
	if req.Difficulty != "" {
		sb.WriteString("Difficulty: " + req.Difficulty + "\n")
	}
	if len(req.FamilyKeys) > 0 {
		sb.WriteString("family_tags may only contain: " + strings.Join(req.FamilyKeys, ", ") + "\n")
	}

	sb.WriteString(`Return the result strictly as a JSON object inside <meal></meal> tags with this structure:
<meal>{"name":"Meal name","ingredients":["item 1","item 2"],"recipe":"Step by step instructions","family_tags":["mom"],"cuisine":"italian","difficulty":"easy","prep_minutes":30}</meal>
`)

	if req.SourceText != "" {
		text := req.SourceText
		if len(text) > maxSourceChars {
			text = text[:maxSourceChars]
		}
		if req.SourceURL != "" {
			sb.WriteString("Source URL: " + req.SourceURL + "\n")
		}
		sb.WriteString("Page text:\n")
		sb.WriteString(text)
	}

	return sb.String()
}

// parseSuggestion reads a suggestion from model output. It accepts a <meal>
// block, a fenced ```json block or a bare JSON object.
func parseSuggestion(content string) (MealSuggestion, error) {
	chunk := strings.TrimSpace(content)

	if start := strings.Index(chunk, mealStartTag); start != -1 {
		if end := strings.Index(chunk, mealEndTag); end > start {
			chunk = strings.TrimSpace(chunk[start+len(mealStartTag) : end])
		}
	}

	if strings.HasPrefix(chunk, "```") {
		chunk = strings.TrimPrefix(chunk, "```json")
		chunk = strings.TrimPrefix(chunk, "```")
		if end := strings.LastIndex(chunk, "```"); end != -1 {
			chunk = chunk[:end]
		}
		chunk = strings.TrimSpace(chunk)
	}

	if start, end := strings.Index(chunk, "{"), strings.LastIndex(chunk, "}"); start != -1 && end > start {
		chunk = chunk[start : end+1]
	}

	var s MealSuggestion
	if err := json.Unmarshal([]byte(chunk), &s); err != nil {
		return MealSuggestion{}, fmt.Errorf("failed to parse suggestion: %w", err)
	}
	if strings.TrimSpace(s.Name) == "" {
		return MealSuggestion{}, fmt.Errorf("suggestion has no name")
	}
	return s, nil
}
