package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	_ "github.com/joho/godotenv/autoload"
)

const (
	defaultAPIBase = "http://localhost:8080"
)

var (
	apiBase   string
	client    = &http.Client{Timeout: 30 * time.Second}
	testDate  string
	weekStart string

	mealID     string
	listID     string
	itemID     string
	shareToken string
)

func main() {
	fmt.Println("=== Mealboard E2E Smoke Test ===")
	fmt.Println()

	apiBase = strings.TrimRight(getEnv("API_BASE_URL", defaultAPIBase), "/")
	fmt.Printf("API Base: %s\n", apiBase)
	fmt.Println()

	today := time.Now()
	testDate = today.Format("2006-01-02")
	weekStart = today.AddDate(0, 0, -int(today.Weekday())).Format("2006-01-02")

	steps := []struct {
		name string
		fn   func() error
	}{
		{"Healthz", testHealthz},
		{"Create Meal", testCreateMeal},
		{"Assign Dinner", testAssignDinner},
		{"Calendar Day", testCalendarDay},
		{"Generate Grocery List", testGenerateGroceryList},
		{"Toggle Item", testToggleItem},
		{"Grouped List", testGroupedList},
		{"Download CSV", testDownloadCSV},
		{"Share List", testShareList},
		{"Open Shared List", testOpenSharedList},
		{"Suggest Meal", testSuggestMeal},
		{"Delete Grocery List", testDeleteGroceryList},
		{"Clear Dinner", testClearDinner},
		{"Delete Meal", testDeleteMeal},
	}

	failed := false
	for i, step := range steps {
		fmt.Printf("[%d/%d] %s... ", i+1, len(steps), step.name)
		if err := step.fn(); err != nil {
			fmt.Printf("FAILED\n")
			fmt.Printf("  Error: %v\n\n", err)
			failed = true
			break
		}
		fmt.Printf("OK\n")
	}

	fmt.Println()
	if failed {
		fmt.Println("SMOKE TEST FAILED")
		os.Exit(1)
	}

	fmt.Println("ALL SMOKE TESTS PASSED")
}

func testHealthz() error {
	_, err := call("GET", "/healthz", nil, http.StatusOK, nil)
	return err
}

func testCreateMeal() error {
	var meal struct {
		ID string `json:"id"`
	}
	_, err := call("POST", "/v1/meals", map[string]any{
		"name":               "Smoke Test Spaghetti",
		"ingredients":        []string{"Pasta", "Tomato Sauce", "Olive Oil"},
		"recipe":             "Boil pasta, warm sauce, combine.",
		"family_preferences": []string{"dad", "baby"},
	}, http.StatusCreated, &meal)
	if err != nil {
		return err
	}
	if meal.ID == "" {
		return fmt.Errorf("no meal id in response")
	}
	mealID = meal.ID
	return nil
}

func testAssignDinner() error {
	var day struct {
		Dinner *string `json:"dinner"`
	}
	_, err := call("PUT", "/v1/meal-plans/"+testDate, map[string]any{
		"meal_slot": "dinner",
		"meal_id":   mealID,
	}, http.StatusOK, &day)
	if err != nil {
		return err
	}
	if day.Dinner == nil || *day.Dinner != mealID {
		return fmt.Errorf("dinner not assigned")
	}
	return nil
}

func testCalendarDay() error {
	_, err := call("GET", "/v1/calendar/day/"+testDate, nil, http.StatusOK, nil)
	return err
}

func testGenerateGroceryList() error {
	var list struct {
		ID    string `json:"id"`
		Items []struct {
			ID   string `json:"id"`
			Name string `json:"name"`
		} `json:"items"`
	}
	_, err := call("POST", "/v1/grocery-lists", map[string]any{
		"name":          "Smoke Test Groceries",
		"week_start":    weekStart,
		"auto_generate": true,
	}, http.StatusCreated, &list)
	if err != nil {
		return err
	}
	if len(list.Items) == 0 {
		return fmt.Errorf("generated list has no items")
	}
	listID = list.ID
	itemID = list.Items[0].ID
	return nil
}

func testToggleItem() error {
	_, err := call("PUT", "/v1/grocery-lists/"+listID+"/items/"+itemID, map[string]any{
		"checked": true,
	}, http.StatusOK, nil)
	return err
}

func testGroupedList() error {
	var grouped struct {
		Categories []struct {
			Category string `json:"category"`
		} `json:"categories"`
	}
	if _, err := call("GET", "/v1/grocery-lists/"+listID+"/grouped", nil, http.StatusOK, &grouped); err != nil {
		return err
	}
	if len(grouped.Categories) == 0 {
		return fmt.Errorf("no categories in grouped list")
	}
	return nil
}

func testDownloadCSV() error {
	body, err := call("GET", "/v1/grocery-lists/"+listID+"/export?format=csv", nil, http.StatusOK, nil)
	if err != nil {
		return err
	}
	if !strings.HasPrefix(string(body), "category,") {
		return fmt.Errorf("unexpected csv header: %.40q", string(body))
	}
	return nil
}

func testShareList() error {
	var share struct {
		Token string `json:"token"`
	}
	if _, err := call("POST", "/v1/grocery-lists/"+listID+"/share", nil, http.StatusOK, &share); err != nil {
		return err
	}
	if share.Token == "" {
		return fmt.Errorf("no share token in response")
	}
	shareToken = share.Token
	return nil
}

func testOpenSharedList() error {
	_, err := call("GET", "/v1/shared/grocery-lists/"+shareToken, nil, http.StatusOK, nil)
	return err
}

func testSuggestMeal() error {
	var suggestion struct {
		Suggestion struct {
			Name string `json:"name"`
		} `json:"suggestion"`
	}
	_, err := call("POST", "/v1/suggestions", map[string]any{
		"prompt": "quick chicken dinner",
	}, http.StatusOK, &suggestion)
	if err != nil {
		return err
	}
	if suggestion.Suggestion.Name == "" {
		return fmt.Errorf("empty suggestion")
	}
	return nil
}

func testDeleteGroceryList() error {
	_, err := call("DELETE", "/v1/grocery-lists/"+listID, nil, http.StatusNoContent, nil)
	return err
}

func testClearDinner() error {
	_, err := call("PUT", "/v1/meal-plans/"+testDate, map[string]any{
		"meal_slot": "dinner",
		"meal_id":   nil,
	}, http.StatusOK, nil)
	return err
}

func testDeleteMeal() error {
	_, err := call("DELETE", "/v1/meals/"+mealID, nil, http.StatusNoContent, nil)
	return err
}

// Helper functions

// call sends payload as JSON, checks the status and decodes into out when set.
func call(method, path string, payload any, wantStatus int, out any) ([]byte, error) {
	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequest(method, apiBase+path, reader)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != wantStatus {
		return body, fmt.Errorf("status=%d body=%.4096s", resp.StatusCode, string(body))
	}
	if out != nil {
		if err := json.Unmarshal(body, out); err != nil {
			return body, fmt.Errorf("decode response: %w", err)
		}
	}
	return body, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
