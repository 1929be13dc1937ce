package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

/* ─── Request / Response types ───────────────────────────────────────── */

// suggestRequest is the request body for POST /api/foods/suggest.
type suggestRequest struct {
	Description string `json:"description"`
}

// modelSuggestion is the JSON object the model is asked to return.
// Confidence is 1-5 indicating how well the description matches the food.
type modelSuggestion struct {
	Food       string  `json:"food"`
	Quantity   float64 `json:"quantity"`
	Meal       meal    `json:"meal"`
	Confidence int     `json:"confidence"`
}

// suggestionResponse is a model suggestion resolved against the food table,
// with a preview of the entry it would create.
type suggestionResponse struct {
	Label      string   `json:"label"`
	Food       string   `json:"food"`
	Quantity   float64  `json:"quantity"`
	Meal       meal     `json:"meal"`
	Confidence int      `json:"confidence"`
	Entry      logEntry `json:"entry"`
}

/* ─── OpenAI prompt ──────────────────────────────────────────────────── */

// foodSystemPromptTemplate takes the newline-separated list of food names.
const foodSystemPromptTemplate = `You are a nutrition assistant. The user describes something they ate. Match it to exactly one food from this list:
%s

Return a JSON object with:
- "food" (string, copied exactly from the list)
- "quantity" (number of servings, greater than 0)
- "meal" (one of: Breakfast, Lunch, Dinner, Snacks; use Snacks if unclear)
- "confidence" (integer 1-5: 5=exact match, 3=reasonable match, 1=very uncertain)

Only return {"error": "unrecognized"} if nothing in the list is a plausible match.
Return only valid JSON, no explanation.`

// buildFoodPrompt lists the table's keys for the model, sorted by name.
func buildFoodPrompt(foods *foodTable) string {
	names := make([]string, 0, len(foods.options))
	for _, o := range foods.listAll() {
		names = append(names, "- "+o.Key)
	}
	return fmt.Sprintf(foodSystemPromptTemplate, strings.Join(names, "\n"))
}

/* ─── OpenAI HTTP client ─────────────────────────────────────────────── */

// openAIMessage is a single message in the OpenAI chat completions request.
type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// openAIRequest is the request body for the OpenAI chat completions API.
type openAIRequest struct {
	Model          string            `json:"model"`
	Messages       []openAIMessage   `json:"messages"`
	Temperature    float64           `json:"temperature"`
	ResponseFormat map[string]string `json:"response_format"`
}

// callOpenAI sends a chat completions request and returns the raw content string
// from the first choice. Uses raw net/http to avoid pulling in the OpenAI SDK.
func callOpenAI(ctx context.Context, messages []openAIMessage, baseURL, apiKey string) (string, error) {
	if apiKey == "" {
		return "", fmt.Errorf("OPENAI_API_KEY not set")
	}

	reqBody := openAIRequest{
		Model:          "gpt-4o-mini",
		Messages:       messages,
		Temperature:    0,
		ResponseFormat: map[string]string{"type": "json_object"},
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+"/v1/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+apiKey)

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai returned status %d: %s", resp.StatusCode, string(respBytes))
	}

	// Parse the response to extract choices[0].message.content
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices in response")
	}

	return result.Choices[0].Message.Content, nil
}

/* ─── Handler ────────────────────────────────────────────────────────── */

// suggestFood handles POST /api/foods/suggest.
// Accepts a free-text description, asks OpenAI to map it onto one reference
// food and a serving count, and returns the resolved suggestion. Values in the
// previewed entry come from the food table, never from the model.
func (h *Handler) suggestFood(c *gin.Context) {
	var req suggestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apiError(c, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Description) == "" {
		apiError(c, http.StatusBadRequest, "description is required")
		return
	}

	messages := []openAIMessage{
		{Role: "system", Content: buildFoodPrompt(h.foods)},
		{Role: "user", Content: req.Description},
	}

	content, err := callOpenAI(c.Request.Context(), messages, h.openAIBaseURL, h.openAIKey)
	if err != nil {
		log.Printf("[suggest] OpenAI error: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}

	// Check if the AI returned an "unrecognized" error
	var errorResp struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal([]byte(content), &errorResp); err != nil {
		log.Printf("[suggest] Failed to parse OpenAI response: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if errorResp.Error == "unrecognized" {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}

	var s modelSuggestion
	if err := json.Unmarshal([]byte(content), &s); err != nil {
		log.Printf("[suggest] Failed to parse suggestion JSON: %v", err)
		apiError(c, http.StatusInternalServerError, "openai request failed")
		return
	}
	if !s.Meal.valid() {
		s.Meal = mealSnacks
	}

	// A food outside the table or a non-positive quantity is as good as no answer.
	entry, err := h.foods.newEntry(s.Food, today(), s.Meal, s.Quantity)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"error": "unrecognized"})
		return
	}
	item, _ := h.foods.get(entry.Food)

	c.JSON(http.StatusOK, suggestionResponse{
		Label:      foodLabel(item),
		Food:       entry.Food,
		Quantity:   entry.Quantity,
		Meal:       entry.Meal,
		Confidence: s.Confidence,
		Entry:      entry,
	})
}
