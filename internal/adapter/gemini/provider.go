// Package gemini implements the inference provider contract on top of the
// Gemini generateContent REST API. Every call requests schema-constrained
// JSON so responses decode directly into the contract types.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/heartmarshall/nutriplan-backend/internal/config"
	"github.com/heartmarshall/nutriplan-backend/internal/provider"
)

const (
	parseSystemInstruction  = "You are a precise nutrition assistant. Your goal is to accurately estimate calories and macros from free-text food logs."
	visionSystemInstruction = "You are an expert nutritionist with computer vision capabilities. Identify food visually, estimate portion sizes based on standard dishware, and calculate nutrition facts."
)

// Provider calls the Gemini API over HTTP.
type Provider struct {
	apiKey      string
	baseURL     string
	textModel   string
	visionModel string
	planModel   string
	httpClient  *http.Client
	log         *slog.Logger
}

// New creates a Provider from configuration.
func New(cfg config.GeminiConfig, logger *slog.Logger) *Provider {
	return &Provider{
		apiKey:      cfg.APIKey,
		baseURL:     cfg.BaseURL,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		planModel:   cfg.PlanModel,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		log:         logger.With("adapter", "gemini"),
	}
}

// NewWithURL creates a Provider with a custom base URL (for testing).
func NewWithURL(cfg config.GeminiConfig, baseURL string, logger *slog.Logger) *Provider {
	p := New(cfg, logger)
	p.baseURL = baseURL
	return p
}

// ParseFoodText extracts structured food items from a free-text log entry.
func (p *Provider) ParseFoodText(ctx context.Context, description string) ([]provider.FoodResult, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{
			Text: fmt.Sprintf("Analyze the following food log and extract nutritional information: %q. Estimate portion sizes if not specified.", description),
		}}}},
		SystemInstruction: &content{Parts: []part{{Text: parseSystemInstruction}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   foodItemSchema(),
		},
	}

	return p.generateFood(ctx, p.textModel, req)
}

// AnalyzeFoodImage extracts structured food items from a photo.
func (p *Provider) AnalyzeFoodImage(ctx context.Context, image []byte, mimeType string) ([]provider.FoodResult, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{
			{InlineData: &inlineData{
				MimeType: mimeType,
				Data:     base64.StdEncoding.EncodeToString(image),
			}},
			{Text: "Analyze this image. Identify all food items visible, estimate their portion sizes, and calculate total calories and macros. Return a JSON array."},
		}}},
		SystemInstruction: &content{Parts: []part{{Text: visionSystemInstruction}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   foodItemSchema(),
		},
	}

	return p.generateFood(ctx, p.visionModel, req)
}

// GeneratePlan produces a meal plan for the structured request.
func (p *Provider) GeneratePlan(ctx context.Context, planReq provider.PlanRequest) (*provider.PlanResult, error) {
	req := generateRequest{
		Contents: []content{{Parts: []part{{Text: buildPlanPrompt(planReq)}}}},
		GenerationConfig: &generationConfig{
			ResponseMimeType: "application/json",
			ResponseSchema:   mealPlanSchema(),
		},
	}

	text, err := p.generate(ctx, p.planModel, req)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(text, '{', '}')
	if err != nil {
		return nil, fmt.Errorf("gemini: plan response: %w", err)
	}

	var result provider.PlanResult
	if err := json.Unmarshal([]byte(jsonStr), &result); err != nil {
		return nil, fmt.Errorf("gemini: decode plan: %w", err)
	}

	p.log.DebugContext(ctx, "plan generated", slog.Int("meals", len(result.Meals)))
	return &result, nil
}

// generateFood runs a food-recognition request and decodes the item array.
func (p *Provider) generateFood(ctx context.Context, model string, req generateRequest) ([]provider.FoodResult, error) {
	text, err := p.generate(ctx, model, req)
	if err != nil {
		return nil, err
	}

	jsonStr, err := extractJSON(text, '[', ']')
	if err != nil {
		return nil, fmt.Errorf("gemini: food response: %w", err)
	}

	var results []provider.FoodResult
	if err := json.Unmarshal([]byte(jsonStr), &results); err != nil {
		return nil, fmt.Errorf("gemini: decode food items: %w", err)
	}

	p.log.DebugContext(ctx, "food recognized", slog.Int("items", len(results)))
	return results, nil
}

// generate posts one generateContent request and returns the response text.
func (p *Provider) generate(ctx context.Context, model string, genReq generateRequest) (string, error) {
	body, err := json.Marshal(genReq)
	if err != nil {
		return "", fmt.Errorf("gemini: marshal request: %w", err)
	}

	reqURL := fmt.Sprintf("%s/models/%s:generateContent?key=%s", p.baseURL, model, p.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, reqURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("gemini: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	p.log.DebugContext(ctx, "gemini request", slog.String("model", model))

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini: request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("gemini: read body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		p.log.ErrorContext(ctx, "gemini error response",
			slog.String("model", model),
			slog.Int("status", resp.StatusCode),
		)
		return "", fmt.Errorf("gemini: unexpected status %d", resp.StatusCode)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", fmt.Errorf("gemini: decode response: %w", err)
	}

	text := genResp.text()
	if text == "" {
		return "", fmt.Errorf("gemini: empty response from model %s", model)
	}
	return text, nil
}

// buildPlanPrompt renders the plan request into the generation prompt.
func buildPlanPrompt(req provider.PlanRequest) string {
	var b strings.Builder

	b.WriteString("You are a nutrition engine.\n")
	b.WriteString("Your job is to generate meals that perfectly hit a user's remaining daily calories and macros.\n\n")

	b.WriteString("INPUT:\n")
	fmt.Fprintf(&b, "- calories_left: %d\n", req.CaloriesLeft)
	fmt.Fprintf(&b, "- protein_left: %d\n", req.ProteinLeft)
	fmt.Fprintf(&b, "- fat_left: %d\n", req.FatLeft)
	fmt.Fprintf(&b, "- carbs_left: %d\n", req.CarbsLeft)
	fmt.Fprintf(&b, "- current_time: %s\n", req.TimeOfDay)
	fmt.Fprintf(&b, "- suggested_windows: %s\n", strings.Join(req.Windows, ", "))
	if req.Tweak != "" {
		fmt.Fprintf(&b, "- IMPORTANT USER TWEAK/INSTRUCTION: %q. Adjust the generated meals to fit this request while still hitting macros.\n", req.Tweak)
	}

	b.WriteString("\nRULES:\n")
	fmt.Fprintf(&b, "1. %s\n", req.MealDirective)
	b.WriteString("2. Meals must match remaining macros within:\n")
	fmt.Fprintf(&b, "   - ±%d%% calories\n", req.CalorieTolerancePct)
	fmt.Fprintf(&b, "   - ±%d%% protein/fat/carbs\n", req.MacroTolerancePct)
	b.WriteString("3. Every meal must include exact gram weights for ingredients.\n")
	fmt.Fprintf(&b, "4. Allowed ingredients: %s. No exotic ingredients.\n", strings.Join(req.AllowedIngredients, ", "))
	b.WriteString("5. Label the 'mealType' logically based on the current time (e.g. if it's 6pm, suggest Dinner).\n")

	b.WriteString("\nOutput the 'meals' array.\n")
	return b.String()
}

// extractJSON finds the first complete JSON value delimited by the given
// bracket pair and verifies it is valid JSON.
func extractJSON(s string, open, close byte) (string, error) {
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, close)
	if start == -1 || end == -1 || end <= start {
		return "", fmt.Errorf("no JSON found in response")
	}

	jsonStr := s[start : end+1]
	if !json.Valid([]byte(jsonStr)) {
		return "", fmt.Errorf("response does not contain valid JSON")
	}
	return jsonStr, nil
}
