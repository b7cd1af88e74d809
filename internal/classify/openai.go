package classify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"aijobs-engine/internal/domain"
)

const systemPrompt = "You are a job classification expert. Always respond with valid JSON only."

// OpenAIScorer sends title/company/truncated description to a chat model
// with a fixed rubric and expects a structured JSON reply. Any backend
// error or malformed reply maps to the same rejection as a clean negative;
// nothing raises past Score.
type OpenAIScorer struct {
	client    *openai.Client
	model     string
	threshold float64
	prompt    string
}

func NewOpenAIScorer(apiKey, model string, threshold float64, keywords, excluded []string) *OpenAIScorer {
	return NewOpenAIScorerWithBaseURL(apiKey, "", model, threshold, keywords, excluded)
}

// NewOpenAIScorerWithBaseURL points the client at an alternate API root.
// Overridable for tests.
func NewOpenAIScorerWithBaseURL(apiKey, baseURL, model string, threshold float64, keywords, excluded []string) *OpenAIScorer {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}
	return &OpenAIScorer{
		client:    openai.NewClientWithConfig(cfg),
		model:     model,
		threshold: threshold,
		prompt:    buildPrompt(keywords, excluded),
	}
}

func (s *OpenAIScorer) Name() string { return "openai" }

type modelReply struct {
	RelevanceScore float64  `json:"relevance_score"`
	Reasoning      string   `json:"reasoning"`
	Category       string   `json:"category"`
	Tags           []string `json:"tags"`
}

func (s *OpenAIScorer) Score(ctx context.Context, job domain.Job) domain.Classification {
	if strings.TrimSpace(job.Title) == "" {
		return domain.Rejection("Missing job title")
	}

	description := job.TruncatedDescription()
	if description == "" {
		description = "No description provided"
	}
	userPrompt := fmt.Sprintf("%s\n\nJob Details:\nTitle: %s\nCompany: %s\nDescription: %s",
		s.prompt, job.Title, job.Company, description)

	content, err := s.complete(ctx, userPrompt)
	if err != nil {
		log.Printf("[classify:openai] title=%q err=%v", job.Title, err)
		return domain.Rejection(fmt.Sprintf("Classification error: %v", err))
	}

	var reply modelReply
	if err := json.Unmarshal([]byte(content), &reply); err != nil {
		log.Printf("[classify:openai] malformed reply title=%q err=%v", job.Title, err)
		return domain.Rejection(fmt.Sprintf("Classification error: %v", err))
	}

	score := clamp01(reply.RelevanceScore)
	tags := reply.Tags
	if tags == nil {
		tags = []string{}
	}

	return domain.Classification{
		RelevanceScore: score,
		Reasoning:      reply.Reasoning,
		Category:       parseCategory(reply.Category),
		Tags:           tags,
		IsRelevant:     score >= s.threshold,
	}
}

// complete asks for a JSON-object reply, retrying once in plain mode for
// models that reject the response_format parameter.
func (s *OpenAIScorer) complete(ctx context.Context, userPrompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		Temperature: 0.3,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	}

	resp, err := s.client.CreateChatCompletion(ctx, req)
	if err != nil {
		log.Printf("[classify:openai] JSON mode failed, retrying plain: %v", err)
		req.ResponseFormat = nil
		resp, err = s.client.CreateChatCompletion(ctx, req)
		if err != nil {
			return "", err
		}
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion")
	}
	return resp.Choices[0].Message.Content, nil
}

func buildPrompt(keywords, excluded []string) string {
	return fmt.Sprintf(`You are a job classification expert for AI/ML research and engineering positions.

Analyze the following job posting and determine its relevance to AI/ML research and engineering roles.

RELEVANT KEYWORDS: %s
EXCLUDED KEYWORDS (lower relevance): %s

Evaluation Criteria:
1. AI/ML Keywords Presence (0.0-0.3): Does the job title/description contain relevant AI/ML terms?
2. Research Orientation (0.0-0.3): Is this a research-focused role (vs. pure engineering)?
3. Technical Depth (0.0-0.2): Does the description indicate deep technical requirements?
4. Career Stage Alignment (0.0-0.2): Is this suitable for researchers/engineers (not sales/marketing)?

Provide a JSON response with:
- relevance_score: float (0.0 to 1.0)
- reasoning: string (brief explanation)
- category: string (one of: "Research", "Engineering", "Data Science", "AI/ML", "Other")
- tags: array of strings (relevant technology tags)

Respond ONLY with valid JSON, no additional text.`,
		strings.Join(keywords, ", "), strings.Join(excluded, ", "))
}

func parseCategory(s string) domain.Category {
	switch strings.TrimSpace(s) {
	case string(domain.CategoryResearch):
		return domain.CategoryResearch
	case string(domain.CategoryEngineering):
		return domain.CategoryEngineering
	case string(domain.CategoryDataScience):
		return domain.CategoryDataScience
	case string(domain.CategoryAIML):
		return domain.CategoryAIML
	default:
		return domain.CategoryOther
	}
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
