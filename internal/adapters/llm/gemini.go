package llm

import (
	"context"
	"fmt"

	"google.golang.org/genai"

	"github.com/PabloGalante/shopchat/internal/domain"
)

// GeminiConfig selects the backend: Vertex AI when Project is set, the
// Gemini API when APIKey is set.
type GeminiConfig struct {
	Project  string
	Location string
	APIKey   string
	Model    string
}

// GeminiClient implements domain.IntentClassifier and
// domain.ResponseGenerator on Gemini models.
type GeminiClient struct {
	client    *genai.Client
	modelName string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch {
	case cfg.APIKey != "":
		cc.APIKey = cfg.APIKey
		cc.Backend = genai.BackendGeminiAPI
	case cfg.Project != "" && cfg.Location != "":
		cc.Project = cfg.Project
		cc.Location = cfg.Location
		cc.Backend = genai.BackendVertexAI
	default:
		return nil, fmt.Errorf("gemini: either an API key or a project and location must be set")
	}

	modelName := cfg.Model
	if modelName == "" {
		modelName = "gemini-2.5-flash-lite"
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("creating genai client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: modelName,
	}, nil
}

// Classify implements domain.IntentClassifier.
func (g *GeminiClient) Classify(
	ctx context.Context,
	message string,
	convCtx domain.ConversationContext,
) (domain.Classification, error) {
	contents := []*genai.Content{
		genai.NewContentFromText(BuildClassifierPrompt(message, convCtx), genai.RoleUser),
	}

	temp := float32(0)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(ClassifierSystemPrompt(), genai.RoleUser),
		Temperature:       &temp,
		MaxOutputTokens:   512,
		ResponseMIMEType:  "application/json",
	}

	text, err := g.generate(ctx, contents, cfg)
	if err != nil {
		return domain.Classification{}, err
	}
	return ParseClassification(text)
}

// GenerateResponse implements domain.ResponseGenerator.
func (g *GeminiClient) GenerateResponse(
	ctx context.Context,
	message string,
	result domain.Result,
	convCtx domain.ConversationContext,
) (string, error) {
	// History (user / assistant) as conversation
	var contents []*genai.Content
	for _, ex := range convCtx.History {
		contents = append(contents,
			genai.NewContentFromText(ex.UserMessage, genai.RoleUser),
			genai.NewContentFromText(ex.AssistantMessage, genai.RoleModel),
		)
	}

	prompt, err := BuildResponsePrompt(message, result)
	if err != nil {
		return "", err
	}
	contents = append(contents, genai.NewContentFromText(prompt, genai.RoleUser))

	temp := float32(0.5)
	topP := float32(0.9)
	cfg := &genai.GenerateContentConfig{
		SystemInstruction: genai.NewContentFromText(responderSystemPrompt, genai.RoleUser),
		Temperature:       &temp,
		TopP:              &topP,
		MaxOutputTokens:   1024,
	}

	return g.generate(ctx, contents, cfg)
}

func (g *GeminiClient) generate(
	ctx context.Context,
	contents []*genai.Content,
	cfg *genai.GenerateContentConfig,
) (string, error) {
	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", fmt.Errorf("gemini returned empty text")
	}
	return text, nil
}
