package service

import (
	"strings"

	"aihub-backend/internal/model"
)

// CatalogService serves the AI-model catalog. The catalog is seed data held
// in memory; filtering is a straight scan over the slice.
type CatalogService struct {
	models     []model.CatalogModel
	categories []model.CatalogOption
	providers  []model.CatalogOption
	questions  []string
}

func NewCatalogService() *CatalogService {
	return &CatalogService{
		models: []model.CatalogModel{
			{
				ID:          "corporate-assistant",
				Name:        "Corporate Assistant",
				Provider:    "Custom",
				Category:    "nlp",
				Description: "Specialized model for corporate tasks, document analysis and business-process automation.",
				Badge:       "RECOMMENDED",
				Recommended: true,
			},
			{
				ID:          "qazllm-ultra",
				Name:        "QazLLM-Ultra",
				Provider:    "Custom",
				Category:    "nlp",
				Description: "Sovereign large language model for the enterprise sector. Safe handling of confidential data.",
				Badge:       "POPULAR",
				Recommended: true,
			},
			{
				ID:          "securityguard-ai",
				Name:        "SecurityGuard AI",
				Provider:    "Custom",
				Category:    "analytics",
				Description: "Cybersecurity and threat-monitoring model. Network traffic analysis and real-time anomaly detection.",
				Badge:       "SECURITY",
				Recommended: true,
			},
			{
				ID:          "gpt-4-turbo",
				Name:        "GPT-4 Turbo",
				Provider:    "OpenAI",
				Category:    "nlp",
				Description: "General-purpose language model for text analysis, generation and complex reasoning.",
				Badge:       "POPULAR",
			},
			{
				ID:          "claude-3-opus",
				Name:        "Claude 3 Opus",
				Provider:    "Anthropic",
				Category:    "nlp",
				Description: "Long-context model for working with large documents and multi-step analysis.",
			},
			{
				ID:          "llama-2-70b",
				Name:        "Llama 2 70B",
				Provider:    "Meta",
				Category:    "nlp",
				Description: "Open-weights language model suitable for on-premises deployment.",
			},
			{
				ID:          "dall-e-3",
				Name:        "DALL-E 3",
				Provider:    "OpenAI",
				Category:    "vision",
				Description: "Image generation from text descriptions for presentations and marketing material.",
			},
			{
				ID:          "whisper-large-v3",
				Name:        "Whisper Large V3",
				Provider:    "OpenAI",
				Category:    "speech",
				Description: "Speech recognition and transcription of meetings and calls.",
			},
			{
				ID:          "enterprise-classifier",
				Name:        "Enterprise Classifier",
				Provider:    "Custom",
				Category:    "analytics",
				Description: "In-house document and ticket classifier trained on corporate data.",
			},
		},
		categories: []model.CatalogOption{
			{ID: "all", Name: "All categories"},
			{ID: "nlp", Name: "Text processing"},
			{ID: "vision", Name: "Computer vision"},
			{ID: "speech", Name: "Speech recognition"},
			{ID: "analytics", Name: "Analytics"},
		},
		providers: []model.CatalogOption{
			{ID: "all", Name: "All providers"},
			{ID: "openai", Name: "OpenAI"},
			{ID: "anthropic", Name: "Anthropic"},
			{ID: "meta", Name: "Meta"},
			{ID: "google", Name: "Google"},
			{ID: "custom", Name: "Custom"},
		},
		questions: []string{
			"How do I configure a corporate AI model for contract analysis?",
			"Which models are best suited for technical documentation?",
			"How do I keep data secure when working with AI models?",
			"What business processes can be automated with AI?",
		},
	}
}

// ListModels filters the catalog. Empty or "all" filters match everything;
// the query matches name and description, case-insensitively.
func (s *CatalogService) ListModels(query, category, provider string) []model.CatalogModel {
	query = strings.ToLower(strings.TrimSpace(query))
	category = strings.ToLower(category)
	provider = strings.ToLower(provider)

	result := make([]model.CatalogModel, 0, len(s.models))
	for _, m := range s.models {
		if query != "" &&
			!strings.Contains(strings.ToLower(m.Name), query) &&
			!strings.Contains(strings.ToLower(m.Description), query) {
			continue
		}
		if category != "" && category != "all" && m.Category != category {
			continue
		}
		if provider != "" && provider != "all" && strings.ToLower(m.Provider) != provider {
			continue
		}
		result = append(result, m)
	}

	return result
}

// RecommendedModels returns the featured subset shown on the welcome screen.
func (s *CatalogService) RecommendedModels() []model.CatalogModel {
	result := make([]model.CatalogModel, 0, 3)
	for _, m := range s.models {
		if m.Recommended {
			result = append(result, m)
		}
	}
	return result
}

func (s *CatalogService) Categories() []model.CatalogOption {
	return s.categories
}

func (s *CatalogService) Providers() []model.CatalogOption {
	return s.providers
}

// SampleQuestions are the prompt suggestions for an empty chat.
func (s *CatalogService) SampleQuestions() []string {
	return s.questions
}
