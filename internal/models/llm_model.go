package models

// LLMModel represents a single option of the model selector.
type LLMModel struct {
	Key          ModelType `json:"key"`
	DisplayName  string    `json:"displayName"`
	ProviderID   string    `json:"providerId"`
	ProviderName string    `json:"providerName"`
	Enabled      bool      `json:"enabled"`
}

// LLMModelGroup groups models by their provider for presentation.
type LLMModelGroup struct {
	ProviderID   string     `json:"providerId"`
	ProviderName string     `json:"providerName"`
	Models       []LLMModel `json:"models"`
}
