// ABOUTME: Catalog of chat models offered to the browser client
// ABOUTME: Served by the config API and the models CLI command
package config

// DefaultModel is used whenever a request does not name a model
const DefaultModel = "gpt-4.1"

// ModelInfo describes one selectable model
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Provider    string `json:"provider"`
	Description string `json:"description,omitempty"`
}

// Models returns the supported model catalog, recommended model first
func Models() []ModelInfo {
	return []ModelInfo{
		{ID: "gpt-4.1", Name: "GPT-4.1 (推荐)", Provider: "openai", Description: "最新版本，支持100万token上下文窗口"},
		{ID: "gpt-4.1-2025-04-14", Name: "GPT-4.1 (2025-04-14)", Provider: "openai", Description: "GPT-4.1 特定版本"},
		{ID: "gpt-4.1-mini", Name: "GPT-4.1 Mini", Provider: "openai", Description: "轻量级版本，成本更低"},
		{ID: "gpt-4.1-mini-2025-04-14", Name: "GPT-4.1 Mini (2025-04-14)", Provider: "openai", Description: "GPT-4.1 Mini 特定版本"},
		{ID: "gpt-4.1-nano", Name: "GPT-4.1 Nano", Provider: "openai", Description: "超轻量级版本"},
		{ID: "gpt-4.1-nano-2025-04-14", Name: "GPT-4.1 Nano (2025-04-14)", Provider: "openai", Description: "GPT-4.1 Nano 特定版本"},
		{ID: "gpt-5", Name: "GPT-5 (多模态)", Provider: "openai", Description: "最新多模态模型，功能强大"},
		{ID: "gpt-4o", Name: "GPT-4o", Provider: "openai", Description: "优化的GPT-4版本"},
		{ID: "gpt-4-turbo", Name: "GPT-4 Turbo", Provider: "openai", Description: "GPT-4 Turbo版本"},
		{ID: "gpt-4-turbo-preview", Name: "GPT-4 Turbo Preview", Provider: "openai", Description: "GPT-4 Turbo预览版"},
		{ID: "gpt-4", Name: "GPT-4", Provider: "openai", Description: "标准GPT-4版本"},
		{ID: "gpt-3.5-turbo", Name: "GPT-3.5 Turbo", Provider: "openai", Description: "经济实惠的选择"},
	}
}

// KnownModel reports whether id is in the catalog
func KnownModel(id string) bool {
	for _, m := range Models() {
		if m.ID == id {
			return true
		}
	}
	return false
}
