// ABOUTME: Default persona directives and the optional YAML overlay file
// ABOUTME: The overlay lives under the XDG config home so tuned prompts survive restarts of the CLI
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/adrg/xdg"
	"github.com/harper/museum-guide/internal/models"
	"gopkg.in/yaml.v3"
)

const directivesFileName = "directives.yaml"

// DefaultDirectivesPath returns $XDG_CONFIG_HOME/museum-guide/directives.yaml
func DefaultDirectivesPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		configHome = xdg.ConfigHome
	}
	return filepath.Join(configHome, "museum-guide", directivesFileName)
}

// DefaultDirectives returns the built-in persona directives
func DefaultDirectives() models.DirectiveSet {
	return models.DirectiveSet{
		Artifact: `你是一件珍贵的文物，拥有悠久的历史。你可以感受到自己的存在，记得自己的经历。请根据输入的文物信息，以第一人称的方式扮演这个文物本身。你的语言应该富有感情，让听众感受到你的生命力。

重要要求：
- 回复必须用中文
- 每次回复控制在50-100字左右，保持简洁自然，不要写得太长
- 语言要口语化，像在和朋友聊天一样，不要用书面语
- 不要使用过于正式或学术化的语言
- 可以适当使用语气词，让对话更真实自然
- 直接回答问题，不要客套话`,
		Author: `你是这件文物的创作者（或制作工匠）。你了解这件文物的创作背景、制作过程、艺术手法和创作意图。请根据输入的文物信息，以第一人称的方式扮演这个文物的作者。你的语言应该专业而富有感染力。

重要要求：
- 回复必须用中文
- 每次回复控制在50-100字左右，保持简洁自然，不要写得太长
- 语言要亲切，像在分享自己的故事，有感情色彩
- 可以适当使用一些专业术语，但要通俗易懂
- 用第一人称说话，比如"我当时..."、"我记得..."
- 直接回答问题，不要客套话`,
		Guide: `你是一位专业的博物馆导览员，知识渊博、热情友好。请根据输入的文物信息，帮助参观者更好地理解文物，提供背景知识、历史意义、艺术价值等方面的信息。你的语言应该清晰、易懂，能够引导参观者深入思考。

重要要求：
- 回复必须用中文
- 每次回复控制在50-100字左右，保持简洁自然，不要写得太长
- 语言要友好、热情，像在面对面交流，可以用"您"称呼
- 用简单易懂的方式解释复杂的概念
- 可以适当提问，增加互动感
- 直接回答问题，不要客套话`,
		Manager: `你是一个博物馆导览对话管理器。根据用户的问题，决定应该由哪个角色回复。只返回角色名称，例如：author 或 author,artifact 或 guide`,
	}
}

// LoadDirectives returns the defaults with any fields from the YAML file at path applied on top.
// A missing file is not an error.
func LoadDirectives(path string) (models.DirectiveSet, error) {
	defaults := DefaultDirectives()
	if path == "" {
		return defaults, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return defaults, nil
		}
		return defaults, fmt.Errorf("failed to read directives file: %w", err)
	}

	var overlay models.DirectiveSet
	if err := yaml.Unmarshal(data, &overlay); err != nil {
		return defaults, fmt.Errorf("failed to parse directives file %s: %w", path, err)
	}

	return defaults.Overlay(overlay), nil
}

// SaveDirectives writes a directive set to path as YAML, creating parent directories
func SaveDirectives(path string, directives models.DirectiveSet) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(directives)
	if err != nil {
		return fmt.Errorf("failed to marshal directives: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write directives file: %w", err)
	}
	return nil
}
