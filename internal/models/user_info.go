// ABOUTME: UserInfo carries what the guide knows about the visitor (name, preferences)
// ABOUTME: Includes self-introduction extraction so a session can learn the visitor's name
package models

import (
	"regexp"
	"slices"
	"strings"
)

// UserInfo represents the visitor's context
type UserInfo struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Preferences []string `json:"preferences,omitempty" yaml:"preferences,omitempty"`
}

// Known reports whether there is anything worth telling the model
func (u *UserInfo) Known() bool {
	return u != nil && (u.Name != "" || len(u.Preferences) > 0)
}

// Merge folds newer info into u: a non-empty name replaces, preferences are added without duplicates
func (u *UserInfo) Merge(other UserInfo) {
	if other.Name != "" {
		u.Name = other.Name
	}
	for _, pref := range other.Preferences {
		if !slices.Contains(u.Preferences, pref) {
			u.Preferences = append(u.Preferences, pref)
		}
	}
}

// namePatterns are tried in order; the first capture that is not a generic form of address wins
var namePatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:叫我|称呼我)([^\s，,。！!？?]{2,10})`),
	regexp.MustCompile(`我的?(?:名字|姓名)(?:是|叫|为)?[：:，,]?([^\s，,。！!？?]{2,10})`),
	regexp.MustCompile(`我叫([^\s，,。！!？?]{2,10})`),
	regexp.MustCompile(`我是([^\s，,。！!？?]{2,10})`),
}

var notNames = []string{"用户", "游客", "参观者", "你", "您"}

// ExtractUserInfo returns current updated with a name found in a self-introduction, if any
func ExtractUserInfo(message string, current UserInfo) UserInfo {
	updated := current
	updated.Preferences = slices.Clone(current.Preferences)

	for _, pattern := range namePatterns {
		match := pattern.FindStringSubmatch(message)
		if len(match) < 2 {
			continue
		}
		name := strings.TrimSpace(match[1])
		if name == "" || slices.Contains(notNames, name) {
			continue
		}
		updated.Name = name
		break
	}
	return updated
}
