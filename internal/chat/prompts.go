// ABOUTME: Prompt templates for persona replies, persona selection, suggestions and directive tuning
// ABOUTME: All prompts are Chinese; transcripts label speakers with their persona labels
package chat

import (
	"fmt"
	"strings"

	"github.com/harper/museum-guide/internal/models"
)

const (
	replyApology    = "抱歉，我暂时无法回复。"
	continueApology = "抱歉，我暂时无法继续。"
)

const managerHeader = "你是一个博物馆导览对话管理器。根据用户的问题，决定应该由哪个角色回复："

// renderTranscript renders turns one per line as "label: text"
func renderTranscript(turns []models.Turn) string {
	lines := make([]string, 0, len(turns))
	for _, t := range turns {
		lines = append(lines, fmt.Sprintf("%s: %s", t.Speaker.Label(), t.Text))
	}
	return strings.Join(lines, "\n")
}

// userInfoLine is empty unless the visitor's name or preferences are known
func userInfoLine(user *models.UserInfo) string {
	if !user.Known() {
		return ""
	}
	var b strings.Builder
	if user.Name != "" {
		fmt.Fprintf(&b, "用户名字：%s\n", user.Name)
	}
	if len(user.Preferences) > 0 {
		fmt.Fprintf(&b, "用户偏好：%s\n", strings.Join(user.Preferences, "、"))
	}
	return b.String()
}

// personaSystemPrompt builds the system directive for one persona reply.
// recent must already be windowed by the caller.
func personaSystemPrompt(persona models.Persona, directive, domainContext string, user *models.UserInfo, recent []models.Turn) string {
	var b strings.Builder
	b.WriteString(directive)
	b.WriteString("\n\n当前文物的历史背景：\n")
	b.WriteString(domainContext)
	b.WriteString("\n\n")

	if info := userInfoLine(user); info != "" {
		b.WriteString(info)
		b.WriteString("\n")
	}

	if len(recent) > 0 {
		b.WriteString("最近的对话历史：\n")
		b.WriteString(renderTranscript(recent))
		b.WriteString("\n\n")
	}

	if user.Known() && user.Name != "" {
		fmt.Fprintf(&b, "请以%s的身份，用中文自然、简洁地回复用户的问题，可以用名字称呼%s。", persona.Identity(), user.Name)
	} else {
		fmt.Fprintf(&b, "请以%s的身份，用中文自然、简洁地回复用户的问题。", persona.Identity())
	}
	b.WriteString("记住：回复要简短（50-100字），要像真实对话一样自然。")
	return b.String()
}

// continueInstruction asks a persona to add to the conversation without a new question
func continueInstruction(persona models.Persona) string {
	return fmt.Sprintf("请以%s的身份，基于刚才的对话自然地补充你的观点或信息。记住：用中文回复，保持简洁（50-100字），要自然真实，像在群聊中讨论一样。", persona.Identity())
}

// managerPrompt asks the model which personas should answer. A caller supplied
// manager directive replaces the opening line; the role list and output rules stay fixed.
func managerPrompt(managerDirective, utterance, domainContext string) string {
	header := strings.TrimSpace(managerDirective)
	if header == "" {
		header = managerHeader
	}
	return header + `
- artifact（文物本身）：当用户想了解文物的直接信息、感受、经历时
- author（作者）：当用户想了解创作背景、创作意图、艺术手法时
- guide（导览员）：当用户需要导览、解释、总结时

可以返回一个或多个角色，用逗号分隔。如果用户说"继续"或类似的话，返回之前应该继续的角色。

用户问题：` + utterance + `
历史背景：` + domainContext + `

只返回角色名称，例如：author 或 author,artifact 或 guide。不要返回其他内容，只返回角色名称。`
}

func suggestionPrompt(recent []models.Turn, domainContext string, user *models.UserInfo) string {
	return `你是一个博物馆导览助手。根据当前的对话内容，生成3-4个用户可能感兴趣的问题。
` + userInfoLine(user) + `
当前对话：
` + renderTranscript(recent) + `

文物背景：` + domainContext + `

要求：
1. 问题要简洁，每个问题10-15字左右
2. 问题要自然，像真实对话中的提问
3. 问题要多样化，可以从不同角度提问（历史、艺术、创作、感受等）
4. 问题要基于当前对话内容，有相关性
5. 用中文，口语化

只返回问题，每行一个问题，不要编号，不要其他说明文字。`
}

func adjustmentPrompt(persona models.Persona, currentDirective, request, domainContext string) string {
	return `你是一个prompt优化助手。用户想要调整一个AI角色的prompt。

当前角色：` + persona.Identity() + `
当前prompt：
` + currentDirective + `

用户的要求（自然语言）：
` + request + `

文物背景信息：
` + domainContext + `

请根据用户的要求，调整并优化这个prompt。要求：
1. 保持prompt的核心功能不变
2. 根据用户要求调整语气、风格或特点
3. 保持prompt的完整性和可执行性
4. 用中文回复
5. 只返回调整后的prompt，不要添加其他说明

调整后的prompt：`
}
