package service

import (
	"regexp"
	"strings"

	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/prompts"
)

var promptToken = regexp.MustCompile(`\{\{(.*?)\}\}`)

// RenderPrompt fills every {{name}} token in template from vars. Token names
// are trimmed of surrounding whitespace; tokens without a matching entry
// become the empty string, never an error and never the literal token.
func RenderPrompt(template string, vars map[string]string) string {
	return promptToken.ReplaceAllStringFunc(template, func(token string) string {
		key := strings.TrimSpace(token[2 : len(token)-2])
		return vars[key]
	})
}

// MapAnswers resolves raw answer codes to their human-readable option labels.
// For each question, the option whose value equals the answer at the same
// position supplies the label; an answer with no matching option yields the
// unknown-answer placeholder rather than an error.
func MapAnswers(questions domain.QuestionList, answers []string) []string {
	labels := make([]string, len(questions))
	for i, question := range questions {
		labels[i] = prompts.UnknownAnswerLabel
		if i >= len(answers) {
			continue
		}
		for _, option := range question.Options {
			if option.Value == answers[i] {
				labels[i] = option.Label
				break
			}
		}
	}
	return labels
}
