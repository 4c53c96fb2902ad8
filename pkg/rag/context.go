package rag

import (
	"fmt"
	"regexp"
	"strings"

	"civics-tutor-be/internal/entity"
)

// EnhancedMessage is the result of injecting retrieved context into a user
// message. When no context applies, Message equals the original.
type EnhancedMessage struct {
	Message     string
	HasContext  bool
	ContextSize int
}

// FormatContext renders search hits as the official-answer block the model is
// instructed to treat as ground truth. Returns "" for no results.
func FormatContext(results []*entity.ScoredQuestion, query string) string {
	if len(results) == 0 {
		return ""
	}

	parts := []string{
		fmt.Sprintf("Here are the official USCIS answers for your question about %q:", query),
	}
	for _, result := range results {
		parts = append(parts,
			"",
			fmt.Sprintf("OFFICIAL QUESTION %d: %s", result.QuestionID, result.Question),
			fmt.Sprintf("OFFICIAL ANSWER: %s", result.Answer),
		)
	}
	return strings.Join(parts, "\n")
}

// PrepareEnhancedMessage prepends the formatted context block to the user
// message, separated by the "User question:" delimiter that
// ExtractUserMessage later relies on.
func PrepareEnhancedMessage(userMessage string, results []*entity.ScoredQuestion) EnhancedMessage {
	context := FormatContext(results, userMessage)
	if context == "" {
		return EnhancedMessage{Message: userMessage}
	}

	return EnhancedMessage{
		Message:     fmt.Sprintf("%s\n\nUser question: %s", context, userMessage),
		HasContext:  true,
		ContextSize: len(results),
	}
}

var userQuestionPattern = regexp.MustCompile(`User [Qq]uestion: (.+)$`)

// ExtractUserMessage recovers the raw user message from an enhanced one. A
// message without the delimiter is returned unchanged.
func ExtractUserMessage(enhancedMessage string) string {
	if match := userQuestionPattern.FindStringSubmatch(enhancedMessage); match != nil {
		return match[1]
	}
	return enhancedMessage
}
