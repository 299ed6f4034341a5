package bot

import (
	"fmt"
	"strings"

	"github.com/lithammer/dedent"
)

func formatReplyText(text string, a ...any) string {
	return fmt.Sprintf(strings.TrimSpace(dedent.Dedent(text)), a...)
}

func parseCommand(s string) (string, []string) {
	parts := strings.Split(s, " ")
	return parts[0], parts[1:]
}

// escapeMarkdown escapes special characters for Telegram Markdown V1
func escapeMarkdown(text string) string {
	text = strings.ReplaceAll(text, "*", "\\*")
	text = strings.ReplaceAll(text, "_", "\\_")
	text = strings.ReplaceAll(text, "`", "\\`")
	text = strings.ReplaceAll(text, "[", "\\[")
	return text
}

// parsePipeFields splits "a | b | c" input into exactly n trimmed,
// non-empty fields.
func parsePipeFields(text string, n int) ([]string, bool) {
	parts := strings.Split(text, "|")
	if len(parts) != n {
		return nil, false
	}
	fields := make([]string, n)
	for i, p := range parts {
		fields[i] = strings.TrimSpace(p)
		if fields[i] == "" {
			return nil, false
		}
	}
	return fields, true
}

// parseCategoryForm parses "code | name" input for add/edit forms.
func parseCategoryForm(text string) (code, name string, ok bool) {
	parts := strings.SplitN(text, "|", 2)
	if len(parts) != 2 {
		return "", "", false
	}
	code = strings.TrimSpace(parts[0])
	name = strings.TrimSpace(parts[1])
	if code == "" || name == "" {
		return "", "", false
	}
	return code, name, true
}
