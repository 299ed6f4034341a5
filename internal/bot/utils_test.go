package bot

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseCommand(t *testing.T) {
	cmd, args := parseCommand("/logs menu")
	assert.Equal(t, "/logs", cmd)
	assert.Equal(t, []string{"menu"}, args)

	cmd, args = parseCommand("/summary")
	assert.Equal(t, "/summary", cmd)
	assert.Empty(t, args)
}

func TestParseCategoryForm(t *testing.T) {
	code, name, ok := parseCategoryForm("drinks | Cold Drinks")
	assert.True(t, ok)
	assert.Equal(t, "drinks", code)
	assert.Equal(t, "Cold Drinks", name)

	// Name may contain further pipes.
	_, name, ok = parseCategoryForm("a|b|c")
	assert.True(t, ok)
	assert.Equal(t, "b|c", name)

	_, _, ok = parseCategoryForm("no pipe")
	assert.False(t, ok)

	_, _, ok = parseCategoryForm(" | Name Only")
	assert.False(t, ok)
}

func TestEscapeMarkdown(t *testing.T) {
	assert.Equal(t, "a\\_b\\*c", escapeMarkdown("a_b*c"))
	assert.Equal(t, "plain", escapeMarkdown("plain"))
}

func TestFormatReplyText(t *testing.T) {
	out := formatReplyText(`
		line one
		line %d
	`, 2)
	assert.Equal(t, "line one\nline 2", out)
}
