package conversation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeName(t *testing.T) {
	name, ok := sanitizeName("  Laura   Gómez ")
	assert.True(t, ok)
	assert.Equal(t, "Laura Gómez", name)

	_, ok = sanitizeName("ab")
	assert.False(t, ok)

	_, ok = sanitizeName("Laura; DROP TABLE")
	assert.False(t, ok)
}

func TestSanitizeCedula(t *testing.T) {
	id, ok := sanitizeCedula("1.061.234.567")
	assert.True(t, ok)
	assert.Equal(t, "1061234567", id)

	_, ok = sanitizeCedula("12")
	assert.False(t, ok)

	_, ok = sanitizeCedula("sin número")
	assert.False(t, ok)
}

func TestSanitizePhone(t *testing.T) {
	phone, ok := sanitizePhone("300-123 4567")
	assert.True(t, ok)
	assert.Equal(t, "3001234567", phone)

	_, ok = sanitizePhone("123")
	assert.False(t, ok)
}

func TestParseSelection(t *testing.T) {
	sel := ParseSelection("date:2026-09-01")
	assert.Equal(t, "date", sel.Name)
	assert.Equal(t, "2026-09-01", sel.Arg)

	sel = ParseSelection("time:10:00")
	assert.Equal(t, "time", sel.Name)
	assert.Equal(t, "10:00", sel.Arg, "only the first colon splits")

	sel = ParseSelection("exit")
	assert.Equal(t, "exit", sel.Name)
	assert.Empty(t, sel.Arg)
}
