package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildPromptAnchorsDates(t *testing.T) {
	anchor := time.Date(2025, time.August, 10, 0, 0, 0, 0, time.UTC)
	prompt := buildPrompt("지난달 스타벅스", anchor)

	assert.Contains(t, prompt, "2025-08-10")
	assert.Contains(t, prompt, "2025-07-01 ~ 2025-07-31")
	assert.Contains(t, prompt, "2025-07-10 ~ 2025-08-10")
	assert.Contains(t, prompt, `"지난달 스타벅스"`)
	assert.Contains(t, prompt, "exchangeCalculator")
}

func TestBuildPromptJanuaryAnchor(t *testing.T) {
	anchor := time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC)
	prompt := buildPrompt("지난달", anchor)

	assert.Contains(t, prompt, "2025-12-01 ~ 2025-12-31")
}
