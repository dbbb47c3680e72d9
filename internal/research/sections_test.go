package research

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/truelabel/truelabel/internal/model"
)

func TestSectionsOrdering(t *testing.T) {
	require.Len(t, Sections, 7)

	// Progress checkpoints must be strictly increasing and below 100, which
	// is reserved for completion.
	last := 0
	for _, sec := range Sections {
		assert.Greater(t, sec.Progress, last, sec.Title)
		assert.Less(t, sec.Progress, 100, sec.Title)
		assert.NotEmpty(t, sec.Step, sec.Title)
		assert.NotEmpty(t, sec.Prompt, sec.Title)
		last = sec.Progress
	}
	assert.Equal(t, "Executive Summary", Sections[len(Sections)-1].Title)
}

func TestUserPrompt(t *testing.T) {
	req := testRequest()
	prompt := userPrompt(req, Sections[0])

	assert.Contains(t, prompt, "Lunchables")
	assert.Contains(t, prompt, "turkey, sodium nitrite")
	assert.Contains(t, prompt, Sections[0].Title)

	// Optional fields are omitted when empty.
	bare := userPrompt(testRequestBare(), Sections[0])
	assert.NotContains(t, bare, "**Brand**")
	assert.NotContains(t, bare, "**Ingredients**")
}

func testRequestBare() model.ResearchRequest {
	return model.ResearchRequest{ProductName: "Mystery Snack"}
}

func TestAssembleReport(t *testing.T) {
	req := testRequest()
	texts := make([]string, len(Sections))
	for i := range texts {
		texts[i] = "Section body " + Sections[i].Title
	}

	report := assembleReport(req, texts)
	require.Len(t, report.Sections, len(Sections))
	assert.Equal(t, req.ProductName, report.ProductName)
	for _, sec := range Sections {
		assert.Contains(t, report.FullReport, "## "+sec.Title)
		assert.Equal(t, "Section body "+sec.Title, report.Section(sec.Title))
	}
}
