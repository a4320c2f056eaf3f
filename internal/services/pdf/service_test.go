package pdf

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestConvertMarkdownToPDF(t *testing.T) {
	service := NewService(arbor.NewLogger())

	tests := []struct {
		name     string
		markdown string
		title    string
	}{
		{
			name:     "basic report",
			markdown: "# Analysis Report\n\nSome paragraph text.\n\n- Point one\n- Point two",
			title:    "Analysis Report",
		},
		{
			name:     "empty document",
			markdown: "",
			title:    "Empty",
		},
		{
			name: "report with table and code",
			markdown: `# Report

Summary text.

| Current | Target |
|---------|--------|
| $100.00 | $115.00 |

` + "```\nraw block\n```\n\n---\n\nDisclaimer.",
			title: "Full Report",
		},
		{
			name:     "inline styling",
			markdown: "Normal **bold** *italic* ***both*** and `code span` text.",
			title:    "Styling",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdfBytes, err := service.ConvertMarkdownToPDF(tt.markdown, tt.title)
			require.NoError(t, err)
			require.NotEmpty(t, pdfBytes)
			// PDF magic header
			assert.Equal(t, "%PDF", string(pdfBytes[:4]))
		})
	}
}
