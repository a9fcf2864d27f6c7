package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTextProcessorRender(t *testing.T) {
	tp := NewTextProcessor()

	tests := []struct {
		name     string
		input    string
		contains []string
		absent   []string
	}{
		{
			name:     "emphasis and strikethrough",
			input:    "We do **plumbing** and ~~gas~~ electrics",
			contains: []string{"<strong>plumbing</strong>", "<del>gas</del>"},
		},
		{
			name:     "script is removed",
			input:    "hello <script>alert(1)</script>",
			contains: []string{"hello"},
			absent:   []string{"<script", "alert(1)</script>"},
		},
		{
			name:   "javascript link is dropped",
			input:  "[click](javascript:alert(1))",
			absent: []string{"javascript:"},
		},
		{
			name:     "links get nofollow",
			input:    "see https://example.com",
			contains: []string{`href="https://example.com"`, `rel="nofollow`},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := tp.Render(tt.input)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out, s)
			}
		})
	}
}

func TestTextProcessorRenderEmpty(t *testing.T) {
	out, err := NewTextProcessor().Render("   \n")
	require.NoError(t, err)
	assert.Equal(t, "", out)
}
