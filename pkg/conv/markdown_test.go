package conv

import (
	"strings"
	"testing"
)

func TestMarkdownToHTML(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		contains string
		excludes string
	}{
		{
			name:     "plain text",
			input:    "Pack an umbrella",
			contains: "Pack an umbrella",
		},
		{
			name:     "bold text",
			input:    "**warm**",
			contains: "<strong>warm</strong>",
		},
		{
			name:     "list items",
			input:    "- museum\n- park",
			contains: "<li>museum</li>",
		},
		{
			name:     "script stripped",
			input:    "<script>alert('x')</script>ok",
			contains: "ok",
			excludes: "<script>",
		},
		{
			name:     "link survives sanitization",
			input:    "[forecast](https://example.com)",
			contains: `href="https://example.com"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MarkdownToHTML([]byte(tt.input))
			if !strings.Contains(got, tt.contains) {
				t.Errorf("MarkdownToHTML(%q) = %q, want it to contain %q", tt.input, got, tt.contains)
			}
			if tt.excludes != "" && strings.Contains(got, tt.excludes) {
				t.Errorf("MarkdownToHTML(%q) = %q, must not contain %q", tt.input, got, tt.excludes)
			}
		})
	}
}
