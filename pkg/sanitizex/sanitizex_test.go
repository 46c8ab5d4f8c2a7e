package sanitizex

import (
	"strings"
	"testing"
	"unicode"
)

func TestCleanSingleLine(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "basic trimming",
			input:    "  hello world  ",
			expected: "hello world",
		},
		{
			name:     "collapse multiple spaces",
			input:    "hello    world",
			expected: "hello world",
		},
		{
			name:     "remove newlines",
			input:    "hello\nworld",
			expected: "hello world",
		},
		{
			name:     "remove tabs",
			input:    "hello\tworld",
			expected: "hello world",
		},
		{
			name:     "remove carriage returns",
			input:    "hello\rworld",
			expected: "hello world",
		},
		{
			name:     "mixed whitespace",
			input:    "  hello \n\t  world \r  ",
			expected: "hello world",
		},
		{
			name:     "control characters",
			input:    "hello\x00\x01\x02world",
			expected: "hello world",
		},
		{
			name:     "unicode normalization - decomposed",
			input:    "cafÃ©", // e with combining acute accent
			expected: "cafÃ©", // composed form
		},
		{
			name:     "unicode normalization - composed",
			input:    "cafÃ©", // already composed
			expected: "cafÃ©",
		},
		{
			name:     "empty string",
			input:    "",
			expected: "",
		},
		{
			name:     "only whitespace",
			input:    "   \n\t\r   ",
			expected: "",
		},
		{
			name:     "special characters preserved",
			input:    "hello@world.com",
			expected: "hello@world.com",
		},
		{
			name:     "unicode characters preserved",
			input:    "hÃ©llo wÃ¶rld ä½ å¥½",
			expected: "hÃ©llo wÃ¶rld ä½ å¥½",
		},
		{
			name:     "emojis preserved",
			input:    "hello ğŸ‘‹ world ğŸŒ",
			expected: "hello ğŸ‘‹ world ğŸŒ",
		},
		{
			name:     "multiple consecutive control chars",
			input:    "hello\x00\x01\x02\x03world",
			expected: "hello world",
		},
		{
			name:     "leading and trailing control chars",
			input:    "\x00hello world\x1F",
			expected: "hello world",
		},
		{
			name:     "only control characters",
			input:    "\x00\x01\x02\x1F",
			expected: "",
		},
		{
			name:     "mixed unicode and control chars",
			input:    "  hÃ©llo\x00\nwÃ¶rld\t  ",
			expected: "hÃ©llo wÃ¶rld",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CleanSingleLine(tt.input)
			if result != tt.expected {
				t.Errorf("CleanSingleLine(%q) = %q, want %q", tt.input, result, tt.expected)
			}

			// Additional checks for single line constraints
			if strings.Contains(result, "\n") {
				t.Errorf("CleanSingleLine(%q) = %q, should not contain newlines", tt.input, result)
			}
			if strings.Contains(result, "\t") {
				t.Errorf("CleanSingleLine(%q) = %q, should not contain tabs", tt.input, result)
			}
			if strings.Contains(result, "\r") {
				t.Errorf("CleanSingleLine(%q) = %q, should not contain carriage returns", tt.input, result)
			}

			// Check for control characters
			for _, r := range result {
				if unicode.IsControl(r) {
					t.Errorf("CleanSingleLine(%q) = %q, should not contain control characters", tt.input, result)
					break
				}
			}

			// Check for multiple consecutive spaces
			if strings.Contains(result, "  ") {
				t.Errorf("CleanSingleLine(%q) = %q, should not contain multiple consecutive spaces", tt.input, result)
			}

			// Check for leading/trailing whitespace
			if result != strings.TrimSpace(result) {
				t.Errorf("CleanSingleLine(%q) = %q, should not have leading/trailing whitespace", tt.input, result)
			}
		})
	}
}
