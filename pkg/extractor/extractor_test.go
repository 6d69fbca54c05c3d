package extractor

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "collapses whitespace runs",
			in:   "5 years   Go,\n\tdistributed   systems",
			want: "5 years Go, distributed systems",
		},
		{
			name: "strips control characters",
			in:   "plain\x00text\x07resume",
			want: "plaintextresume",
		},
		{
			name: "trims surrounding space",
			in:   "  lead engineer  ",
			want: "lead engineer",
		},
		{
			name: "empty input",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Normalize(tt.in)
			assert.Equal(t, tt.want, got)

			// Idempotence
			assert.Equal(t, got, Normalize(got))
		})
	}
}

func TestExtractTextPlain(t *testing.T) {
	e := New()
	resume := strings.Repeat("Senior backend engineer with Go experience. ", 3)

	text, err := e.ExtractText(context.Background(), Source{Data: []byte(resume)})
	assert.NoError(t, err)
	assert.Contains(t, text, "Senior backend engineer")
}

func TestExtractTextEmptySource(t *testing.T) {
	e := New()
	_, err := e.ExtractText(context.Background(), Source{})
	assert.Error(t, err)
}

func TestExtractTextTooShort(t *testing.T) {
	e := New()
	_, err := e.ExtractText(context.Background(), Source{Data: []byte("too short")})
	assert.Error(t, err)
}

func TestExtractTextRejectsZipContainer(t *testing.T) {
	e := New()
	_, err := e.ExtractText(context.Background(), Source{Data: []byte("PK\x03\x04docx-payload")})
	assert.Error(t, err)
}
