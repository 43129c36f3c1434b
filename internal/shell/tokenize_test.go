package shell

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		line string
		want []string
	}{
		{name: "empty", line: "   ", want: nil},
		{name: "words", line: "signin a@b.c  secret", want: []string{"signin", "a@b.c", "secret"}},
		{name: "double quotes", line: `signup doctor d@x.io pw "Dr. Jane Smith"`, want: []string{"signup", "doctor", "d@x.io", "pw", "Dr. Jane Smith"}},
		{name: "quoted value in pair", line: `profile clinicInfo="Heart Care, NY" experience=10`, want: []string{"profile", "clinicInfo=Heart Care, NY", "experience=10"}},
		{name: "single quotes keep backslash", line: `x 'a\b'`, want: []string{"x", `a\b`}},
		{name: "escaped space", line: `x a\ b`, want: []string{"x", "a b"}},
		{name: "empty quoted token", line: `x ""`, want: []string{"x", ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := tokenize(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestTokenize_Unterminated(t *testing.T) {
	t.Parallel()

	for _, line := range []string{`say "hello`, `say 'x`, `say x\`} {
		_, err := tokenize(line)
		require.ErrorIs(t, err, errUnterminatedQuote, line)
	}
}
