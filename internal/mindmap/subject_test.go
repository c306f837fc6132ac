package mindmap

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectSubject(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "most frequent wins",
			text: "John Smith was arrested. John Smith denied the charges. Jane Doe witnessed it.",
			want: "John Smith",
		},
		{
			name: "tie keeps first seen",
			text: "Jane Doe met Ravi Kumar. Ravi Kumar left. Jane Doe stayed.",
			want: "Jane Doe",
		},
		{
			name: "three word names",
			text: "Mohan Lal Sharma lives here. Mohan Lal Sharma was born in 1980.",
			want: "Mohan Lal Sharma",
		},
		{
			name: "single capitalized words are ignored",
			text: "Police said Smith was seen in Delhi.",
			want: DefaultSubject,
		},
		{
			name: "empty text",
			text: "",
			want: DefaultSubject,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, DetectSubject(tc.text))
		})
	}
}
