package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "One Piece Cap. 001 - Romance Dawn", want: "One Piece Cap. 001 - Romance Dawn"},
		{in: "Re:Zero", want: "ReZero"},
		{in: " Who? / What*. ", want: "Who  What"},
		{in: "..hidden..", want: "hidden"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, Filename(tt.in))
		})
	}
}
