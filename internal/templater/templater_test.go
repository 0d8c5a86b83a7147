package templater

import (
	"testing"

	"leitor/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestExecTemplate(t *testing.T) {
	series := domain.Series{Title: "One Piece"}

	tests := []struct {
		name     string
		chapter  domain.Chapter
		template string
		want     string
	}{
		{
			name:     "default",
			chapter:  domain.Chapter{Name: "Cap. 1 - Romance Dawn", Number: 1},
			template: DefaultTemplate,
			want:     "One Piece Cap. 001 - Romance Dawn",
		},
		{
			name:     "no title",
			chapter:  domain.Chapter{Name: "Cap. 1000.5", Number: 1000.5},
			template: DefaultTemplate,
			want:     "One Piece Cap. 1000.5",
		},
		{
			name:     "scanlator",
			chapter:  domain.Chapter{Name: "Cap. 2", Number: 2, Scanlator: "Alpha, Zeta"},
			template: "{series:<.>} {num}{scanlator: [<.>]}",
			want:     "One Piece 2 [Alpha, Zeta]",
		},
		{
			name:     "unknown variable",
			chapter:  domain.Chapter{Number: 3},
			template: "{num:2} {other}",
			want:     "03 {other}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, New(series, tt.chapter).ExecTemplate(tt.template))
		})
	}
}
