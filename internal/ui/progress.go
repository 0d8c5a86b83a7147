package ui

import (
	"io"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
)

// Progress renders one bar per chapter download.
type Progress struct {
	p *mpb.Progress
}

func NewProgress(out io.Writer) *Progress {
	return &Progress{
		p: mpb.New(
			mpb.WithOutput(out),
			mpb.WithWidth(40),
			mpb.WithRefreshRate(150*time.Millisecond),
		),
	}
}

// Chapter adds a bar and returns the func that advances it by one page.
func (p *Progress) Chapter(name string, pages int) func() {
	bar := p.p.New(int64(pages),
		mpb.BarStyle(),
		mpb.PrependDecorators(
			decor.Name(name, decor.WCSyncSpaceR),
		),
		mpb.AppendDecorators(
			decor.Percentage(decor.WCSyncWidth),
			decor.CountersNoUnit(" | %d/%d pages", decor.WCSyncWidth),
		),
		mpb.BarRemoveOnComplete(),
	)

	return func() {
		bar.Increment()
	}
}

func (p *Progress) Wait() {
	p.p.Wait()
}
