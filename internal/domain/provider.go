package domain

import "context"

// Source is the uniform contract every supported site exposes.
type Source interface {
	String() string
	PopularSeries(ctx context.Context, page int) (SeriesPage, error)
	LatestSeries(ctx context.Context, page int) (SeriesPage, error)
	SearchSeries(ctx context.Context, query string) (SeriesPage, error)
	SeriesDetails(ctx context.Context, series Series) (Series, error)
	Chapters(ctx context.Context, series Series) ([]Chapter, error)
	Pages(ctx context.Context, chapter Chapter) ([]PageRef, error)
}

type Status int

const (
	StatusUnknown Status = iota
	StatusOngoing
	StatusCompleted
	StatusOnHiatus
	StatusLicensed
)

func (s Status) String() string {
	switch s {
	case StatusOngoing:
		return "ongoing"
	case StatusCompleted:
		return "completed"
	case StatusOnHiatus:
		return "on hiatus"
	case StatusLicensed:
		return "licensed"
	default:
		return "unknown"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Series is identified by its site-relative URL.
type Series struct {
	Title        string   `json:"title" yaml:"title"`
	ThumbnailURL string   `json:"thumbnailUrl" yaml:"thumbnailUrl"`
	URL          string   `json:"url" yaml:"url"`
	Description  string   `json:"description,omitempty" yaml:"description,omitempty"`
	Author       string   `json:"author,omitempty" yaml:"author,omitempty"`
	Artist       string   `json:"artist,omitempty" yaml:"artist,omitempty"`
	Genres       []string `json:"genres,omitempty" yaml:"genres,omitempty"`
	Status       Status   `json:"status" yaml:"status"`
}

type SeriesPage struct {
	Series      []Series `json:"series" yaml:"series"`
	HasNextPage bool     `json:"hasNextPage" yaml:"hasNextPage"`
}

// Chapter is one scanlation release of a chapter number. Several chapters may
// share the same Number.
type Chapter struct {
	Name       string  `json:"name" yaml:"name"`
	Number     float64 `json:"number" yaml:"number"`
	UploadedAt int64   `json:"uploadedAt" yaml:"uploadedAt"`
	Scanlator  string  `json:"scanlator" yaml:"scanlator"`
	URL        string  `json:"url" yaml:"url"`
}

type PageRef struct {
	Index      int    `json:"index" yaml:"index"`
	ContextURL string `json:"contextUrl" yaml:"contextUrl"`
	ImageURL   string `json:"imageUrl" yaml:"imageUrl"`
}

type Format string

const (
	FormatAvif Format = "avif"
	FormatWebp Format = "webp"
)

func (f Format) Valid() bool {
	return f == FormatAvif || f == FormatWebp
}
