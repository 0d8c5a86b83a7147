package source

import (
	"fmt"
	"slices"
	"strings"

	"leitor/internal/domain"
)

// Site describes one member of the MangasProject family.
type Site interface {
	ID() string
	Name() string
	BaseURL() string
	Lang() string
}

// LicensedChecker sites mark series blocked by the publisher as licensed.
type LicensedChecker interface {
	LicensedCheck() bool
}

// CaptiveHTMLSite sites can only serve their HTML pages over a plain
// connection.
type CaptiveHTMLSite interface {
	CaptiveHTML() bool
}

// ChapterURLRewriter sites fix up the reader url before the manifest id is
// taken from it.
type ChapterURLRewriter interface {
	ChapterURL(chapterURL, baseURL string) string
}

var sites = map[string]func() Site{
	"mangalivre": func() Site { return mangaLivre{} },
	"leitornet":  func() Site { return leitorNet{} },
}

// Sites lists the names accepted by New.
func Sites() []string {
	names := make([]string, 0, len(sites))
	for name := range sites {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func LookupSite(name string) (Site, error) {
	newSite, ok := sites[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return nil, fmt.Errorf("unknown site %q, must be one of %s", name, strings.Join(Sites(), ", "))
	}
	return newSite(), nil
}

func New(name string, opts Options) (*MangasProject, error) {
	site, err := LookupSite(name)
	if err != nil {
		return nil, err
	}
	return NewMangasProject(site, opts)
}

var _ domain.Source = (*MangasProject)(nil)
