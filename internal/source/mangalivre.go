package source

import (
	"net/url"
	"strings"

	"github.com/pkg/errors"
)

type mangaLivre struct{}

func (mangaLivre) ID() string { return "mangalivre" }
func (mangaLivre) Name() string { return "MangaLivre" }
func (mangaLivre) BaseURL() string { return "https://mangalivre.net" }
func (mangaLivre) Lang() string { return "pt-BR" }
func (mangaLivre) LicensedCheck() bool { return true }
func (mangaLivre) CaptiveHTML() bool { return true }

// ParseDeepLink turns a series link like
// https://mangalivre.net/manga/one-piece/13 into the direct lookup query
// id:one-piece/13.
func ParseDeepLink(link string) (string, error) {
	u, err := url.Parse(strings.TrimSpace(link))
	if err != nil {
		return "", errors.Wrapf(err, "could not parse link %q", link)
	}

	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 3 || segments[0] != "manga" || segments[1] == "" || segments[2] == "" {
		return "", errors.Errorf("not a series link: %q", link)
	}

	query := idSearchPrefix + segments[1] + "/" + segments[2]
	if !idSearchPattern.MatchString(query) {
		return "", errors.Errorf("not a series link: %q", link)
	}

	return query, nil
}
