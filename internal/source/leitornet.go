package source

import "strings"

// leitorNet keeps the id of the old mangásPROJECT source so libraries saved
// under it still resolve.
type leitorNet struct{}

func (leitorNet) ID() string { return "2225174659569980836" }
func (leitorNet) Name() string { return "Leitor.net" }
func (leitorNet) BaseURL() string { return "https://leitor.net" }
func (leitorNet) Lang() string { return "pt-BR" }

// ChapterURL points reader urls that still redirect to mangalivre back to
// this site.
func (leitorNet) ChapterURL(chapterURL, baseURL string) string {
	chapterURL = strings.ReplaceAll(chapterURL, "https://mangalivre.net", baseURL)
	chapterURL = strings.ReplaceAll(chapterURL, "/ler/", "/manga/")
	return strings.ReplaceAll(chapterURL, "/online/", "/")
}
