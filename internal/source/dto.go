package source

import "leitor/internal/decode"

// serieDto is shared by the listing endpoints. Each endpoint fills a
// different pair of title and cover fields.
type serieDto struct {
	SerieName string `json:"serie_name"`
	Name      string `json:"name"`
	Cover     string `json:"cover"`
	Image     string `json:"image"`
	Link      string `json:"link"`
}

type mostReadDto struct {
	MostRead decode.List[serieDto] `json:"most_read"`
}

type releasesDto struct {
	Releases decode.List[serieDto] `json:"releases"`
}

type searchDto struct {
	Series decode.List[serieDto] `json:"series"`
}

type chapterListDto struct {
	Chapters decode.List[chapterDto] `json:"chapters"`
}

type chapterDto struct {
	DateCreated string                     `json:"date_created"`
	Name        string                     `json:"chapter_name"`
	Number      string                     `json:"number"`
	Releases    decode.Ordered[releaseDto] `json:"releases"`
}

type releaseDto struct {
	Link       string         `json:"link"`
	Scanlators []scanlatorDto `json:"scanlators"`
}

type scanlatorDto struct {
	Name string `json:"name"`
}

type readerDto struct {
	Images []struct {
		Avif   string `json:"avif"`
		Legacy string `json:"legacy"`
	} `json:"images"`
}
