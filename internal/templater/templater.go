package templater

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"leitor/internal/domain"
	"leitor/internal/utils"
)

const DefaultTemplate = "{series:<.>} Cap. {num:3}{title: - <.>}"

var templatePattern = regexp.MustCompile(`{((\w+?)(:.*?)?)}`)

type Templater struct {
	Series  domain.Series
	Chapter domain.Chapter
}

func New(series domain.Series, chapter domain.Chapter) *Templater {
	return &Templater{
		Series:  series,
		Chapter: chapter,
	}
}

func (t *Templater) handleNum(options string) string {
	if options == "" {
		return fmt.Sprintf("%g", t.Chapter.Number)
	}

	length, _ := strconv.ParseInt(strings.TrimPrefix(options, ":"), 10, 32)
	return utils.PadFloat(t.Chapter.Number, int(length))
}

// ChapterTitle is the part of the chapter name after the number, e.g.
// "Romance Dawn" for "Cap. 1 - Romance Dawn".
func (t *Templater) ChapterTitle() string {
	_, title, _ := strings.Cut(t.Chapter.Name, " - ")
	return strings.TrimSpace(title)
}

func replaceValue(options, value string) string {
	if value == "" {
		return ""
	}

	cleanString := strings.TrimPrefix(options, ":")
	return strings.ReplaceAll(cleanString, "<.>", value)
}

func (t *Templater) ExecTemplate(template string) string {
	newString := template
	for _, match := range templatePattern.FindAllStringSubmatch(template, -1) {
		replace := match[0]

		varName := match[2]
		switch varName {
		case "num":
			replace = t.handleNum(match[3])
		case "series":
			replace = replaceValue(match[3], t.Series.Title)
		case "title":
			replace = replaceValue(match[3], t.ChapterTitle())
		case "scanlator":
			replace = replaceValue(match[3], t.Chapter.Scanlator)
		}

		newString = strings.Replace(newString, match[0], replace, 1)
	}

	return newString
}
