package ui

import (
	"fmt"

	"leitor/internal/domain"

	"github.com/manifoldco/promptui"
	"github.com/pkg/errors"
)

const pageSize = 15

// ErrBack is returned when the user picks the back entry of a selection.
var ErrBack = errors.New("back")

func Ask(label string) (string, error) {
	prompt := promptui.Prompt{
		Label: label,
		Validate: func(input string) error {
			if input == "" {
				return errors.New("input can't be empty")
			}
			return nil
		},
	}

	return prompt.Run()
}

func Choose(label string, items []string) (int, error) {
	sel := promptui.Select{
		Label: label,
		Items: items,
		Size:  pageSize,
	}

	i, _, err := sel.Run()
	return i, err
}

// SelectSeries lets the user pick a series. With more set an extra entry to
// load the next page is shown, reported as index len(series).
func SelectSeries(label string, series []domain.Series, more bool) (int, error) {
	items := make([]string, 0, len(series)+2)
	for _, s := range series {
		items = append(items, s.Title)
	}
	if more {
		items = append(items, "» next page")
	}
	items = append(items, "« back")

	i, err := Choose(label, items)
	if err != nil {
		return 0, err
	}

	if i == len(items)-1 {
		return 0, ErrBack
	}

	return i, nil
}

func SelectChapter(label string, chapters []domain.Chapter) (domain.Chapter, error) {
	items := make([]string, 0, len(chapters)+1)
	for _, c := range chapters {
		item := c.Name
		if c.Scanlator != "" {
			item = fmt.Sprintf("%s [%s]", c.Name, c.Scanlator)
		}
		items = append(items, item)
	}
	items = append(items, "« back")

	i, err := Choose(label, items)
	if err != nil {
		return domain.Chapter{}, err
	}

	if i == len(chapters) {
		return domain.Chapter{}, ErrBack
	}

	return chapters[i], nil
}
