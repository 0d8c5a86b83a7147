package parse

import (
	"cmp"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"leitor/internal/domain"
)

// ByNumber groups releases by chapter number. Chapters without a number are
// left out.
func ByNumber(chapters []domain.Chapter) map[float64][]domain.Chapter {
	grouped := make(map[float64][]domain.Chapter)
	for _, c := range chapters {
		if c.Number < 0 {
			continue
		}
		grouped[c.Number] = append(grouped[c.Number], c)
	}
	return grouped
}

// PickRelease returns the release of the given scanlator, or the first
// release when scanlator is empty.
func PickRelease(releases []domain.Chapter, scanlator string) (domain.Chapter, bool) {
	if len(releases) == 0 {
		return domain.Chapter{}, false
	}

	if scanlator == "" {
		return releases[0], true
	}

	for _, r := range releases {
		for _, name := range strings.Split(r.Scanlator, ", ") {
			if strings.EqualFold(name, scanlator) {
				return r, true
			}
		}
	}

	return domain.Chapter{}, false
}

// ChapterSelection parses the user input for ranges and parts
func ChapterSelection[V any](input string, availableChapters map[float64]V) ([]float64, error) {
	parts := strings.Split(input, ",")
	uniqueChapters := make(map[float64]bool)

	for _, part := range parts {
		if strings.Contains(part, "-") {
			rangeParts := strings.Split(part, "-")
			if len(rangeParts) != 2 {
				return nil, fmt.Errorf("invalid range format: %s", part)
			}
			start, end, err := getRange(rangeParts)
			if err != nil {
				return nil, err
			}

			for chapter := range availableChapters {
				if chapter >= start && chapter <= end {
					uniqueChapters[chapter] = true
				}
			}
		} else {
			chapter, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
			if err != nil {
				return nil, err
			}
			if _, ok := availableChapters[chapter]; ok {
				uniqueChapters[chapter] = true
			}
		}
	}

	selectedChapters := make([]float64, 0, len(uniqueChapters))
	for chapterNumber := range uniqueChapters {
		selectedChapters = append(selectedChapters, chapterNumber)
	}
	slices.Sort(selectedChapters)

	return selectedChapters, nil
}

// getRange parses the user input for chapter ranges
func getRange(rangeParts []string) (float64, float64, error) {
	start, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[0]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid start of range: %s", rangeParts[0])
	}
	end, err := strconv.ParseFloat(strings.TrimSpace(rangeParts[1]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid end of range: %s", rangeParts[1])
	}

	if start > end {
		return 0, 0, fmt.Errorf("start of range should not be greater than end: %s-%s", rangeParts[0], rangeParts[1])
	}

	return start, end, nil
}

// GetMinAndMaxKeys returns the lowest and highest keys from a map that has keys that can be ordered
func GetMinAndMaxKeys[K cmp.Ordered, V any](someMap map[K]V) (K, K, error) {
	var zero K
	if len(someMap) == 0 {
		return zero, zero, fmt.Errorf("map is empty")
	}

	keys := make([]K, 0, len(someMap))
	for key := range someMap {
		keys = append(keys, key)
	}

	return slices.Min(keys), slices.Max(keys), nil
}
