package scraper

import (
	"sort"
	"strings"
	"unicode"

	"novelhub/pkg/models"
)

// Merge folds a fresh crawl into an existing collection. Records match by
// URL, or by normalized title when either side has no URL. Matched records
// keep their id; new ones are numbered after the highest existing id. The
// result is in id order.
func Merge(existing, crawled []models.Novel) []models.Novel {
	out := make([]models.Novel, 0, len(existing)+len(crawled))
	idx := mergeIndex{byURL: map[string]int{}, byTitle: map[string][]int{}}
	nextID := 1

	for _, n := range existing {
		idx.add(n, len(out))
		out = append(out, n)
		if n.ID >= nextID {
			nextID = n.ID + 1
		}
	}

	for _, n := range crawled {
		if i, ok := idx.match(out, n); ok {
			hadURL := out[i].URL != ""
			out[i] = mergeNovel(out[i], n)
			if !hadURL && out[i].URL != "" {
				idx.byURL[out[i].URL] = i
			}
			continue
		}
		n.ID = nextID
		nextID++
		idx.add(n, len(out))
		out = append(out, n)
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

type mergeIndex struct {
	byURL   map[string]int
	byTitle map[string][]int
}

func (m mergeIndex) add(n models.Novel, i int) {
	if n.URL != "" {
		if _, ok := m.byURL[n.URL]; !ok {
			m.byURL[n.URL] = i
		}
	}
	key := normalizeKey(n.Title)
	m.byTitle[key] = append(m.byTitle[key], i)
}

// match looks up n by URL first. The title fallback only pairs records
// where at least one side has no URL, so two distinct URLs never merge.
func (m mergeIndex) match(out []models.Novel, n models.Novel) (int, bool) {
	if n.URL != "" {
		if i, ok := m.byURL[n.URL]; ok {
			return i, true
		}
	}
	for _, i := range m.byTitle[normalizeKey(n.Title)] {
		if n.URL == "" || out[i].URL == "" {
			return i, true
		}
	}
	return 0, false
}

// normalizeKey lowercases s, keeps letters and digits, and collapses
// everything else into single spaces.
func normalizeKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))

	prevSpace := false
	for _, r := range strings.ToLower(s) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace {
			b.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(b.String())
}

// mergeNovel prefers incoming values except where incoming is missing.
// Volumes only grow and the longer synopsis wins.
func mergeNovel(base, incoming models.Novel) models.Novel {
	base.Title = prefer(incoming.Title, base.Title)
	base.Image = prefer(incoming.Image, base.Image)
	base.Status = prefer(incoming.Status, base.Status)
	base.Genres = models.Genres(prefer(string(incoming.Genres), string(base.Genres)))

	if incoming.NumVolumes > base.NumVolumes {
		base.NumVolumes = incoming.NumVolumes
	}
	if prefer(incoming.Synopsis, "") != "" &&
		(prefer(base.Synopsis, "") == "" || len(incoming.Synopsis) > len(base.Synopsis)) {
		base.Synopsis = incoming.Synopsis
	}
	if base.URL == "" {
		base.URL = incoming.URL
	}
	return base
}

func prefer(v, fallback string) string {
	if v == "" || v == NotFound {
		return fallback
	}
	return v
}
