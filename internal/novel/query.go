package novel

import (
	"strings"

	"novelhub/pkg/models"
)

type ListQuery struct {
	Q      string // case-insensitive title substring
	Status string // case-insensitive exact match
}

func (q ListQuery) normalized() ListQuery {
	return ListQuery{
		Q:      strings.ToLower(strings.TrimSpace(q.Q)),
		Status: strings.ToLower(strings.TrimSpace(q.Status)),
	}
}

// Filter applies q to an in-memory collection, keeping document order.
func Filter(novels []models.Novel, q ListQuery) []models.Novel {
	q = q.normalized()
	out := make([]models.Novel, 0, len(novels))
	for _, n := range novels {
		if q.Q != "" && !strings.Contains(strings.ToLower(n.Title), q.Q) {
			continue
		}
		if q.Status != "" && strings.ToLower(strings.TrimSpace(n.Status)) != q.Status {
			continue
		}
		out = append(out, n)
	}
	return out
}
