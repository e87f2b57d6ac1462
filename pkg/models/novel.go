package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Novel is one entry of a collection document (data/data.json,
// data/novels_data.json). Field names follow the document's keys.
type Novel struct {
	ID         int    `json:"id"`
	Title      string `json:"title"`
	Image      string `json:"image"`
	Status     string `json:"status"`
	Genres     Genres `json:"genres"`
	NumVolumes int    `json:"num_volumes"`
	Synopsis   string `json:"synopsis,omitempty"`
	URL        string `json:"url,omitempty"` // source page the record was scraped from
}

// UnmarshalJSON converts id and num_volumes at the boundary: both may arrive
// as JSON numbers or numeric strings.
func (n *Novel) UnmarshalJSON(b []byte) error {
	type alias Novel
	aux := struct {
		*alias
		ID         flexInt `json:"id"`
		NumVolumes flexInt `json:"num_volumes"`
	}{alias: (*alias)(n)}

	if err := json.Unmarshal(b, &aux); err != nil {
		return err
	}
	n.ID = int(aux.ID)
	n.NumVolumes = int(aux.NumVolumes)
	return nil
}

// Genres is kept as opaque text. Documents store it as a pre-joined string;
// a JSON list is accepted too and joined with ", ".
type Genres string

func (g *Genres) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*g = ""
		return nil
	}
	if len(b) > 0 && b[0] == '[' {
		var list []string
		if err := json.Unmarshal(b, &list); err != nil {
			return fmt.Errorf("genres: %w", err)
		}
		*g = Genres(strings.Join(list, ", "))
		return nil
	}
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("genres: %w", err)
	}
	*g = Genres(s)
	return nil
}

func (g Genres) String() string { return string(g) }

// flexInt accepts 5, 5.0, "5" and " 5 ". null and "" decode to 0.
type flexInt int

func (f *flexInt) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*f = 0
		return nil
	}

	raw := string(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*f = 0
			return nil
		}
	}

	if n, err := strconv.Atoi(raw); err == nil {
		*f = flexInt(n)
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v != math.Trunc(v) || math.IsInf(v, 0) {
		return fmt.Errorf("not an integer: %s", string(b))
	}
	*f = flexInt(v)
	return nil
}
