package catalog

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"novelhub/pkg/models"
)

var csvHeader = []string{"id", "title", "image", "status", "genres", "num_volumes", "synopsis", "url"}

// WriteCSV writes novels with a header row.
func WriteCSV(w io.Writer, novels []models.Novel) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, n := range novels {
		if err := cw.Write([]string{
			strconv.Itoa(n.ID),
			n.Title,
			n.Image,
			n.Status,
			n.Genres.String(),
			strconv.Itoa(n.NumVolumes),
			n.Synopsis,
			n.URL,
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadCSV reads rows keyed by the header row, so column order is free and
// unknown columns are ignored. Rows without an id or title are skipped.
func ReadCSV(r io.Reader) ([]models.Novel, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return []models.Novel{}, nil
		}
		return nil, fmt.Errorf("read header: %w", err)
	}
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	get := func(row []string, key string) string {
		i, ok := cols[key]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	out := []models.Novel{}
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}

		id, title := get(row, "id"), get(row, "title")
		if id == "" || title == "" {
			continue
		}
		n := models.Novel{
			Title:    title,
			Image:    get(row, "image"),
			Status:   get(row, "status"),
			Genres:   models.Genres(get(row, "genres")),
			Synopsis: get(row, "synopsis"),
			URL:      get(row, "url"),
		}
		if n.ID, err = strconv.Atoi(id); err != nil {
			return nil, fmt.Errorf("line %d: id %q: %w", line, id, err)
		}
		if v := get(row, "num_volumes"); v != "" {
			if n.NumVolumes, err = strconv.Atoi(v); err != nil {
				return nil, fmt.Errorf("line %d: num_volumes %q: %w", line, v, err)
			}
		}
		out = append(out, n)
	}
	return out, nil
}
