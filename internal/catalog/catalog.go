package catalog

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"novelhub/pkg/models"
)

// ErrNotArray is returned when a collection document is not a JSON array.
var ErrNotArray = errors.New("collection document is not a JSON array")

// Decode parses a collection document: a JSON array of novel records.
func Decode(r io.Reader) ([]models.Novel, error) {
	br := bufio.NewReader(r)
	if err := expectArray(br); err != nil {
		return nil, err
	}

	var novels []models.Novel
	if err := json.NewDecoder(br).Decode(&novels); err != nil {
		return nil, fmt.Errorf("decode collection: %w", err)
	}
	if novels == nil {
		novels = []models.Novel{}
	}
	return novels, nil
}

func expectArray(br *bufio.Reader) error {
	for {
		b, err := br.Peek(1)
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("decode collection: %w", io.ErrUnexpectedEOF)
			}
			return fmt.Errorf("decode collection: %w", err)
		}
		if bytes.ContainsAny(b, " \t\r\n") {
			_, _ = br.ReadByte()
			continue
		}
		// a UTF-8 BOM is tolerated
		if b[0] == 0xEF {
			if bom, err := br.Peek(3); err == nil && bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
				_, _ = br.Discard(3)
				continue
			}
		}
		if b[0] != '[' {
			return ErrNotArray
		}
		return nil
	}
}

// ParseID converts the raw id query value. Decimal numbers with an integral
// value ("1", "1.0", "1e0") are accepted. A missing, non-numeric or
// fractional value reports ok=false and matches no record.
func ParseID(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	if id, err := strconv.Atoi(raw); err == nil {
		return id, true
	}
	if strings.ContainsAny(raw, "xX_") {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) || f != math.Trunc(f) {
		return 0, false
	}
	if math.Abs(f) > 1<<53 {
		return 0, false
	}
	return int(f), true
}

// Find is a linear search; with duplicate ids the first record wins.
func Find(novels []models.Novel, id int) (models.Novel, bool) {
	for _, n := range novels {
		if n.ID == id {
			return n, true
		}
	}
	return models.Novel{}, false
}
