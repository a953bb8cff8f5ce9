package data

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrEmptySheet is returned when a sheet has no header row.
var ErrEmptySheet = errors.New("sheet has no rows")

// LoadXLSX reads a worksheet into a view. The first row names the fields;
// numeric cells become float64. An empty sheet name selects the first sheet.
func LoadXLSX(path, sheet string) (*View, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	if sheet == "" {
		sheet = f.GetSheetName(0)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, ErrEmptySheet
	}
	header := rows[0]
	var out []Row
	for _, cells := range rows[1:] {
		r := make(Row, len(header))
		for i, h := range header {
			if i >= len(cells) || h == "" {
				continue
			}
			c := strings.TrimSpace(cells[i])
			if c == "" {
				continue
			}
			if n, err := strconv.ParseFloat(c, 64); err == nil {
				r[h] = n
			} else {
				r[h] = c
			}
		}
		if len(r) > 0 {
			out = append(out, r)
		}
	}
	return NewView(out...), nil
}
