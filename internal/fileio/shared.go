package fileio

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
)

// ReadAnyMaps picks a parser by file extension and returns the data rows as
// header -> value maps. headerRow is 1-based.
func ReadAnyMaps(r io.Reader, filename string, headerRow int) ([]map[string]string, error) {
	if headerRow < 1 {
		headerRow = 1
	}
	switch ext := strings.ToLower(filepath.Ext(filename)); ext {
	case ".xlsx", ".xlsm":
		return readXLSX(r, headerRow)
	case ".xls":
		return readXLS(r, headerRow)
	case ".csv", ".txt", ".tsv":
		return readCSV(r, headerRow)
	default:
		return nil, fmt.Errorf("unsupported file type %q (%s)", ext, filename)
	}
}

// pickHeader takes the header row, naming blank cells "Column N" and
// suffixing repeated names so no column is lost in the map.
func pickHeader(rows [][]string, headerRow int) []string {
	idx := headerRow - 1
	if idx < 0 || idx >= len(rows) {
		idx = 0
	}
	h := rows[idx]
	out := make([]string, len(h))
	seen := make(map[string]int, len(h))
	for i, v := range h {
		v = normalizeCell(v)
		if v == "" {
			v = fmt.Sprintf("Column %d", i+1)
		}
		if n := seen[v]; n > 0 {
			seen[v] = n + 1
			v = fmt.Sprintf("%s (%d)", v, n+1)
		} else {
			seen[v] = 1
		}
		out[i] = v
	}
	return out
}

// rowsToMaps converts the rows below the header into maps, dropping rows
// that are entirely blank.
func rowsToMaps(rows [][]string, headers []string, headerRow int) []map[string]string {
	var out []map[string]string
	for r := headerRow; r < len(rows); r++ {
		rec := rows[r]
		m := make(map[string]string, len(headers))
		empty := true
		for c, h := range headers {
			var v string
			if c < len(rec) {
				v = normalizeCell(rec[c])
			}
			if v != "" {
				empty = false
			}
			m[h] = v
		}
		if !empty {
			out = append(out, m)
		}
	}
	return out
}

// normalizeCell trims a cell and turns non-breaking spaces into spaces.
func normalizeCell(s string) string {
	s = strings.NewReplacer("\u00A0", " ", "\u202F", " ", "\r", " ").Replace(s)
	return strings.TrimSpace(s)
}
