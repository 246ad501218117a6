package fileio

import (
	"bytes"
	"errors"
	"io"

	xls "github.com/extrame/xls"
)

// probeCols bounds the width scan; legacy exports rarely go past it.
const probeCols = 256

// xlsWidth finds the real table width by scanning for the rightmost
// non-empty cell instead of trusting Row.LastCol().
func xlsWidth(sheet *xls.WorkSheet) int {
	width := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			continue
		}
		for j := probeCols - 1; j >= width; j-- {
			if normalizeCell(row.Col(j)) != "" {
				width = j + 1
				break
			}
		}
	}
	return max(width, 1)
}

func readXLS(r io.Reader, headerRow int) ([]map[string]string, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	// older ERP exports are mostly cp1252
	var wb *xls.WorkBook
	var lastErr error
	for _, cs := range []string{"windows-1252", "utf-8", "iso-8859-1"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), cs)
		if err == nil && wb != nil {
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, nil
	}

	width := xlsWidth(sheet)
	rows := make([][]string, 0, int(sheet.MaxRow)+1)
	for i := 0; i <= int(sheet.MaxRow); i++ {
		cols := make([]string, width)
		if row := sheet.Row(i); row != nil {
			for j := 0; j < width; j++ {
				cols[j] = row.Col(j)
			}
		}
		rows = append(rows, cols)
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}
