package catalog

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"quote-service/internal/fileio"
	"quote-service/internal/quote/model"
	"quote-service/internal/quote/service"
	"quote-service/internal/utils"
)

// Load reads a catalog spreadsheet (.csv, .xls, .xlsx) and maps its columns
// onto the catalog item fields.
func Load(r io.Reader, filename string, headerRow int, m Mapping) ([]model.CatalogItem, error) {
	rows, err := fileio.ReadAnyMaps(r, filename, headerRow)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", filename, err)
	}
	return FromRows(rows, m), nil
}

// FromRows converts header -> value rows into catalog items. Rows without a
// title are skipped; ids come from an id column when it is unique, else
// from the row position.
func FromRows(rows []map[string]string, m Mapping) []model.CatalogItem {
	if len(rows) == 0 {
		return nil
	}
	headers := make([]string, 0, len(rows[0]))
	for h := range rows[0] {
		headers = append(headers, h)
	}
	cols := resolveColumns(headers, m)
	if cols[fieldTitle] == "" {
		cols[fieldTitle], cols[fieldDescription] = cols[fieldDescription], ""
	}
	if cols[fieldTitle] == "" {
		return nil
	}

	useID := cols[fieldID] != "" && uniqueValues(rows, cols[fieldID])

	items := make([]model.CatalogItem, 0, len(rows))
	for i, rec := range rows {
		title := strings.TrimSpace(rec[cols[fieldTitle]])
		if title == "" || service.Normalize(title) == service.Normalize(cols[fieldTitle]) {
			continue // blank or a repeated header line
		}
		it := model.CatalogItem{
			ID:          fmt.Sprintf("row-%d", i+1),
			Title:       title,
			Code:        cell(rec, cols[fieldCode]),
			Supplier:    cell(rec, cols[fieldSupplier]),
			Brand:       cell(rec, cols[fieldBrand]),
			Category:    cell(rec, cols[fieldCategory]),
			Description: cell(rec, cols[fieldDescription]),
			Raw:         rec,
		}
		if useID {
			it.ID = cell(rec, cols[fieldID])
		}
		if p, ok := utils.ParsePrice(cell(rec, cols[fieldPrice])); ok && p >= 0 {
			it.Price = &p
		}
		items = append(items, it)
	}
	return items
}

func cell(rec map[string]string, key string) string {
	if key == "" {
		return ""
	}
	return strings.TrimSpace(rec[key])
}

func uniqueValues(rows []map[string]string, key string) bool {
	seen := make(map[string]struct{}, len(rows))
	for _, rec := range rows {
		v := cell(rec, key)
		if v == "" {
			return false
		}
		if _, dup := seen[v]; dup {
			return false
		}
		seen[v] = struct{}{}
	}
	return true
}

// Fetch downloads a published spreadsheet export and loads it. The format
// comes from the Content-Type, else from the URL path, else CSV.
func Fetch(ctx context.Context, client *http.Client, url string, headerRow int, m Mapping) ([]model.CatalogItem, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("catalog request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch catalog: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch catalog: unexpected status %s", resp.Status)
	}
	return Load(resp.Body, exportName(resp.Header.Get("Content-Type"), req.URL.Path), headerRow, m)
}

func exportName(contentType, urlPath string) string {
	mt, _, _ := mime.ParseMediaType(contentType)
	switch {
	case strings.Contains(mt, "spreadsheetml"):
		return "catalog.xlsx"
	case mt == "application/vnd.ms-excel":
		return "catalog.xls"
	case mt == "text/csv":
		return "catalog.csv"
	}
	switch ext := strings.ToLower(path.Ext(urlPath)); ext {
	case ".xlsx", ".xls", ".csv":
		return "catalog" + ext
	}
	return "catalog.csv"
}
