// Package export renders a quotation as a flat table.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"quote-service/internal/quote/model"
	"quote-service/internal/quote/service"
)

// Row is one exported quotation line.
type Row struct {
	Line           int
	Term           string
	Classification model.Classification
	Code           string
	Title          string
	Supplier       string
	Quantity       int
	UnitPrice      float64
	LineTotal      float64
}

// Table is the export payload: lines plus the grand total.
type Table struct {
	Supplier string
	Rows     []Row
	Total    float64
}

var header = []string{"Linha", "Solicitado", "Status", "Código", "Produto", "Fornecedor", "Qtd", "Preço unit.", "Total"}

func Build(q *service.Quotation, supplier string) Table {
	v := q.View(supplier)
	t := Table{Supplier: supplier, Total: v.Total, Rows: make([]Row, 0, len(v.Lines))}
	for _, l := range v.Lines {
		r := Row{
			Line:           l.Index + 1,
			Term:           l.Term,
			Classification: l.Classification,
			Quantity:       l.Quantity,
			LineTotal:      l.LineTotal,
		}
		if l.Selected != nil {
			r.Code = l.Selected.Code
			r.Title = l.Selected.Title
			r.Supplier = l.Selected.Supplier
			r.UnitPrice = l.UnitPrice
		}
		t.Rows = append(t.Rows, r)
	}
	return t
}

var statusLabel = map[model.Classification]string{
	model.Exact:    "Exato",
	model.Similar:  "Similar",
	model.NotFound: "Não encontrado",
}

// money formats with a decimal comma, as spreadsheets in pt-BR expect.
func money(f float64) string {
	return strings.Replace(strconv.FormatFloat(f, 'f', 2, 64), ".", ",", 1)
}

// WriteCSV writes a ';' separated table with a trailing total row.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(header); err != nil {
		return err
	}
	for _, r := range t.Rows {
		rec := []string{
			strconv.Itoa(r.Line), r.Term, statusLabel[r.Classification], r.Code, r.Title,
			r.Supplier, strconv.Itoa(r.Quantity), money(r.UnitPrice), money(r.LineTotal),
		}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	if err := cw.Write([]string{"", "", "", "", "", "", "", "TOTAL", money(t.Total)}); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX writes the table to a single-sheet workbook.
func WriteXLSX(w io.Writer, t Table) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Cotação"
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	put := func(row int, vals ...any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &vals)
	}

	hdr := make([]any, len(header))
	for i, h := range header {
		hdr[i] = h
	}
	if err := put(1, hdr...); err != nil {
		return err
	}
	for i, r := range t.Rows {
		if err := put(i+2, r.Line, r.Term, statusLabel[r.Classification], r.Code, r.Title,
			r.Supplier, r.Quantity, r.UnitPrice, r.LineTotal); err != nil {
			return err
		}
	}
	if err := put(len(t.Rows)+2, "", "", "", "", "", "", "", "TOTAL", t.Total); err != nil {
		return err
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}
