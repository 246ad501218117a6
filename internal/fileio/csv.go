package fileio

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

// readCSV reads a delimited export, converting legacy encodings to UTF-8 and
// guessing the delimiter (',', ';' or tab) from the first line.
func readCSV(r io.Reader, headerRow int) ([]map[string]string, error) {
	br := bufio.NewReader(r)

	// BOM from spreadsheet "CSV UTF-8" exports
	if bom, _ := br.Peek(3); bytes.Equal(bom, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	peek, _ := br.Peek(4096)
	var dec io.Reader = br
	if enc := detectEncoding(peek); enc != nil {
		dec = transform.NewReader(br, enc.NewDecoder())
	}

	cr := csv.NewReader(dec)
	cr.Comma = guessDelimiter(peek)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true

	var rows [][]string
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		rows = append(rows, rec)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	h := pickHeader(rows, headerRow)
	return rowsToMaps(rows, h, headerRow), nil
}

// detectEncoding returns nil for UTF-8. Anything else that chardet cannot
// name is read as Windows-1252, the usual legacy spreadsheet export.
func detectEncoding(sample []byte) encoding.Encoding {
	if len(sample) == 0 || utf8.Valid(trimPartialRune(sample)) {
		return nil
	}
	det, err := chardet.NewTextDetector().DetectBest(sample)
	if err != nil || det == nil {
		return charmap.Windows1252
	}
	switch strings.ToLower(det.Charset) {
	case "windows-1252":
		return charmap.Windows1252
	case "iso-8859-1":
		return charmap.ISO8859_1
	case "iso-8859-15":
		return charmap.ISO8859_15
	case "windows-1251", "cp1251":
		return charmap.Windows1251
	default:
		return charmap.Windows1252
	}
}

// trimPartialRune drops a multi-byte sequence cut by the peek window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax-1 && len(b) > 0; i++ {
		if r, _ := utf8.DecodeLastRune(b); r != utf8.RuneError {
			break
		}
		b = b[:len(b)-1]
	}
	return b
}

func guessDelimiter(sample []byte) rune {
	line := sample
	if i := bytes.IndexByte(sample, '\n'); i >= 0 {
		line = sample[:i]
	}
	best, bestN := ',', bytes.Count(line, []byte{','})
	for _, d := range []rune{';', '\t'} {
		if n := bytes.Count(line, []byte(string(d))); n > bestN {
			best, bestN = d, n
		}
	}
	return best
}
