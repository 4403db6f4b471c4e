package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
)

var (
	errNotText       = errors.New("content is not valid UTF-8 text")
	errBinaryContent = errors.New("content contains NUL bytes")
	errMissingColumn = errors.New("column not found in header")
)

type aggregateOptions struct {
	column string
	strict bool
}

type aggregateStats struct {
	total       float64
	rows        int64
	coerced     int64
	columnFound bool
}

// aggregateCSV sums one column of a headed CSV document. Cells that are not
// numbers count as zero; only a document that cannot be decoded as text or
// read as CSV at all returns an error.
func aggregateCSV(ctx context.Context, r io.Reader, opts aggregateOptions) (aggregateStats, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return aggregateStats{}, fmt.Errorf("read content: %w", err)
	}

	text, err := decodeText(raw)
	if err != nil {
		return aggregateStats{}, err
	}

	reader := csv.NewReader(bytes.NewReader(text))
	reader.ReuseRecord = true
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return aggregateStats{}, nil
	}
	if err != nil {
		return aggregateStats{}, fmt.Errorf("read header: %w", err)
	}
	header = append([]string(nil), header...)

	var stats aggregateStats
	for _, name := range header {
		if name == opts.column {
			stats.columnFound = true
			break
		}
	}
	if !stats.columnFound {
		if opts.strict {
			return aggregateStats{}, fmt.Errorf("%w: %q", errMissingColumn, opts.column)
		}
		slog.WarnContext(ctx, "aggregation column missing, every row counts as zero", "column", opts.column)
	}

	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return aggregateStats{}, fmt.Errorf("read row %d: %w", stats.rows+1, err)
		}

		stats.rows++
		row := toParsedRow(header, record)

		cell, present := row[opts.column]
		amount, ok := CoerceAmount(cell, present)
		if !ok {
			stats.coerced++
			slog.DebugContext(ctx, "cell is not a number, counted as zero", "row", stats.rows, "value", cell)
		}
		stats.total += amount
	}

	return stats, nil
}

// decodeText returns UTF-8 text without a BOM. UTF-16 input is accepted when
// it starts with a BOM, which is what spreadsheet exports write. The UTF-16
// decoder substitutes U+FFFD for lone surrogates and odd trailing bytes, so
// any U+FFFD in its output marks the file as corrupt.
func decodeText(raw []byte) ([]byte, error) {
	utf16 := hasUTF16BOM(raw)
	if !utf16 && !utf8.Valid(raw) {
		return nil, errNotText
	}

	text, _, err := transform.Bytes(unicode.BOMOverride(unicode.UTF8.NewDecoder()), raw)
	if err != nil {
		return nil, fmt.Errorf("decode content: %w", err)
	}

	if utf16 && bytes.ContainsRune(text, utf8.RuneError) {
		return nil, errNotText
	}

	if bytes.IndexByte(text, 0) >= 0 {
		return nil, errBinaryContent
	}

	return text, nil
}

func hasUTF16BOM(raw []byte) bool {
	return bytes.HasPrefix(raw, []byte{0xFE, 0xFF}) || bytes.HasPrefix(raw, []byte{0xFF, 0xFE})
}

// toParsedRow maps header names to cells. Short rows leave the trailing
// columns absent; with duplicate header names the first column wins.
func toParsedRow(header, record []string) entity.ParsedRow {
	row := make(entity.ParsedRow, len(header))
	for i, name := range header {
		if i >= len(record) {
			break
		}
		if _, dup := row[name]; dup {
			continue
		}
		row[name] = record[i]
	}
	return row
}
