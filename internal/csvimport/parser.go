// Package csvimport reads flashcard rows from CSV text.
package csvimport

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
)

// RowParser splits raw text into records of string columns.
type RowParser interface {
	Parse(r io.Reader) ([][]string, error)
}

// Parser is the default RowParser. Rows may have any number of columns;
// blank lines are skipped.
type Parser struct {
	// Comma is the field delimiter. Zero means ','.
	Comma rune
}

// NewParser returns a comma-separated Parser.
func NewParser() *Parser {
	return &Parser{Comma: ','}
}

// Parse reads every record from r. A malformed quote or delimiter is
// reported with the line it occurred on.
func (p *Parser) Parse(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	if p.Comma != 0 {
		reader.Comma = p.Comma
	}
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = false

	var rows [][]string
	for {
		rec, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var perr *csv.ParseError
			if errors.As(err, &perr) {
				return nil, fmt.Errorf("csv parse error on line %d: %w", perr.Line, perr.Err)
			}
			return nil, fmt.Errorf("failed to read csv row: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

// ParseString is a convenience wrapper around Parse.
func (p *Parser) ParseString(s string) ([][]string, error) {
	return p.Parse(strings.NewReader(s))
}

func isBlank(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}
