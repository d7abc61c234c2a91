package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/vytor/flashdeck/internal/csvimport"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
)

// ImportService turns CSV rows into cards. Rows need a non-empty front in
// column one and back in column two; extra columns are ignored and anything
// else is skipped without error.
type ImportService interface {
	ImportRows(ctx context.Context, rows [][]string) (int, error)
	ImportCSV(ctx context.Context, r io.Reader) (int, error)
	// ImportFiles imports every file matching a doublestar pattern, in
	// lexical path order, as one batch.
	ImportFiles(ctx context.Context, pattern string) (int, error)
	// ReplaceCSV swaps the whole deck for the rows in r. The deck is left
	// untouched when r cannot be parsed.
	ReplaceCSV(ctx context.Context, r io.Reader) (int, error)
}

type importService struct {
	deck   DeckService
	parser csvimport.RowParser
}

// NewImportService creates an ImportService. A nil parser uses
// csvimport.NewParser().
func NewImportService(deck DeckService, parser csvimport.RowParser) ImportService {
	if parser == nil {
		parser = csvimport.NewParser()
	}
	return &importService{deck: deck, parser: parser}
}

// RowsToCards keeps the rows that form a valid card.
func RowsToCards(rows [][]string) []models.NewFlashCard {
	cards := make([]models.NewFlashCard, 0, len(rows))
	for _, row := range rows {
		if len(row) < 2 {
			continue
		}
		front := strings.TrimSpace(row[0])
		back := strings.TrimSpace(row[1])
		if front == "" || back == "" {
			continue
		}
		cards = append(cards, models.NewFlashCard{Front: front, Back: back})
	}
	return cards
}

func (s *importService) ImportRows(ctx context.Context, rows [][]string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("import")

	cards := RowsToCards(rows)
	if skipped := len(rows) - len(cards); skipped > 0 {
		log.Debug("skipped %d malformed rows", skipped)
	}
	if len(cards) == 0 {
		log.Info("no valid rows in %d", len(rows))
		return 0, nil
	}

	ids, err := s.deck.AddMany(ctx, cards)
	if err != nil {
		log.Error("failed to store %d cards: %v", len(cards), err)
		return 0, err
	}
	log.Info("imported %d cards", len(ids))
	return len(ids), nil
}

func (s *importService) ImportCSV(ctx context.Context, r io.Reader) (int, error) {
	rows, err := s.parser.Parse(r)
	if err != nil {
		appErr := errors.NewValidationError("csv", err.Error())
		appErr.Err = err
		return 0, appErr
	}
	return s.ImportRows(ctx, rows)
}

func (s *importService) ReplaceCSV(ctx context.Context, r io.Reader) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("import")

	rows, err := s.parser.Parse(r)
	if err != nil {
		appErr := errors.NewValidationError("csv", err.Error())
		appErr.Err = err
		return 0, appErr
	}
	cards := RowsToCards(rows)
	ids, err := s.deck.Replace(ctx, cards)
	if err != nil {
		log.Error("failed to replace deck with %d cards: %v", len(cards), err)
		return 0, err
	}
	log.Info("replaced deck with %d cards", len(ids))
	return len(ids), nil
}

func (s *importService) ImportFiles(ctx context.Context, pattern string) (int, error) {
	log := logger.FromContext(ctx).WithPrefix("import").WithField("pattern", pattern)

	paths, err := doublestar.FilepathGlob(pattern)
	if err != nil {
		return 0, errors.NewValidationError("pattern", err.Error())
	}
	if len(paths) == 0 {
		return 0, errors.NewValidationError("pattern", "matched no files")
	}
	slices.Sort(paths)

	var rows [][]string
	for _, path := range paths {
		fileRows, err := s.parseFile(path)
		if err != nil {
			log.Error("failed to read %s: %v", path, err)
			return 0, err
		}
		log.Debug("read %d rows from %s", len(fileRows), path)
		rows = append(rows, fileRows...)
	}
	return s.ImportRows(ctx, rows)
}

func (s *importService) parseFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := s.parser.Parse(f)
	if err != nil {
		appErr := errors.NewValidationError(path, err.Error())
		appErr.Err = err
		return nil, appErr
	}
	return rows, nil
}
