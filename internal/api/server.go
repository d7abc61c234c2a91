package api

import (
	"context"

	"github.com/vytor/flashdeck/internal/csvimport"
	"github.com/vytor/flashdeck/internal/jobs"
	"github.com/vytor/flashdeck/internal/services"
)

// defaultMaxImportBytes caps CSV upload bodies when Server.MaxImportBytes is unset.
const defaultMaxImportBytes = 10 << 20

// Server exposes the deck over JSON HTTP.
type Server struct {
	Deck   services.DeckService
	Import services.ImportService
	Jobs   jobs.JobQueue
	Parser csvimport.RowParser

	// Ping reports storage health for /readyz. Nil means always ready.
	Ping func(ctx context.Context) error

	CORSAllowedOrigins []string

	// MaxImportBytes caps import bodies; zero means 10 MiB.
	MaxImportBytes int64
}

func (s *Server) parser() csvimport.RowParser {
	if s.Parser == nil {
		return csvimport.NewParser()
	}
	return s.Parser
}

func (s *Server) maxImportBytes() int64 {
	if s.MaxImportBytes <= 0 {
		return defaultMaxImportBytes
	}
	return s.MaxImportBytes
}
