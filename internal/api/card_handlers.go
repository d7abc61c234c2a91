package api

import (
	stderrors "errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/vytor/flashdeck/internal/errors"
	"github.com/vytor/flashdeck/internal/logger"
	"github.com/vytor/flashdeck/internal/models"
	"github.com/vytor/flashdeck/internal/services"
)

type setFavoriteRequest struct {
	Favorite *bool `json:"favorite" validate:"required"`
}

func (s *Server) handleCount(w http.ResponseWriter, r *http.Request) {
	n, err := s.Deck.Count(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"count": n})
}

func (s *Server) handleAddCard(w http.ResponseWriter, r *http.Request) {
	var card models.NewFlashCard
	if err := decodeJSON(r, &card); err != nil {
		handleError(w, r, err)
		return
	}
	id, err := s.Deck.Add(r.Context(), card)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int64{"id": id})
}

func (s *Server) handleAddCards(w http.ResponseWriter, r *http.Request) {
	var cards []models.NewFlashCard
	if err := readJSON(r, &cards); err != nil {
		handleError(w, r, err)
		return
	}
	if len(cards) == 0 {
		handleError(w, r, errors.NewValidationError("cards", "cannot be empty"))
		return
	}
	for i := range cards {
		if err := validateStruct(&cards[i]); err != nil {
			handleError(w, r, err)
			return
		}
	}

	ids, err := s.Deck.AddMany(r.Context(), cards)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]any{"ids": ids, "imported": len(ids)})
}

// handleImport accepts a CSV body. With ?async=true the rows are handed to
// the import queue and the job id is returned.
func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)
	limit := s.maxImportBytes()
	body := http.MaxBytesReader(w, r.Body, limit)

	async, _ := strconv.ParseBool(r.URL.Query().Get("async"))
	if !async {
		n, err := s.Import.ImportCSV(ctx, body)
		if err != nil {
			handleError(w, r, importBodyError(err, limit))
			return
		}
		if n == 0 {
			handleError(w, r, errors.NewBadRequestError("no valid flash cards found"))
			return
		}
		writeJSON(w, http.StatusCreated, map[string]int{"imported": n})
		return
	}

	if s.Jobs == nil {
		handleError(w, r, errors.NewBadRequestError("asynchronous import is not enabled"))
		return
	}
	rows, err := s.parser().Parse(body)
	if err != nil {
		appErr := errors.NewValidationError("csv", err.Error())
		appErr.Err = err
		handleError(w, r, importBodyError(appErr, limit))
		return
	}
	if len(services.RowsToCards(rows)) == 0 {
		handleError(w, r, errors.NewBadRequestError("no valid flash cards found"))
		return
	}
	id, err := s.Jobs.EnqueueImport(ctx, rows)
	if err != nil {
		handleError(w, r, err)
		return
	}
	log.Debug("import queued as job %s", id)
	w.Header().Set("Location", "/api/jobs/"+id)
	writeJSON(w, http.StatusAccepted, map[string]string{"job_id": id})
}

func (s *Server) handleJobStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if s.Jobs == nil {
		handleError(w, r, errors.NewNotFoundError("job", id))
		return
	}
	job, ok := s.Jobs.Status(id)
	if !ok {
		handleError(w, r, errors.NewNotFoundError("job", id))
		return
	}
	writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleDeleteCard(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	deleted, err := s.Deck.Delete(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	if !deleted {
		handleError(w, r, errors.NewNotFoundError("flashcard", id))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleClear(w http.ResponseWriter, r *http.Request) {
	if err := s.Deck.Clear(r.Context()); err != nil {
		handleError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFavorites(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Deck.Favorites(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards, "total": len(cards)})
}

func (s *Server) handleToggleFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.Deck.ToggleFavorite(r.Context(), id)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

func (s *Server) handleSetFavorite(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		handleError(w, r, err)
		return
	}
	var req setFavoriteRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	card, err := s.Deck.SetFavorite(r.Context(), id, *req.Favorite)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, card)
}

// importBodyError turns a read cut short by MaxBytesReader into a 413.
func importBodyError(err error, limit int64) error {
	var tooLarge *http.MaxBytesError
	if stderrors.As(err, &tooLarge) {
		return errors.NewPayloadTooLargeError(limit)
	}
	return err
}
