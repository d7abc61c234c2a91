package api

import (
	"net/http"
)

type positionResponse struct {
	CurrentIndex int `json:"current_index"`
}

type setPositionRequest struct {
	Index *int `json:"index" validate:"required,min=0"`
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	session, err := s.Deck.Session(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, session)
}

func (s *Server) handleNaturalDeck(w http.ResponseWriter, r *http.Request) {
	cards, err := s.Deck.NaturalDeck(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"cards": cards, "total": len(cards)})
}

func (s *Server) handleNext(w http.ResponseWriter, r *http.Request) {
	s.advance(w, r, 1)
}

func (s *Server) handlePrevious(w http.ResponseWriter, r *http.Request) {
	s.advance(w, r, -1)
}

func (s *Server) advance(w http.ResponseWriter, r *http.Request, delta int) {
	index, err := s.Deck.Step(r.Context(), delta)
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{CurrentIndex: index})
}

func (s *Server) handleGetPosition(w http.ResponseWriter, r *http.Request) {
	index, err := s.Deck.CurrentPosition(r.Context())
	if err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{CurrentIndex: index})
}

func (s *Server) handleSetPosition(w http.ResponseWriter, r *http.Request) {
	var req setPositionRequest
	if err := decodeJSON(r, &req); err != nil {
		handleError(w, r, err)
		return
	}
	if err := s.Deck.SavePosition(r.Context(), *req.Index); err != nil {
		handleError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, positionResponse{CurrentIndex: *req.Index})
}

func (s *Server) handleShuffle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := s.Deck.RegenerateRandomOrder(ctx); err != nil {
		handleError(w, r, err)
		return
	}
	s.handleSession(w, r)
}
