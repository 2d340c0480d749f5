package http

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/KyleGowen/excelsior-sub008/deckcode"
	"github.com/KyleGowen/excelsior-sub008/deckrules"
)

// Deck request types

type entryRequest struct {
	CardID   string `json:"cardId"`
	Type     string `json:"type"`
	Quantity int    `json:"quantity"`
}

type deckRequest struct {
	Entries            []entryRequest `json:"entries"`
	ReserveCharacterID string         `json:"reserveCharacterId"`
}

func (req deckRequest) toDeck() (deckrules.Deck, error) {
	deck := deckrules.Deck{
		Entries:            make([]deckrules.Entry, 0, len(req.Entries)),
		ReserveCharacterID: strings.TrimSpace(req.ReserveCharacterID),
	}

	for i, entry := range req.Entries {
		t, err := deckrules.ParseType(entry.Type)
		if err != nil {
			return deckrules.Deck{}, validationError{
				Field:   fmt.Sprintf("entries[%d].type", i),
				Message: fmt.Sprintf("unknown card type %q", entry.Type),
			}
		}

		deck.Entries = append(deck.Entries, deckrules.Entry{
			CardID:   strings.TrimSpace(entry.CardID),
			Type:     t,
			Quantity: entry.Quantity,
		})
	}

	return deck, nil
}

type checkAddRequest struct {
	Deck   deckRequest `json:"deck"`
	CardID string      `json:"cardId"`
}

type decodeRequest struct {
	Code string `json:"code"`
}

// Deck response types

type validateResponse struct {
	Legal    bool                  `json:"legal"`
	Errors   []deckrules.Violation `json:"errors"`
	Warnings []deckrules.Violation `json:"warnings"`
}

type checkAddResponse struct {
	Allowed    bool                  `json:"allowed"`
	Violations []deckrules.Violation `json:"violations"`
}

type encodeResponse struct {
	Code string `json:"code"`
}

// Card handlers

func (s *Server) handleGetCard(w http.ResponseWriter, r *http.Request) {
	card, err := s.source.GetCard(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, card)
}

// Deck handlers

func (s *Server) readDeck(w http.ResponseWriter, r *http.Request) (deckrules.Deck, bool) {
	var req deckRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return deckrules.Deck{}, false
	}

	deck, err := req.toDeck()
	if err != nil {
		s.writeError(w, err)
		return deckrules.Deck{}, false
	}

	return deck, true
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.readDeck(w, r)
	if !ok {
		return
	}

	cards, err := s.source.Catalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	result := s.engine.Validate(cards, deck)

	s.writeJSON(w, http.StatusOK, validateResponse{
		Legal:    result.Legal(),
		Errors:   result.Errors,
		Warnings: result.Warnings,
	})
}

func (s *Server) handleCheckAdd(w http.ResponseWriter, r *http.Request) {
	var req checkAddRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	cardID := strings.TrimSpace(req.CardID)
	if cardID == "" {
		s.writeError(w, validationError{Field: "cardId", Message: "required"})
		return
	}

	deck, err := req.Deck.toDeck()
	if err != nil {
		s.writeError(w, err)
		return
	}

	cards, err := s.source.Catalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	violations, err := s.engine.CheckAdd(cards, deck, cardID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, checkAddResponse{
		Allowed:    len(violations) == 0,
		Violations: violations,
	})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.readDeck(w, r)
	if !ok {
		return
	}

	cards, err := s.source.Catalog(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, deckrules.Stats(cards, deck))
}

func (s *Server) handleEncode(w http.ResponseWriter, r *http.Request) {
	deck, ok := s.readDeck(w, r)
	if !ok {
		return
	}

	code, err := deckcode.Encode(deck)
	if err != nil {
		s.writeError(w, validationError{Field: "entries", Message: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, encodeResponse{Code: code})
}

func (s *Server) handleDecode(w http.ResponseWriter, r *http.Request) {
	var req decodeRequest
	if err := s.readJSON(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	deck, err := deckcode.Decode(strings.TrimSpace(req.Code))
	if err != nil {
		s.writeError(w, validationError{Field: "code", Message: err.Error()})
		return
	}

	s.writeJSON(w, http.StatusOK, deck)
}
