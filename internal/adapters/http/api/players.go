package api

import (
	"net/http"

	"github.com/okian/universus/internal/domain/model"
	"github.com/okian/universus/internal/roster"
)

// playerRequest is the body of PUT /players/{name}. Unset tiers count as B
// and every tier is capped at B.
type playerRequest struct {
	Tiers       model.TierVector  `json:"tiers"`
	WeightClass model.WeightClass `json:"weight_class" validate:"omitempty,max=64"`
}

type sportsResponse struct {
	Sports        []model.Sport       `json:"sports"`
	WeightClasses []model.WeightClass `json:"weight_classes"`
}

func (s *Server) handleSports(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, sportsResponse{
		Sports:        s.deps.Sports(),
		WeightClasses: s.deps.WeightClasses(),
	})
}

func (s *Server) handleListPlayers(w http.ResponseWriter, r *http.Request) {
	players, err := s.deps.Players()
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, players)
}

func (s *Server) handleGetPlayer(w http.ResponseWriter, r *http.Request) {
	p, err := s.deps.Player(pathParam(r, "name"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handlePutPlayer(w http.ResponseWriter, r *http.Request) {
	var req playerRequest
	if err := s.decode(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	p, err := s.deps.UpsertPlayer(r.Context(), roster.UpsertRequest{
		Name:        pathParam(r, "name"),
		Tiers:       req.Tiers,
		WeightClass: req.WeightClass,
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeletePlayer(w http.ResponseWriter, r *http.Request) {
	if err := s.deps.DeletePlayer(r.Context(), pathParam(r, "name")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
