package server

import (
	"github.com/rgehrsitz/benefitcost/internal/compare"
	"github.com/rgehrsitz/benefitcost/internal/config"
	"github.com/rgehrsitz/benefitcost/internal/domain"
	"github.com/valyala/fasthttp"
)

// CompareRequest is the body of POST /v1/compare
type CompareRequest struct {
	Profile    domain.PersonProfile `json:"profile"`
	BasePlanID string               `json:"basePlanId"`
	PlanIDs    []string             `json:"planIds"`
}

func (s *Server) handleHealth(ctx *fasthttp.RequestCtx) {
	writeJSON(ctx, fasthttp.StatusOK, map[string]any{
		"status":  "ok",
		"version": s.Version,
		"plans":   len(s.Engine.Config.Plans),
	})
}

// handleProjections returns expected and worst case results for a profile
func (s *Server) handleProjections(ctx *fasthttp.RequestCtx) {
	var profile domain.PersonProfile
	if !decodeBody(ctx, &profile) {
		return
	}
	if err := s.validateProfile(&profile); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	set := s.Engine.ProjectAll(profile)
	if set.Expected == nil {
		set.Expected = []domain.PlanResult{}
		set.WorstCase = []domain.PlanResult{}
	}
	writeJSON(ctx, fasthttp.StatusOK, set)
}

func (s *Server) handleCompare(ctx *fasthttp.RequestCtx) {
	var req CompareRequest
	if !decodeBody(ctx, &req) {
		return
	}
	if err := s.validateProfile(&req.Profile); err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}

	compSet, err := s.Compare.Compare(ctx, req.Profile, compare.CompareOptions{
		BasePlanID: req.BasePlanID,
		PlanIDs:    req.PlanIDs,
	})
	if err != nil {
		writeError(ctx, fasthttp.StatusUnprocessableEntity, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, compSet)
}

func (s *Server) handleTaxSavings(ctx *fasthttp.RequestCtx) {
	var in domain.TaxSavingsInput
	if !decodeBody(ctx, &in) {
		return
	}

	savings, err := s.Engine.EstimateTaxSavings(in)
	if err != nil {
		writeError(ctx, fasthttp.StatusBadRequest, err.Error())
		return
	}
	writeJSON(ctx, fasthttp.StatusOK, savings)
}

func (s *Server) validateProfile(profile *domain.PersonProfile) error {
	if err := config.ValidateProfile(profile); err != nil {
		return err
	}
	return config.ValidateProfileAgainst(s.Engine.Config, profile)
}
