package httpapi

import (
	"encoding/json"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/opticore/optirider/internal/config"
	"github.com/opticore/optirider/internal/distance"
	"github.com/opticore/optirider/internal/model"
	"github.com/opticore/optirider/internal/planner"
)

// Handler wires the three routing endpoints to the distance provider and
// the configured rule constants.
type Handler struct {
	cfg  *config.Config
	dist distance.Provider
	rand *rand.Rand
}

// NewHandler builds a Handler. rng may be nil, in which case rider order
// is drawn from math/rand's shared top-level source; pass a seeded
// *rand.Rand for deterministic tests.
func NewHandler(cfg *config.Config, dist distance.Provider, rng *rand.Rand) *Handler {
	return &Handler{cfg: cfg, dist: dist, rand: rng}
}

func (h *Handler) budget(runtimeSeconds int) time.Duration {
	if runtimeSeconds > 0 {
		return time.Duration(runtimeSeconds) * time.Second
	}
	return h.cfg.Rules.DefaultTimeLimit
}

// StartDay handles POST /startday/.
func (h *Handler) StartDay(w http.ResponseWriter, r *http.Request) {
	var req startDayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationError("malformed JSON body"))
		return
	}
	if err := validateProblem(req.problemDTO); err != nil {
		writeError(w, err)
		return
	}

	riders := toRiders(req.Riders)
	rules := modelRules(h.cfg.Rules)
	instance, err := buildInstance(r.Context(), h.dist, req.problemDTO, riders, rules.GlobalStartTime, h.cfg.Rules)
	if err != nil {
		log.Printf("[httpapi] start-day distance provider failure: %v", err)
		writeError(w, upstreamError("failed to resolve travel times"))
		return
	}

	mt := planner.StartDay(r.Context(), instance, instance.Penalty, h.budget(req.Runtime), rules)

	resp := planResponse{Riders: make([]riderResponse, len(riders))}
	for v, rider := range riders {
		trips := make([]model.Trip, 0, len(mt.Trips[v]))
		for _, t := range mt.Trips[v] {
			stops := make([]model.Stop, len(t.NodeIDs))
			for i, id := range t.NodeIDs {
				stops[i] = model.Stop{NodeID: id, Time: t.Times[i]}
			}
			trips = append(trips, model.Trip{Stops: stops})
		}
		resp.Riders[v] = riderResponse{ID: rider.ID, Tours: toTourDTOs(trips)}
	}
	writeJSON(w, http.StatusOK, resp)
}

// AddPickups handles POST /addorder/.
func (h *Handler) AddPickups(w http.ResponseWriter, r *http.Request) {
	var req addPickupsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationError("malformed JSON body"))
		return
	}
	if err := validateAddPickups(req); err != nil {
		writeError(w, err)
		return
	}

	riders := toRiders(req.Riders)
	rules := modelRules(h.cfg.Rules)
	instance, err := buildInstance(r.Context(), h.dist, req.problemDTO, riders, req.CurrentTime, h.cfg.Rules)
	if err != nil {
		log.Printf("[httpapi] add-pickups distance provider failure: %v", err)
		writeError(w, upstreamError("failed to resolve travel times"))
		return
	}

	out := planner.AddPickups(r.Context(), planner.AddPickupsInput{
		Instance:    instance,
		Riders:      riders,
		NewPickups:  req.NewOrders,
		CurTime:     req.CurrentTime,
		TotalBudget: h.budget(req.Runtime),
		Rand:        h.rand,
	}, rules)

	resp := planResponse{Riders: make([]riderResponse, len(out.RiderPlans))}
	for i, rp := range out.RiderPlans {
		resp.Riders[i] = riderResponse{
			ID:                 rp.RiderID,
			Tours:              toTourDTOs(rp.Trips),
			UpdatedCurrentTour: rp.UpdatedCurrentTour,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeletePickup handles POST /delorder/.
func (h *Handler) DeletePickup(w http.ResponseWriter, r *http.Request) {
	var req deletePickupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, validationError("malformed JSON body"))
		return
	}
	if err := validateDeletePickup(req); err != nil {
		writeError(w, err)
		return
	}

	riders := toRiders(req.Riders)
	rules := modelRules(h.cfg.Rules)
	instance, err := buildInstance(r.Context(), h.dist, req.problemDTO, riders, req.CurrentTime, h.cfg.Rules)
	if err != nil {
		log.Printf("[httpapi] delete-pickup distance provider failure: %v", err)
		writeError(w, upstreamError("failed to resolve travel times"))
		return
	}

	out := planner.DeletePickup(r.Context(), planner.DeletePickupInput{
		Instance:    instance,
		Riders:      riders,
		DelOrderID:  req.DelOrderID,
		CurTime:     req.CurrentTime,
		TotalBudget: h.budget(req.Runtime),
	}, rules)

	resp := planResponse{Riders: make([]riderResponse, len(out.RiderPlans))}
	for i, rp := range out.RiderPlans {
		resp.Riders[i] = riderResponse{
			ID:                 rp.RiderID,
			Tours:              toTourDTOs(rp.Trips),
			UpdatedCurrentTour: rp.RiderID == out.ChangedRider,
		}
	}
	writeJSON(w, http.StatusOK, resp)
}

// Health handles GET /health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
