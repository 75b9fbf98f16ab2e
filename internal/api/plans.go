package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/amurg-ai/phonebill/internal/billing"
	"github.com/amurg-ai/phonebill/internal/store"
)

// Response messages. The front-end matches on these strings.
const (
	msgCreated = "Price plan created successfully"
	msgUpdated = "Price plan updated successfully"
	msgDeleted = "Price plan deleted successfully"

	errPlanNotFound = "Price plan not found"
)

// planRequest is the body of create and update calls.
type planRequest struct {
	Name     string `json:"name"`
	CallCost number `json:"call_cost"`
	SMSCost  number `json:"sms_cost"`
}

type deleteRequest struct {
	ID planID `json:"id"`
}

type billRequest struct {
	PricePlan string `json:"price_plan"`
	Actions   string `json:"actions"`
}

// decodeBody reads a size-limited JSON body into dst. It writes a 400 and
// returns false when the body cannot be decoded.
func (s *Server) decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

func (s *Server) handleListPricePlans(w http.ResponseWriter, r *http.Request) {
	plans, err := s.store.ListPricePlans(r.Context())
	if err != nil {
		s.logger.Error("list price plans failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list price plans")
		return
	}
	if plans == nil {
		plans = []store.PricePlan{}
	}
	writeJSON(w, http.StatusOK, plans)
}

func (s *Server) handleCreatePricePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	plan := &store.PricePlan{
		PlanName:  req.Name,
		CallPrice: float64(req.CallCost),
		SMSPrice:  float64(req.SMSCost),
	}
	if err := s.store.CreatePricePlan(r.Context(), plan); err != nil {
		s.logger.Error("create price plan failed", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to create price plan")
		return
	}
	s.metrics.planWrites.WithLabelValues("create").Inc()
	s.logger.Info("price plan created", "id", plan.ID, "name", plan.PlanName)

	writeMessage(w, msgCreated)
}

// handleUpdatePricePlan matches plans by name. Every plan sharing the name is
// updated, and an unknown name still reports success.
func (s *Server) handleUpdatePricePlan(w http.ResponseWriter, r *http.Request) {
	var req planRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	n, err := s.store.UpdatePricePlanByName(r.Context(), req.Name, float64(req.CallCost), float64(req.SMSCost))
	if err != nil {
		s.logger.Error("update price plan failed", "name", req.Name, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to update price plan")
		return
	}
	s.metrics.planWrites.WithLabelValues("update").Inc()
	if n == 0 {
		s.logger.Debug("update matched no price plans", "name", req.Name, "rows", n)
	} else {
		s.logger.Info("price plan updated", "name", req.Name, "rows", n)
	}

	writeMessage(w, msgUpdated)
}

// handleDeletePricePlan removes a plan by id. An unknown id still reports success.
func (s *Server) handleDeletePricePlan(w http.ResponseWriter, r *http.Request) {
	var req deleteRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	n, err := s.store.DeletePricePlan(r.Context(), int64(req.ID))
	if err != nil {
		s.logger.Error("delete price plan failed", "id", int64(req.ID), "error", err)
		writeError(w, http.StatusInternalServerError, "failed to delete price plan")
		return
	}
	s.metrics.planWrites.WithLabelValues("delete").Inc()
	if n == 0 {
		s.logger.Debug("delete matched no price plan", "id", int64(req.ID), "rows", n)
	} else {
		s.logger.Info("price plan deleted", "id", int64(req.ID))
	}

	writeMessage(w, msgDeleted)
}

func (s *Server) handlePhoneBill(w http.ResponseWriter, r *http.Request) {
	var req billRequest
	if !s.decodeBody(w, r, &req) {
		return
	}

	bill, err := s.calc.Calculate(r.Context(), req.PricePlan, req.Actions)
	switch {
	case errors.Is(err, billing.ErrPlanNotFound):
		s.metrics.bills.WithLabelValues("plan_not_found").Inc()
		writeError(w, http.StatusNotFound, errPlanNotFound)
		return
	case err != nil:
		s.metrics.bills.WithLabelValues("error").Inc()
		s.logger.Error("calculate bill failed", "plan", req.PricePlan, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to calculate bill")
		return
	}
	s.metrics.bills.WithLabelValues("ok").Inc()

	writeJSON(w, http.StatusOK, map[string]string{"total": bill.FormatTotal()})
}
