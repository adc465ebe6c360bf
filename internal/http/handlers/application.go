package handlers

import (
	"net/http"
	"strings"
	"time"

	"hirepath/internal/app"
	"hirepath/internal/common"
	"hirepath/internal/domain/application"
	"hirepath/internal/domain/screening"
	"hirepath/internal/http/middleware"
	"hirepath/internal/http/response"
)

type ApplicationHandler struct {
	applications *app.ApplicationService
	reassigner   *app.ReassignmentService
	limiter      middleware.Limiter
}

func NewApplicationHandler(applications *app.ApplicationService, reassigner *app.ReassignmentService, limiter middleware.Limiter) *ApplicationHandler {
	return &ApplicationHandler{applications: applications, reassigner: reassigner, limiter: limiter}
}

type answerPayload struct {
	BoolValue    bool    `json:"bool_value"`
	NumericValue float64 `json:"numeric_value"`
}

type intakeRequest struct {
	VacancyID   string                   `json:"vacancy_id"`
	CandidateID string                   `json:"candidate_id"`
	Answers     map[string]answerPayload `json:"answers"`
}

type intakeResponse struct {
	Application *application.Application `json:"application"`
	Screening   screening.Result         `json:"screening"`
}

func (h *ApplicationHandler) Intake(w http.ResponseWriter, r *http.Request) {
	var req intakeRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	vacancyID, err := parseUUIDField(req.VacancyID, "vacancy_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	candidateID, err := parseUUIDField(req.CandidateID, "candidate_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "intake:" + vacancyID.String() + ":" + candidateID.String()
		if !h.limiter.Allow(key, 3, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "intake rate limit exceeded", nil))
			return
		}
	}
	answers := make(map[common.UUID]screening.Answer, len(req.Answers))
	for rawID, answer := range req.Answers {
		questionID, err := parseUUIDField(rawID, "answers")
		if err != nil {
			response.Error(w, err)
			return
		}
		answers[questionID] = screening.Answer{BoolValue: answer.BoolValue, NumericValue: answer.NumericValue}
	}
	created, result, err := h.applications.Intake(r.Context(), vacancyID, candidateID, answers)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, intakeResponse{Application: created, Screening: result})
}

func (h *ApplicationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.applications.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *ApplicationHandler) List(w http.ResponseWriter, r *http.Request) {
	if value := strings.TrimSpace(r.URL.Query().Get("vacancy_id")); value != "" {
		vacancyID, err := parseUUIDField(value, "vacancy_id")
		if err != nil {
			response.Error(w, err)
			return
		}
		items, err := h.applications.ListByVacancy(r.Context(), vacancyID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	if value := strings.TrimSpace(r.URL.Query().Get("candidate_id")); value != "" {
		candidateID, err := parseUUIDField(value, "candidate_id")
		if err != nil {
			response.Error(w, err)
			return
		}
		items, err := h.applications.ListByCandidate(r.Context(), candidateID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	response.Error(w, common.NewValidationError("invalid request", map[string]string{"query": "vacancy_id or candidate_id is required"}))
}

func (h *ApplicationHandler) History(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	entries, err := h.applications.History(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	if entries == nil {
		entries = []application.HistoryEntry{}
	}
	response.JSON(w, http.StatusOK, entries)
}

type advanceStageRequest struct {
	TargetStageID string `json:"target_stage_id"`
	MovedBy       string `json:"moved_by"`
	Notes         string `json:"notes"`
	Override      bool   `json:"override"`
}

func (h *ApplicationHandler) AdvanceStage(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req advanceStageRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	targetStageID, err := parseUUIDField(req.TargetStageID, "target_stage_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	movedBy, err := optionalUUIDField(req.MovedBy, "moved_by")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.AdvanceStage(r.Context(), id, targetStageID, movedBy, req.Notes, req.Override)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type discardRequest struct {
	Reason  string `json:"reason"`
	MovedBy string `json:"moved_by"`
}

func (h *ApplicationHandler) Discard(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req discardRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"reason": "reason is required"}))
		return
	}
	movedBy, err := optionalUUIDField(req.MovedBy, "moved_by")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.applications.Discard(r.Context(), id, req.Reason, movedBy)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type reassignRequest struct {
	TargetVacancyID string `json:"target_vacancy_id"`
	ActorID         string `json:"actor_id"`
}

func (h *ApplicationHandler) Reassign(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req reassignRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	targetVacancyID, err := parseUUIDField(req.TargetVacancyID, "target_vacancy_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	actor, err := optionalUUIDField(req.ActorID, "actor_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	created, err := h.reassigner.Reassign(r.Context(), id, targetVacancyID, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}
