package handlers

import (
	"net/http"
	"strings"
	"time"

	"hirepath/internal/app"
	"hirepath/internal/common"
	"hirepath/internal/domain/interview"
	"hirepath/internal/http/middleware"
	"hirepath/internal/http/response"
)

type InterviewHandler struct {
	interviews *app.InterviewService
	limiter    middleware.Limiter
}

func NewInterviewHandler(interviews *app.InterviewService, limiter middleware.Limiter) *InterviewHandler {
	return &InterviewHandler{interviews: interviews, limiter: limiter}
}

type slotPayload struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

type proposeRequest struct {
	VacancyID   string        `json:"vacancy_id"`
	CandidateID string        `json:"candidate_id"`
	StageID     string        `json:"stage_id"`
	Type        string        `json:"type"`
	Modality    string        `json:"modality"`
	Slots       []slotPayload `json:"slots"`
	MeetingLink string        `json:"meeting_link"`
	Location    string        `json:"location"`
	CreatedBy   string        `json:"created_by"`
}

func (h *InterviewHandler) Propose(w http.ResponseWriter, r *http.Request) {
	var req proposeRequest
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
	stageID, err := parseUUIDField(req.StageID, "stage_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	createdBy, err := optionalUUIDField(req.CreatedBy, "created_by")
	if err != nil {
		response.Error(w, err)
		return
	}
	if h.limiter != nil {
		key := "propose:" + vacancyID.String() + ":" + candidateID.String()
		if !h.limiter.Allow(key, 10, time.Minute) {
			response.Error(w, common.NewError(common.CodeRateLimited, "proposal rate limit exceeded", nil))
			return
		}
	}
	slots := make([]interview.Slot, 0, len(req.Slots))
	for _, slot := range req.Slots {
		slots = append(slots, interview.Slot{Start: slot.Start.UTC(), End: slot.End.UTC()})
	}
	created, err := h.interviews.Propose(r.Context(), app.ProposeParams{
		VacancyID:   vacancyID,
		CandidateID: candidateID,
		StageID:     stageID,
		Type:        interview.Type(req.Type),
		Modality:    interview.Modality(req.Modality),
		Slots:       slots,
		MeetingLink: req.MeetingLink,
		Location:    req.Location,
		CreatedBy:   createdBy,
	})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusCreated, created)
}

func (h *InterviewHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	item, err := h.interviews.Get(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, item)
}

func (h *InterviewHandler) List(w http.ResponseWriter, r *http.Request) {
	if value := strings.TrimSpace(r.URL.Query().Get("candidate_id")); value != "" {
		candidateID, err := parseUUIDField(value, "candidate_id")
		if err != nil {
			response.Error(w, err)
			return
		}
		items, err := h.interviews.ListByCandidate(r.Context(), candidateID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	if value := strings.TrimSpace(r.URL.Query().Get("vacancy_id")); value != "" {
		vacancyID, err := parseUUIDField(value, "vacancy_id")
		if err != nil {
			response.Error(w, err)
			return
		}
		items, err := h.interviews.ListByVacancy(r.Context(), vacancyID)
		if err != nil {
			response.Error(w, err)
			return
		}
		response.JSON(w, http.StatusOK, items)
		return
	}
	response.Error(w, common.NewValidationError("invalid request", map[string]string{"query": "candidate_id or vacancy_id is required"}))
}

func (h *InterviewHandler) SelectSlot(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req slotPayload
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.SelectSlot(r.Context(), id, interview.Slot{Start: req.Start.UTC(), End: req.End.UTC()})
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type rescheduleRequest struct {
	Start   time.Time `json:"start"`
	End     time.Time `json:"end"`
	ActorID string    `json:"actor_id"`
}

func (h *InterviewHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req rescheduleRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	actor, err := optionalUUIDField(req.ActorID, "actor_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.Reschedule(r.Context(), id, req.Start.UTC(), req.End.UTC(), actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type confirmAttendanceRequest struct {
	Confirmed bool `json:"confirmed"`
}

func (h *InterviewHandler) ConfirmAttendance(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req confirmAttendanceRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.ConfirmAttendance(r.Context(), id, req.Confirmed)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

type cancelRequest struct {
	Reason  string `json:"reason"`
	ActorID string `json:"actor_id"`
}

func (h *InterviewHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		response.Error(w, err)
		return
	}
	if strings.TrimSpace(req.Reason) == "" {
		response.Error(w, common.NewValidationError("invalid request", map[string]string{"reason": "reason is required"}))
		return
	}
	actor, err := optionalUUIDField(req.ActorID, "actor_id")
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.Cancel(r.Context(), id, req.Reason, actor)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}

func (h *InterviewHandler) Complete(w http.ResponseWriter, r *http.Request) {
	id, err := idFromPath(r, 2)
	if err != nil {
		response.Error(w, err)
		return
	}
	updated, err := h.interviews.MarkCompleted(r.Context(), id)
	if err != nil {
		response.Error(w, err)
		return
	}
	response.JSON(w, http.StatusOK, updated)
}
