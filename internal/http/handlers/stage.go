package handlers

import (
	"net/http"

	"hirepath/internal/domain/stage"
	"hirepath/internal/http/response"
)

type StageHandler struct {
	stages stage.Repository
}

func NewStageHandler(stages stage.Repository) *StageHandler {
	return &StageHandler{stages: stages}
}

func (h *StageHandler) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.stages.List(r.Context())
	if err != nil {
		response.Error(w, err)
		return
	}
	if items == nil {
		items = []stage.Stage{}
	}
	response.JSON(w, http.StatusOK, items)
}
