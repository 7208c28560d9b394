// README: Simulation handlers for submitting event sets and reading stored runs.
package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"ridesim/internal/modules/run"
	"ridesim/internal/types"
)

type RunService interface {
	Execute(ctx context.Context, cmd run.ExecuteCommand) (*run.Run, error)
	Get(ctx context.Context, id types.ID) (*run.Run, error)
	List(ctx context.Context, limit int) ([]*run.Run, error)
}

type SimulationHandler struct {
	runs RunService
}

func NewSimulationHandler(svc RunService) *SimulationHandler {
	return &SimulationHandler{runs: svc}
}

type createSimulationReq struct {
	Name   string `json:"name"`
	Events string `json:"events"`
}

type listSimulationsResp struct {
	Runs []*run.Run `json:"runs"`
}

func (h *SimulationHandler) Create(c *gin.Context) {
	var req createSimulationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "invalid json")
		return
	}
	if req.Events == "" {
		writeError(c, http.StatusBadRequest, "missing events")
		return
	}
	r, err := h.runs.Execute(c.Request.Context(), run.ExecuteCommand{Name: req.Name, Input: req.Events})
	if err != nil {
		writeRunError(c, err)
		return
	}
	writeJSON(c, http.StatusCreated, r)
}

func (h *SimulationHandler) Get(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		writeError(c, http.StatusBadRequest, "missing simulation id")
		return
	}
	r, err := h.runs.Get(c.Request.Context(), types.ID(id))
	if err != nil {
		writeRunError(c, err)
		return
	}
	writeJSON(c, http.StatusOK, r)
}

func (h *SimulationHandler) List(c *gin.Context) {
	limit := 0
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}
	runs, err := h.runs.List(c.Request.Context(), limit)
	if err != nil {
		writeRunError(c, err)
		return
	}
	if runs == nil {
		runs = []*run.Run{}
	}
	writeJSON(c, http.StatusOK, listSimulationsResp{Runs: runs})
}
