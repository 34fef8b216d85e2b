// Package http provides http transport for sentiment
package http

import (
	stdhttp "net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	perr "sentimeter/internal/platform/errors"

	"sentimeter/internal/modkit/httpkit"
	"sentimeter/internal/services/api/sentiment/domain"
	batchdom "sentimeter/internal/services/batch/domain"
)

// Register mounts sentiment endpoints on the given router
func Register(r httpkit.Router, svc domain.ServicePort, submit batchdom.SubmitPort, jobs batchdom.QueryPort) {
	h := &handlers{svc: svc, submit: submit, jobs: jobs}
	httpkit.PostJSON[domain.AnalyzeInput](r, "/analyze", h.analyze)
	httpkit.PostJSON[domain.BatchInput](r, "/analyze/batch", h.analyzeBatch)
	httpkit.Get(r, "/task/{task_id}", h.taskStatus)
	httpkit.Get(r, "/history", h.history)
}

type handlers struct {
	svc    domain.ServicePort
	submit batchdom.SubmitPort
	jobs   batchdom.QueryPort
}

// @Summary Analyze one text synchronously
// @Tags Sentiment
// @Accept json
// @Produce json
// @Param payload body domain.AnalyzeInput true "Text"
// @Success 200 {object} domain.AnalyzeResult "ok"
// @Router /sentiment/analyze [post]
func (h *handlers) analyze(r *stdhttp.Request, in domain.AnalyzeInput) (any, error) {
	return h.svc.Analyze(r.Context(), httpkit.MustUser(r), in.Text)
}

// @Summary Submit texts for asynchronous batch analysis
// @Tags Sentiment
// @Accept json
// @Produce json
// @Param payload body domain.BatchInput true "Texts"
// @Success 200 {object} domain.BatchAccepted "accepted"
// @Router /sentiment/analyze/batch [post]
func (h *handlers) analyzeBatch(r *stdhttp.Request, in domain.BatchInput) (any, error) {
	taskID, err := h.submit.Submit(r.Context(), httpkit.MustUser(r), in.Texts)
	if err != nil {
		return nil, err
	}
	return domain.BatchAccepted{
		TaskID:  taskID,
		Status:  batchdom.StatusPending,
		Message: "Batch sentiment analysis started. Use /sentiment/task/{task_id} to check status.",
	}, nil
}

// @Summary Poll a batch task
// @Tags Sentiment
// @Produce json
// @Success 200 {object} batchdom.Job "ok"
// @Failure 404 {object} perr.Wire "task not found"
// @Router /sentiment/task/{task_id} [get]
func (h *handlers) taskStatus(r *stdhttp.Request) (any, error) {
	return h.jobs.Owned(r.Context(), httpkit.MustUser(r), chi.URLParam(r, "task_id"))
}

// @Summary List the caller's prediction history
// @Tags Sentiment
// @Produce json
// @Success 200 {array} domain.HistoryItem "ok"
// @Router /sentiment/history [get]
func (h *handlers) history(r *stdhttp.Request) (any, error) {
	skip, err := queryInt(r, "skip", 0)
	if err != nil {
		return nil, err
	}
	limit, err := queryInt(r, "limit", 10)
	if err != nil {
		return nil, err
	}
	return h.svc.History(r.Context(), httpkit.MustUser(r), skip, limit)
}

func queryInt(r *stdhttp.Request, name string, def int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return def, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, perr.Newf(perr.ErrorCodeValidation, "%s must be an integer", name)
	}
	return n, nil
}
