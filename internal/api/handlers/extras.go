package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/appshelf/appshelf/internal/core/farmsurvey"
	"github.com/appshelf/appshelf/internal/core/livestock"
	"github.com/appshelf/appshelf/internal/core/news"
	"github.com/appshelf/appshelf/internal/core/note"
	"github.com/appshelf/appshelf/internal/core/product"
	"github.com/appshelf/appshelf/internal/core/task"
	"github.com/appshelf/appshelf/internal/core/todo"
	"github.com/appshelf/appshelf/internal/core/validation"
)

type ArticleHandler struct {
	svc *news.Service
}

func NewArticleHandler(svc *news.Service) *ArticleHandler {
	return &ArticleHandler{svc: svc}
}

func (h *ArticleHandler) View(c *gin.Context) {
	article, err := h.svc.IncrementViews(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, article, err)
}

func (h *ArticleHandler) Bookmark(c *gin.Context) {
	article, err := h.svc.ToggleBookmark(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, article, err)
}

func (h *ArticleHandler) Breaking(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			_ = c.Error(validation.New("limit", "must be an integer"))
			return
		}
		limit = n
	}
	c.JSON(http.StatusOK, h.svc.Breaking(limit))
}

type NoteHandler struct {
	svc *note.Service
}

func NewNoteHandler(svc *note.Service) *NoteHandler {
	return &NoteHandler{svc: svc}
}

func (h *NoteHandler) Pin(c *gin.Context) {
	n, err := h.svc.TogglePin(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, n, err)
}

type TodoHandler struct {
	svc *todo.Service
}

func NewTodoHandler(svc *todo.Service) *TodoHandler {
	return &TodoHandler{svc: svc}
}

func (h *TodoHandler) Toggle(c *gin.Context) {
	t, err := h.svc.Toggle(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, t, err)
}

func (h *TodoHandler) ClearCompleted(c *gin.Context) {
	n, err := h.svc.ClearCompleted(c.Request.Context())
	respond(c, http.StatusOK, gin.H{"removed": n}, err)
}

type TaskHandler struct {
	svc *task.Service
}

func NewTaskHandler(svc *task.Service) *TaskHandler {
	return &TaskHandler{svc: svc}
}

// Stats counts every task, or only the tasks of ?userId= when given.
func (h *TaskHandler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Stats(c.Query("userId")))
}

type SurveyHandler struct {
	svc *livestock.Service
}

func NewSurveyHandler(svc *livestock.Service) *SurveyHandler {
	return &SurveyHandler{svc: svc}
}

func (h *SurveyHandler) BySurveyor(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.BySurveyor(c.Param("surveyorId")))
}

type FarmSurveyHandler struct {
	svc *farmsurvey.Service
}

func NewFarmSurveyHandler(svc *farmsurvey.Service) *FarmSurveyHandler {
	return &FarmSurveyHandler{svc: svc}
}

func (h *FarmSurveyHandler) Submit(c *gin.Context) {
	s, err := h.svc.Submit(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, s, err)
}

func (h *FarmSurveyHandler) Verify(c *gin.Context) {
	s, err := h.svc.Verify(c.Request.Context(), c.Param("id"))
	respond(c, http.StatusOK, s, err)
}

type ProductHandler struct {
	svc *product.Service
}

func NewProductHandler(svc *product.Service) *ProductHandler {
	return &ProductHandler{svc: svc}
}

type AdjustRequest struct {
	StockPhysical *float64 `json:"stockPhysical" binding:"required"`
}

func (h *ProductHandler) Adjust(c *gin.Context) {
	var req AdjustRequest
	if !bindJSON(c, &req) {
		return
	}

	adj, err := h.svc.Adjust(c.Request.Context(), c.Param("id"), *req.StockPhysical)
	respond(c, http.StatusOK, adj, err)
}
