package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/appshelf/appshelf/internal/api/middleware"
	"github.com/appshelf/appshelf/internal/core/collection"
	"github.com/appshelf/appshelf/internal/core/validation"
)

const notSaved = "not saved"

// respond writes v with status unless err is set. A persistence failure
// still returns v, as 202 with a "warning" field, because the change is
// already visible in memory.
func respond(c *gin.Context, status int, v any, err error) {
	if err == nil {
		c.JSON(status, v)
		return
	}
	if !collection.IsPersistenceError(err) {
		_ = c.Error(err)
		return
	}

	body := withWarning(v)
	c.Header(middleware.PersistenceWarningHeader, notSaved)
	c.JSON(http.StatusAccepted, body)
	_ = c.Error(err)
}

func withWarning(v any) any {
	data, err := json.Marshal(v)
	if err != nil {
		return gin.H{"data": v, "warning": notSaved}
	}
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return gin.H{"data": v, "warning": notSaved}
	}
	m["warning"] = notSaved
	return m
}

// bindPayload decodes a JSON object body. Bind failures are reported as
// validation errors so they render like schema failures.
func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		_ = c.Error(validation.New("body", err.Error()))
		return nil, false
	}
	if payload == nil {
		_ = c.Error(validation.New("body", "must be a JSON object"))
		return nil, false
	}
	return payload, true
}

func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		_ = c.Error(validation.New("body", err.Error()))
		return false
	}
	return true
}
