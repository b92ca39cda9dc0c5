package handlers

import (
	"net/http"

	"sharehub/access"

	"github.com/gin-gonic/gin"
)

// Engine is the access engine behind every handler.
var Engine *access.Engine

func Init(e *access.Engine) {
	Engine = e
}

type Response struct {
	Error string `json:"error"`
}

var OKResponse = Response{}

// fail maps the engine's error taxonomy onto HTTP statuses.
func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch access.KindOf(err) {
	case access.KindUsage:
		status = http.StatusBadRequest
	case access.KindAccess:
		status = http.StatusForbidden
	case access.KindIntegrity:
		status = http.StatusConflict
	case access.KindConnection:
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, Response{Error: err.Error()})
}
