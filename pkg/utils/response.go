package utils

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	MsgPlayersRequired = "players array required"
	MsgExpertsRequired = "experts array required"
	MsgServerError     = "server_error"
	MsgTooManyRequests = "Too many requests, please try again later."
	MsgBodyTooLarge    = "request body too large"
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error string `json:"error"`
}

// SendError aborts the request with a JSON error body
func SendError(c *gin.Context, statusCode int, message string) {
	c.AbortWithStatusJSON(statusCode, ErrorResponse{Error: message})
}

// SendBadRequest sends a 400 bad request error
func SendBadRequest(c *gin.Context, message string) {
	SendError(c, http.StatusBadRequest, message)
}

// SendInternalError sends the generic 500 body; details stay in the logs
func SendInternalError(c *gin.Context) {
	SendError(c, http.StatusInternalServerError, MsgServerError)
}

// SendTooManyRequests sends a 429 response
func SendTooManyRequests(c *gin.Context) {
	SendError(c, http.StatusTooManyRequests, MsgTooManyRequests)
}

// SendPayloadTooLarge sends a 413 response
func SendPayloadTooLarge(c *gin.Context) {
	SendError(c, http.StatusRequestEntityTooLarge, MsgBodyTooLarge)
}

// SendSuccess writes data as the bare response body
func SendSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}
