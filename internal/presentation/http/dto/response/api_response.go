package response

import (
	"mime"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sangkips/printledger/pkg/apperror"
)

// APIResponse is the envelope every JSON endpoint answers with.
type APIResponse struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
	Meta    *Meta       `json:"meta,omitempty"`
}

type Meta struct {
	Timestamp string `json:"timestamp"`
	RequestID string `json:"request_id"`
}

// newMeta stamps the response with the id the logger assigned to the request.
func newMeta(c *gin.Context) *Meta {
	requestID := c.GetString("request_id")
	if requestID == "" {
		requestID = c.GetHeader("X-Request-ID")
	}
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return &Meta{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		RequestID: requestID,
	}
}

func write(c *gin.Context, status int, body APIResponse) {
	body.Meta = newMeta(c)
	c.JSON(status, body)
}

// OK sends a 200 with data.
func OK(c *gin.Context, message string, data interface{}) {
	write(c, http.StatusOK, APIResponse{Success: true, Message: message, Data: data})
}

// Error sends the status and message carried by err.
func Error(c *gin.Context, err error) {
	ErrorWithData(c, err, nil)
}

// ErrorWithData sends an error response that still carries a payload, so a
// failed form operation can return the state it left the form in.
func ErrorWithData(c *gin.Context, err error, data interface{}) {
	appErr := apperror.GetAppError(err)
	write(c, appErr.Code, APIResponse{
		Message: appErr.Message,
		Data:    data,
		Errors:  appErr.Errors,
	})
}

// ErrorWithCode sends an error response with a specific status code.
func ErrorWithCode(c *gin.Context, statusCode int, message string) {
	write(c, statusCode, APIResponse{Message: message})
}

func BadRequest(c *gin.Context, message string) {
	ErrorWithCode(c, http.StatusBadRequest, message)
}

// NoContent answers a request that had nothing to produce.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Attachment sends data as a file download named name.
func Attachment(c *gin.Context, name, contentType string, data []byte) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
	c.Data(http.StatusOK, contentType, data)
}
