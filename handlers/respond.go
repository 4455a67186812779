package handlers

import (
	"errors"
	"mime"
	"net/http"
	"strconv"

	"classroom-assistant-go/classroom"

	"github.com/gin-gonic/gin"
	"github.com/labstack/gommon/log"
)

// prompt answers engine confirmations from the ?confirm= query flag and
// remembers the question so a refusal can be shown to the user.
type prompt struct {
	approved bool
	Title    string `json:"title"`
	Message  string `json:"message"`
}

func (p *prompt) Confirm(title, message string) bool {
	p.Title, p.Message = title, message
	return p.approved
}

func promptFrom(c *gin.Context) *prompt {
	ok, _ := strconv.ParseBool(c.Query("confirm"))
	return &prompt{approved: ok}
}

func statusFor(kind classroom.Kind) int {
	switch kind {
	case classroom.KindValidation:
		return http.StatusBadRequest
	case classroom.KindNotFound:
		return http.StatusNotFound
	case classroom.KindDuplicate, classroom.KindConfirmation:
		return http.StatusConflict
	case classroom.KindNoValidData, classroom.KindImportStructure:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// respondError writes err as {"error", "code"} with a status derived from its
// kind. Refused confirmations also carry the prompt to show.
func respondError(c *gin.Context, err error, p *prompt) {
	kind := classroom.KindOf(err)
	status := statusFor(kind)
	body := gin.H{"error": err.Error()}

	var e *classroom.Error
	if errors.As(err, &e) {
		body["code"] = e.Code
		if status == http.StatusInternalServerError {
			body["error"] = e.Message
		}
	} else {
		body["error"] = "Internal error"
	}
	if kind == classroom.KindConfirmation && p != nil {
		body["confirm"] = p
	}
	if status == http.StatusInternalServerError {
		log.Errorf("%s %s: %v", c.Request.Method, c.FullPath(), err)
	}
	c.JSON(status, body)
}

func badRequest(c *gin.Context, msg string) {
	c.JSON(http.StatusBadRequest, gin.H{"error": msg})
}

func intParam(c *gin.Context, name string) (int, bool) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil {
		badRequest(c, "Invalid "+name+": "+c.Param(name))
		return 0, false
	}
	return n, true
}

// attachment sets Content-Disposition for a download. Non-ASCII names are
// encoded as RFC 2231 filename*.
func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": filename}))
}
