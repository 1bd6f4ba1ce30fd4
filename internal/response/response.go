package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Page renders the named view with data. request_id and a default title
// are added when absent.
func Page(c *gin.Context, statusCode int, name string, data gin.H) {
	if data == nil {
		data = gin.H{}
	}
	if _, ok := data["title"]; !ok {
		data["title"] = "Student Records"
	}
	data["request_id"] = RequestID(c)
	c.HTML(statusCode, name, data)
}

// Redirect sends a 302 to location. Session cookies must already be set.
func Redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
}

// NotFound writes the uniform plain-text 404 used for unmatched routes and
// missing students.
func NotFound(c *gin.Context) {
	c.String(http.StatusNotFound, GetMessage(ErrNotFound))
}

// Text terminates the response with a plain-text diagnostic.
func Text(c *gin.Context, statusCode int, msg string) {
	c.String(statusCode, msg)
}

// Fail renders the error page for code.
func Fail(c *gin.Context, statusCode int, code ErrCode) {
	Page(c, statusCode, "error.html", gin.H{
		"title":   GetTitle(code),
		"status":  statusCode,
		"code":    code,
		"message": GetMessage(code),
	})
}

// AbortFail aborts the middleware chain with a plain-text error.
func AbortFail(c *gin.Context, statusCode int, code ErrCode) {
	c.Abort()
	c.String(statusCode, GetMessage(code))
}
