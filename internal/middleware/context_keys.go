package middleware

import "github.com/gin-gonic/gin"

// subjectKey is the key used to store the authenticated token subject.
const subjectKey = contextKey("subject")

// GetSubjectFromContext retrieves the authenticated token subject. It is absent
// when auth is disabled.
func GetSubjectFromContext(c *gin.Context) (string, bool) {
	subject, ok := c.Request.Context().Value(subjectKey).(string)
	return subject, ok && subject != ""
}
