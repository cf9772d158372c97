package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/adaptlearn/learning-service/internal/services"
)

// AuthMiddleware validates the bearer token and stores the student id
// under "user_id".
func AuthMiddleware(auth services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Missing or malformed authorization header",
				Code:    "UNAUTHENTICATED",
			})
			return
		}

		claims, err := auth.ValidateToken(strings.TrimSpace(token))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, ErrorResponse{
				Message: "Invalid or expired token",
				Code:    "INVALID_TOKEN",
			})
			return
		}

		c.Set("user_id", claims.StudentID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// StudentScopeMiddleware rejects requests whose :student_id differs from
// the authenticated student.
func StudentScopeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		pathID, err := strconv.ParseUint(c.Param("student_id"), 10, 32)
		if err != nil || pathID == 0 {
			c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{
				Message: "Invalid student_id",
				Details: "ID must be a positive integer",
			})
			return
		}

		userID, _ := c.Get("user_id")
		if id, ok := userID.(uint); !ok || id != uint(pathID) {
			pe := services.NewPermissionError(id, uint(pathID), "student", c.Request.Method, "token does not belong to this student")
			c.AbortWithStatusJSON(http.StatusForbidden, ErrorResponse{
				Message: "Access denied",
				Details: map[string]interface{}{
					"resource": pe.Resource,
					"action":   pe.Action,
					"reason":   pe.Reason,
				},
				Code: "FORBIDDEN",
			})
			return
		}
		c.Next()
	}
}
