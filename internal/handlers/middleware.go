package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

const operatorKey = "operator"

var (
	errNoCredentials = errors.New("missing Authorization header")
	errNotBearer     = errors.New("expected 'Authorization: Bearer <token>'")
)

// bearerToken extracts the token from an Authorization header. The scheme
// is matched case-insensitively.
func bearerToken(header string) (string, error) {
	if header == "" {
		return "", errNoCredentials
	}
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	token = strings.TrimSpace(token)
	if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
		return "", errNotBearer
	}
	return token, nil
}

// requireOperator authenticates the request and records the operator id on
// the context. Requests that change the smoker are logged with the operator
// who made them once the handler has answered.
func (h *Handler) requireOperator(c *gin.Context) {
	token, err := bearerToken(c.GetHeader("Authorization"))
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	id, err := h.services.ParseToken(token)
	if err != nil {
		h.log.Debugw("token_rejected", "err", err, "path", c.FullPath())
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
		return
	}
	c.Set(operatorKey, id)

	c.Next()

	if c.Request.Method != http.MethodGet {
		h.log.Infow("operator_request",
			"operator", id,
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
		)
	}
}

// operatorID returns the id stored by requireOperator.
func operatorID(c *gin.Context) (int, bool) {
	id, ok := c.Get(operatorKey)
	if !ok {
		return 0, false
	}
	n, ok := id.(int)
	return n, ok
}
