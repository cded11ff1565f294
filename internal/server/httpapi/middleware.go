package httpapi

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/common"
	"github.com/dmitrijs2005/jobassist/internal/server/models"
)

const (
	principalKey = "principal"
	tokenKey     = "token"
)

func bearerToken(header string) (string, bool) {
	if len(header) < len(common.BearerPrefix) || !strings.EqualFold(header[:len(common.BearerPrefix)], common.BearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(header[len(common.BearerPrefix):])
	return token, token != ""
}

// requireAuth resolves the bearer token to a principal or aborts with 401.
func (h *Handler) requireAuth(c *gin.Context) {
	token, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		h.fail(c, common.ErrorUnauthenticated)
		return
	}

	p, err := h.svc.Users.Authenticate(c.Request.Context(), token)
	if err != nil {
		h.fail(c, err)
		return
	}

	c.Set(principalKey, p)
	c.Set(tokenKey, token)
	c.Next()
}

func principal(c *gin.Context) *models.Principal {
	v, _ := c.Get(principalKey)
	p, _ := v.(*models.Principal)
	return p
}

func (h *Handler) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := h.now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		h.logger.Info(c.Request.Context(), "request served",
			"method", c.Request.Method,
			"route", route,
			"status", c.Writer.Status(),
			"duration", h.now().Sub(start),
		)
	}
}
