package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dmitrijs2005/jobassist/internal/server/services"
)

// intQuery reads an integer query parameter, falling back to def when the
// parameter is absent.
func intQuery(c *gin.Context, name string, def int) (int, error) {
	v, ok := c.GetQuery(name)
	if !ok || v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, badRequest(name + " must be an integer")
	}
	return n, nil
}

func (h *Handler) searchJobs(c *gin.Context) {
	page, err := intQuery(c, "page", 1)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		h.fail(c, err)
		return
	}
	remote, _ := strconv.ParseBool(c.Query("remote"))

	res, err := h.svc.Jobs.Search(c.Request.Context(), principal(c), services.SearchParams{
		Query:      c.Query("query"),
		Location:   c.Query("location"),
		RemoteOnly: remote,
		Page:       page,
		Limit:      limit,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) jobMatches(c *gin.Context) {
	minScore, err := intQuery(c, "minScore", 70)
	if err != nil {
		h.fail(c, err)
		return
	}
	limit, err := intQuery(c, "limit", 20)
	if err != nil {
		h.fail(c, err)
		return
	}

	res, err := h.svc.Jobs.Matches(c.Request.Context(), principal(c), minScore, limit)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

func (h *Handler) jobDetails(c *gin.Context) {
	res, err := h.svc.Jobs.Details(c.Request.Context(), principal(c), c.Param("jobId"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
