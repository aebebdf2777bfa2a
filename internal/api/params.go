package api

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"shareit/internal/domain"
	"shareit/internal/models"
)

// sharerID reads the acting user from the X-Sharer-User-Id header.
func sharerID(c *gin.Context) (int64, error) {
	raw := strings.TrimSpace(c.GetHeader(models.HeaderUserID))
	if raw == "" {
		return 0, domain.Validationf("missing %s header", models.HeaderUserID)
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid %s header %q", models.HeaderUserID, raw)
	}
	return id, nil
}

func pathID(c *gin.Context, name string) (int64, error) {
	raw := c.Param(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return id, nil
}

func queryInt(c *gin.Context, name string, def int) (int, error) {
	raw, ok := c.GetQuery(name)
	if !ok || raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, domain.Validationf("invalid %s %q", name, raw)
	}
	return v, nil
}

func pageParams(c *gin.Context) (from, size int, err error) {
	if from, err = queryInt(c, "from", models.DefaultFrom); err != nil {
		return 0, 0, err
	}
	if size, err = queryInt(c, "size", models.DefaultSize); err != nil {
		return 0, 0, err
	}
	return from, size, nil
}

func bindJSON(c *gin.Context, dst interface{}) error {
	if err := c.ShouldBindJSON(dst); err != nil {
		return domain.Validationf("invalid request body: %v", err)
	}
	return nil
}
