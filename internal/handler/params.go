package handler

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/maxviazov/composer-workspace-service/internal/service"
)

// queryInt reads an optional integer query parameter. A missing value
// yields def; a malformed one is a field error.
func queryInt(c *gin.Context, name string, def int) (int, *service.FieldError) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, &service.FieldError{Field: name, Message: "must be a valid integer"}
	}
	return v, nil
}

// pageParams reads page and page_size. The page is passed on as given so an
// out-of-range page yields an empty result rather than an error; a zero
// page_size lets the service apply its default.
func pageParams(c *gin.Context) (index, size int, err error) {
	var ferrs []service.FieldError
	index, fe := queryInt(c, "page", 1)
	if fe != nil {
		ferrs = append(ferrs, *fe)
	}
	size, fe = queryInt(c, "page_size", 0)
	if fe != nil {
		ferrs = append(ferrs, *fe)
	}
	if len(ferrs) > 0 {
		return 0, 0, service.NewInvalidInputError(ferrs)
	}
	return index, size, nil
}
