// Package params parses route parameters.
package params

import (
	"errors"
	"io"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/portal-berita/core/internal/pkg/response"
)

// ID parses the named path parameter as a positive id. A malformed id can
// never match a row, so callers answer it with 404.
func ID(c *gin.Context, name string) (uint64, bool) {
	raw := strings.TrimSpace(c.Param(name))
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 {
		return 0, false
	}
	return id, true
}

// IDs parses repeated form values of key (also key[]) into ids. It reports
// whether the key was present at all, and which values were not ids.
func IDs(c *gin.Context, key string) (ids []uint64, present bool, invalid []string) {
	values, ok := c.GetPostFormArray(key)
	if more, okBracket := c.GetPostFormArray(key + "[]"); okBracket {
		values = append(values, more...)
		ok = true
	}
	if !ok {
		return nil, false, nil
	}
	ids = make([]uint64, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := strconv.ParseUint(part, 10, 64)
			if err != nil || id == 0 {
				invalid = append(invalid, part)
				continue
			}
			ids = append(ids, id)
		}
	}
	return ids, true, invalid
}

// Uint parses a single form value as a positive id. present is false when
// the key is missing or blank.
func Uint(c *gin.Context, key string) (id uint64, present bool, ok bool) {
	raw := strings.TrimSpace(c.PostForm(key))
	if raw == "" {
		return 0, false, false
	}
	v, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || v == 0 {
		return 0, true, false
	}
	return v, true, true
}

// JSON decodes the request body into dst. An empty body leaves dst zero so
// the store reports the missing fields; malformed JSON is answered with 400
// and JSON returns false.
func JSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindBodyWith(dst, binding.JSON); err != nil && !errors.Is(err, io.EOF) {
		response.BadRequest(c, "Malformed JSON body")
		return false
	}
	return true
}
