package pagination

import (
	"math"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/portal-berita/core/internal/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultPage = 1
	DefaultSize = 10
	MaxSize     = 100
	// keeps (page-1)*size from overflowing the offset
	MaxPage = math.MaxInt32 / MaxSize
)

// Query holds parsed pagination parameters.
type Query struct {
	Page int
	Size int
}

// FromContext extracts pagination params. It returns nil when the request
// does not ask for a page, in which case lists are returned whole.
func FromContext(c *gin.Context) *Query {
	rawPage, ok := c.GetQuery("page")
	if !ok {
		return nil
	}
	page := parseIntOr(rawPage, DefaultPage)
	size := parseIntOr(c.DefaultQuery("size", strconv.Itoa(DefaultSize)), DefaultSize)

	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	if size < 1 {
		size = DefaultSize
	}
	if size > MaxSize {
		size = MaxSize
	}

	return &Query{Page: page, Size: size}
}

// Find runs db into dest, applying limit/offset when q is non-nil.
func Find[T any](db *gorm.DB, q *Query, dest *[]T) (*response.Pagination, error) {
	if q == nil {
		return nil, db.Find(dest).Error
	}
	pag, err := Paginate(db, *q, dest)
	if err != nil {
		return nil, err
	}
	return &pag, nil
}

// Paginate applies limit/offset to a GORM query and returns the pagination metadata.
func Paginate[T any](db *gorm.DB, q Query, dest *[]T) (response.Pagination, error) {
	var total int64
	if err := db.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return response.Pagination{}, err
	}

	offset := (q.Page - 1) * q.Size
	if err := db.Offset(offset).Limit(q.Size).Find(dest).Error; err != nil {
		return response.Pagination{}, err
	}

	totalPage := int((total + int64(q.Size) - 1) / int64(q.Size))

	return response.Pagination{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   totalPage,
		Size:        q.Size,
		HasNextPage: q.Page < totalPage,
	}, nil
}

func parseIntOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
