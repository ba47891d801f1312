package handlers

import (
	"fmt"
	"net/url"
	"strconv"

	"teashop/internal/models"
)

// listQuery holds the listing parameters after defaults have been applied.
type listQuery struct {
	Page      int
	Size      int
	Sort      string
	Direction string
	Recherche string
	TypeThe   string
}

func (q listQuery) filtered() bool {
	return q.Recherche != "" || q.TypeThe != ""
}

func (q listQuery) values() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(q.Page))
	v.Set("size", strconv.Itoa(q.Size))
	v.Set("sort", q.Sort)
	v.Set("direction", q.Direction)
	if q.Recherche != "" {
		v.Set("recherche", q.Recherche)
	}
	if q.TypeThe != "" {
		v.Set("typeThe", q.TypeThe)
	}
	return v
}

// listView is bound to the index template.
type listView struct {
	Title    string
	Page     *models.Page[models.Product]
	Query    listQuery
	TeaTypes []string
}

// PageURL links to page n with every other parameter kept.
func (v listView) PageURL(n int) string {
	q := v.Query
	q.Page = n
	return "/?" + q.values().Encode()
}

// SortURL links to the first page sorted by field. Clicking the current
// sort column flips its direction.
func (v listView) SortURL(field string) string {
	q := v.Query
	q.Page = 0
	if q.Sort == field && q.Direction == "asc" {
		q.Direction = "desc"
	} else {
		q.Direction = "asc"
	}
	q.Sort = field
	return "/?" + q.values().Encode()
}

// SortIndicator returns an arrow next to the active sort column.
func (v listView) SortIndicator(field string) string {
	if v.Query.Sort != field {
		return ""
	}
	if models.ParseDirection(v.Query.Direction) == models.Desc {
		return "▼"
	}
	return "▲"
}

// ExportURL links to the CSV export of the current filters.
func (v listView) ExportURL() string {
	q := url.Values{}
	if v.Query.Recherche != "" {
		q.Set("recherche", v.Query.Recherche)
	}
	if v.Query.TypeThe != "" {
		q.Set("typeThe", v.Query.TypeThe)
	}
	if len(q) == 0 {
		return "/export-csv"
	}
	return "/export-csv?" + q.Encode()
}

// PageNumbers lists every page index for the pager.
func (v listView) PageNumbers() []int {
	nums := make([]int, v.Page.TotalPages)
	for i := range nums {
		nums[i] = i
	}
	return nums
}

// formView is bound to the product form template.
type formView struct {
	Title    string
	Action   string
	Form     ProductForm
	Errors   map[string]string
	TeaTypes []string
}

func editAction(id uint) string {
	return fmt.Sprintf("/modifier/%d", id)
}
