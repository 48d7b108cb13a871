package v1

import (
	"net/http"
	"strconv"

	"github.com/kurochkinivan/iot_center/internal/domain"
)

// parsePagination reads page and limit from the query. Missing values are
// left zero for the service to default; range checks happen there too.
func parsePagination(r *http.Request) (domain.Pagination, error) {
	var (
		p        domain.Pagination
		problems []string
		err      error
	)

	if v := r.URL.Query().Get("page"); v != "" {
		p.Page, err = strconv.Atoi(v)
		if err != nil || p.Page < 1 || p.Page > domain.MaxPage {
			problems = append(problems, "page must be in [1;1000000]")
		}
	}

	if v := r.URL.Query().Get("limit"); v != "" {
		p.Limit, err = strconv.Atoi(v)
		if err != nil || p.Limit < 1 || p.Limit > domain.MaxPageLimit {
			problems = append(problems, "limit must be in [1;100]")
		}
	}

	if len(problems) > 0 {
		return domain.Pagination{}, &domain.ValidationError{Problems: problems}
	}

	return p, nil
}
