package search

import "github.com/kailas-cloud/millsearch/internal/domain/search/result"

// paginate slices sorted results into a 1-based page. A page past the end is empty.
func paginate(results []result.Result, page, pageSize int) result.Page {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 1
	}
	total := len(results)
	totalPages := total / pageSize
	if total%pageSize != 0 {
		totalPages++
	}

	items := []result.Result{}
	// compare page numbers before multiplying: page*pageSize may overflow
	if page <= totalPages {
		start := (page - 1) * pageSize
		end := min(start+pageSize, total)
		items = make([]result.Result, 0, end-start)
		for _, r := range results[start:end] {
			items = append(items, r.OnPage(page))
		}
	}

	return result.Page{
		Items:      items,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
	}
}
