package search

// DefaultPageSize matches the listing grid.
const DefaultPageSize = 12

// Page is one slice of an ordered result.
type Page struct {
	Items      []*Product
	Page       int
	Size       int
	Total      int
	TotalPages int
}

// Paginate cuts a zero-based page out of results.
// Pages past the end are empty; a non-positive size uses DefaultPageSize.
func Paginate(results []*Product, page, size int) Page {
	if size <= 0 {
		size = DefaultPageSize
	}
	if page < 0 {
		page = 0
	}

	total := len(results)
	p := Page{
		Items:      []*Product{},
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: total / size,
	}
	if total%size != 0 {
		p.TotalPages++
	}

	// Checked before multiplying so huge pages cannot overflow
	if page >= p.TotalPages {
		return p
	}
	start := page * size
	end := min(start+size, total)
	p.Items = results[start:end]
	return p
}
