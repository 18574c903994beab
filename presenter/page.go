package presenter

// Page is one fixed-size slice of a list.
type Page[T any] struct {
	Items []T
	// Number is 1-based.
	Number int
	Pages  int
	Size   int
	Total  int
}

// HasNext reports whether a later page exists.
func (p Page[T]) HasNext() bool {
	return p.Number < p.Pages
}

// HasPrev reports whether an earlier page exists.
func (p Page[T]) HasPrev() bool {
	return p.Number > 1
}

// Paginate returns the requested 1-based page. Out-of-range pages are
// clamped; an empty list yields a single empty page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size <= 0 {
		size = DefaultPageSize
	}
	total := len(items)
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	start := (page - 1) * size
	end := start + size
	if end > total {
		end = total
	}
	return Page[T]{
		Items:  items[start:end],
		Number: page,
		Pages:  pages,
		Size:   size,
		Total:  total,
	}
}
