package shared

// DefaultPageSize applies when a caller asks for no or a negative page size.
const DefaultPageSize = 20

// Page describes one page of a listing.
type Page struct {
	Number int
	Size   int
	Total  int
}

// NewPage clamps number to >= 1 and size to DefaultPageSize when unset.
func NewPage(number, size, total int) Page {
	if number < 1 {
		number = 1
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if total < 0 {
		total = 0
	}
	return Page{Number: number, Size: size, Total: total}
}

// Pages is the number of pages needed for Total rows.
func (p Page) Pages() int {
	if p.Size < 1 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Offset is the index of the first row on the page.
func (p Page) Offset() int {
	if p.Number < 1 || p.Size < 1 {
		return 0
	}
	return (p.Number - 1) * p.Size
}

// HasNext reports whether rows exist past this page.
func (p Page) HasNext() bool {
	return p.Offset()+p.Size < p.Total
}
