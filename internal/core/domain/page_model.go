package domain

const defaultPageSize = 10

type Page struct {
	Number int
	Size   int
}

func NewPage(pageNumber, pageSize int) Page {
	pNumber := 1
	if pageNumber > 0 {
		pNumber = pageNumber
	}

	pSize := defaultPageSize
	if pageSize > 0 {
		pSize = pageSize
	}

	return Page{
		Number: pNumber,
		Size:   pSize,
	}
}

// Offset returns the index of the first item of the page.
func (p Page) Offset() int {
	return p.Number*p.Size - p.Size
}

// Bounds returns the range [from, to) of the page over a list of the given
// length, clamped to the length itself.
func (p Page) Bounds(length int) (int, int) {
	from := p.Offset()
	if from > length {
		from = length
	}
	to := from + p.Size
	if to > length {
		to = length
	}
	return from, to
}
