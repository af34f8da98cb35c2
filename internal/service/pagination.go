package service

const defaultPageLimit = 10

// Page is the client paging request embedded in list payloads.
type Page struct {
	PageNumber int64 `json:"pageNumber,omitempty"`
	PageLimit  int64 `json:"pageLimit,omitempty"`
}

// window normalizes the request and derives the offset:
// skip = (pageNumber-1) * pageLimit.
func (p Page) window() (pageNumber, pageLimit, skip int64) {
	pageNumber = p.PageNumber
	if pageNumber < 1 {
		pageNumber = 1
	}
	pageLimit = p.PageLimit
	if pageLimit < 1 {
		pageLimit = defaultPageLimit
	}
	skip = (pageNumber - 1) * pageLimit
	return pageNumber, pageLimit, skip
}

// OrderBy mirrors the client sort payload: 1 ascending, -1 descending.
// Name sorts by entity name, Result by result creation time.
type OrderBy struct {
	Name   int `json:"name,omitempty"`
	Result int `json:"result,omitempty"`
}

func direction(d int) int {
	if d >= 0 {
		return 1
	}
	return -1
}
