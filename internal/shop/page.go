package shop

// Page is the pagination block of a listing response.
//
// Next and Previous are plain arithmetic on the request and do not check
// whether another page holds data. Limit is the number of records returned.
type Page struct {
	Next     int `json:"next"`
	Limit    int `json:"limit"`
	Previous int `json:"previous"`
}

const (
	DefaultLimit = 10
	MaxLimit     = 100
)

func NewPage(limit, offset, returned int) Page {
	return Page{
		Next:     offset + limit,
		Limit:    returned,
		Previous: max(0, offset-limit),
	}
}
