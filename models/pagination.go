package models

const (
	PaginationDefaultLimit = 100
	PaginationMaxLimit     = 1000
)

// PaginationAndSorting is keyset pagination over the audit log: OffsetId is
// the id of the last entry of the previous page.
type PaginationAndSorting struct {
	Limit    int
	OffsetId string
}

func WithPaginationDefaults(p PaginationAndSorting) PaginationAndSorting {
	if p.Limit <= 0 {
		p.Limit = PaginationDefaultLimit
	}
	if p.Limit > PaginationMaxLimit {
		p.Limit = PaginationMaxLimit
	}
	return p
}
