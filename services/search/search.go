package search

import (
	"context"

	"github.com/chiehyu/popodoc/db/persondb"
	"github.com/chiehyu/popodoc/logger"
)

// PageSize is the number of records on one chat result page.
const PageSize = 10

type Stats struct {
	TotalCount  int64 `json:"total_count"`
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	HasMore     bool  `json:"has_more"`
}

type Service struct {
	logger logger.Logger
	db     persondb.DB
}

func New(logger logger.Logger, db persondb.DB) *Service {
	return &Service{
		logger: logger,
		db:     db,
	}
}

// Search runs a counted, paginated personnel query for the given criteria.
// The count is taken over the whole filtered set; the page is at most
// PageSize records starting at offset. An offset at or past the end yields an
// empty page with HasMore false.
func (s *Service) Search(ctx context.Context, criteria Criteria, offset int) ([]persondb.Person, Stats, error) {
	filter := criteriaFilter(criteria)

	totalCount, err := s.db.Count(ctx, filter)
	if err != nil {
		return nil, Stats{}, err
	}

	people, err := s.db.Find(ctx, filter, PageSize, offset)
	if err != nil {
		return nil, Stats{}, err
	}

	stats := Stats{
		TotalCount:  totalCount,
		CurrentPage: offset/PageSize + 1,
		TotalPages:  int((totalCount + PageSize - 1) / PageSize),
		HasMore:     int64(offset+PageSize) < totalCount,
	}

	return people, stats, nil
}

func criteriaFilter(criteria Criteria) persondb.Filter {
	filter := persondb.Filter{City: criteria.City}

	switch criteria.SearchType {
	case SearchTypeHospital:
		filter.Hospital = criteria.SearchTerm
	case SearchTypeDepartment:
		filter.Department = criteria.SearchTerm
	default:
		filter.Name = criteria.SearchTerm
	}

	return filter
}
