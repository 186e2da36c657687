package persondb

import "context"

type DB interface {
	Find(ctx context.Context, filter Filter, limit, offset int) ([]Person, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	GetByID(ctx context.Context, id int64) (*Person, error)
	DistinctCities(ctx context.Context) ([]string, error)
	DistinctDepartments(ctx context.Context) ([]string, error)
	DistinctUniversities(ctx context.Context) ([]string, error)
	Close()
}
