// Package persondbtest provides an in-memory persondb.DB for tests. It
// mirrors the Postgres filter semantics: exact city match, case-insensitive
// substring match on the other fields, pages ordered by id.
package persondbtest

import (
	"context"
	"strings"

	"github.com/chiehyu/popodoc/db/persondb"
)

type Fake struct {
	People []persondb.Person
	// Err, when set, is returned by every query method.
	Err error
}

func (f *Fake) matches(person persondb.Person, filter persondb.Filter) bool {
	if filter.City != "" && person.City != filter.City {
		return false
	}
	contains := func(haystack, needle string) bool {
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	}
	return contains(person.Hospital, filter.Hospital) &&
		contains(person.Department, filter.Department) &&
		contains(person.University, filter.University) &&
		contains(person.Name, filter.Name)
}

func (f *Fake) Find(_ context.Context, filter persondb.Filter, limit, offset int) ([]persondb.Person, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	matched := []persondb.Person{}
	for _, person := range f.People {
		if f.matches(person, filter) {
			matched = append(matched, person)
		}
	}
	if offset >= len(matched) {
		return []persondb.Person{}, nil
	}
	matched = matched[offset:]
	if len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (f *Fake) Count(_ context.Context, filter persondb.Filter) (int64, error) {
	if f.Err != nil {
		return 0, f.Err
	}
	var count int64
	for _, person := range f.People {
		if f.matches(person, filter) {
			count++
		}
	}
	return count, nil
}

func (f *Fake) GetByID(_ context.Context, id int64) (*persondb.Person, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	for _, person := range f.People {
		if person.ID == id {
			return &person, nil
		}
	}
	return nil, &persondb.NotFoundError{ID: id}
}

func (f *Fake) DistinctCities(_ context.Context) ([]string, error) {
	return f.distinct(func(p persondb.Person) string { return p.City })
}

func (f *Fake) DistinctDepartments(_ context.Context) ([]string, error) {
	return f.distinct(func(p persondb.Person) string { return p.Department })
}

func (f *Fake) DistinctUniversities(_ context.Context) ([]string, error) {
	return f.distinct(func(p persondb.Person) string { return p.University })
}

func (f *Fake) distinct(field func(persondb.Person) string) ([]string, error) {
	if f.Err != nil {
		return nil, f.Err
	}
	seen := map[string]bool{}
	values := []string{}
	for _, person := range f.People {
		value := field(person)
		if value == "" || seen[value] {
			continue
		}
		seen[value] = true
		values = append(values, value)
	}
	return values, nil
}

func (f *Fake) Close() {}
