package persondb

import (
	"errors"
	"fmt"
)

var ErrNotFound = errors.New("personnel record not found")

type NotFoundError struct {
	ID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("personnel record not found: %d", e.ID)
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

type GraduationStatus string

const (
	GraduationStatusStudying  GraduationStatus = "在學"
	GraduationStatusGraduated GraduationStatus = "畢業"
)

type Person struct {
	ID               int64            `json:"id"`
	City             string           `json:"city"`
	Hospital         string           `json:"hospital"`
	Department       string           `json:"department"`
	Name             string           `json:"name"`
	Education        string           `json:"education"`
	University       string           `json:"university"`
	GraduationStatus GraduationStatus `json:"graduation_status"`
}

// Filter narrows a personnel query. Empty fields are not applied. City is an
// exact match; every other field is a case-insensitive substring match. The
// same semantics back both the chat search and the REST filters.
type Filter struct {
	City       string
	Hospital   string
	Department string
	University string
	Name       string
}
