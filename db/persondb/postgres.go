package persondb

import (
	"context"
	"errors"
	"fmt"
	"strings"

	_ "embed"

	"github.com/chiehyu/popodoc/config"
	"github.com/chiehyu/popodoc/logger"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema.sql
var schemaSQL string

const personColumns = "id, city, hospital, department, name, education, university, graduation_status"

type PostgresDB struct {
	pool   *pgxpool.Pool
	logger logger.Logger
}

func New(ctx context.Context, logger logger.Logger, cfg *config.Config) (*PostgresDB, error) {
	pool, err := pgxpool.New(ctx, cfg.GetDatabaseURL())
	if err != nil {
		logger.Error("could not create connection pool", "err", err.Error())
		return nil, err
	}

	if _, err := pool.Exec(ctx, schemaSQL); err != nil {
		logger.Error("could not apply schema", "err", err.Error())
		pool.Close()
		return nil, err
	}

	return &PostgresDB{pool: pool, logger: logger}, nil
}

func (p *PostgresDB) Find(ctx context.Context, filter Filter, limit, offset int) ([]Person, error) {
	whereClause, args := buildWhereClause(filter)

	// ORDER BY id keeps page boundaries stable across repeated queries with
	// the same filter.
	query := fmt.Sprintf(`SELECT %s FROM medical_personnel %s ORDER BY id LIMIT $%d OFFSET $%d`,
		personColumns, whereClause, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := p.pool.Query(ctx, query, args...)
	if err != nil {
		p.logger.Error("personnel query failed", "err", err.Error())
		return nil, err
	}
	defer rows.Close()

	people := []Person{}
	for rows.Next() {
		var person Person
		if err := rows.Scan(&person.ID, &person.City, &person.Hospital, &person.Department,
			&person.Name, &person.Education, &person.University, &person.GraduationStatus); err != nil {
			p.logger.Error("could not scan personnel row", "err", err.Error())
			return nil, err
		}
		people = append(people, person)
	}

	return people, rows.Err()
}

func (p *PostgresDB) Count(ctx context.Context, filter Filter) (int64, error) {
	whereClause, args := buildWhereClause(filter)

	query := fmt.Sprintf(`SELECT COUNT(1) FROM medical_personnel %s`, whereClause)

	var count int64
	if err := p.pool.QueryRow(ctx, query, args...).Scan(&count); err != nil {
		p.logger.Error("personnel count failed", "err", err.Error())
		return 0, err
	}

	return count, nil
}

func (p *PostgresDB) GetByID(ctx context.Context, id int64) (*Person, error) {
	query := fmt.Sprintf(`SELECT %s FROM medical_personnel WHERE id = $1`, personColumns)

	var person Person
	err := p.pool.QueryRow(ctx, query, id).Scan(&person.ID, &person.City, &person.Hospital,
		&person.Department, &person.Name, &person.Education, &person.University, &person.GraduationStatus)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, &NotFoundError{ID: id}
		}
		p.logger.Error("personnel lookup failed", "id", id, "err", err.Error())
		return nil, err
	}

	return &person, nil
}

func (p *PostgresDB) DistinctCities(ctx context.Context) ([]string, error) {
	return p.distinctValues(ctx, `SELECT DISTINCT city FROM medical_personnel ORDER BY city`)
}

func (p *PostgresDB) DistinctDepartments(ctx context.Context) ([]string, error) {
	return p.distinctValues(ctx, `SELECT DISTINCT department FROM medical_personnel WHERE department <> '' ORDER BY department`)
}

func (p *PostgresDB) DistinctUniversities(ctx context.Context) ([]string, error) {
	return p.distinctValues(ctx, `SELECT DISTINCT university FROM medical_personnel WHERE university <> '' ORDER BY university`)
}

func (p *PostgresDB) distinctValues(ctx context.Context, query string) ([]string, error) {
	rows, err := p.pool.Query(ctx, query)
	if err != nil {
		p.logger.Error("distinct values query failed", "err", err.Error())
		return nil, err
	}
	defer rows.Close()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			return nil, err
		}
		values = append(values, value)
	}

	return values, rows.Err()
}

func (p *PostgresDB) Close() {
	p.pool.Close()
}

// buildWhereClause turns a Filter into a WHERE clause with $n placeholders.
// City is exact equality, everything else is ILIKE with the term embedded in
// %...% wildcards.
func buildWhereClause(filter Filter) (string, []interface{}) {
	conditions := []string{}
	args := []interface{}{}
	argID := 1

	addCondition := func(condition, field string, arg interface{}) {
		conditions = append(conditions, fmt.Sprintf(condition, field, argID))
		args = append(args, arg)
		argID++
	}

	if filter.City != "" {
		addCondition("%s = $%d", "city", filter.City)
	}
	if filter.Hospital != "" {
		addCondition("%s ILIKE $%d", "hospital", "%"+filter.Hospital+"%")
	}
	if filter.Department != "" {
		addCondition("%s ILIKE $%d", "department", "%"+filter.Department+"%")
	}
	if filter.University != "" {
		addCondition("%s ILIKE $%d", "university", "%"+filter.University+"%")
	}
	if filter.Name != "" {
		addCondition("%s ILIKE $%d", "name", "%"+filter.Name+"%")
	}

	if len(conditions) == 0 {
		return "", args
	}

	return "WHERE " + strings.Join(conditions, " AND "), args
}
