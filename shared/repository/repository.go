package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/shared/constant"
	"hostel/shared/dto"
	"hostel/shared/logger"

	"github.com/jmoiron/sqlx"
)

var (
	errRequiredFilter = errors.New("required filter")
	errEmptyUpdate    = errors.New("no fields to update")

	// ErrNoRowsAffected is returned by Update and Delete when the filter matched nothing.
	ErrNoRowsAffected = errors.New("no rows affected")
)

// setArgPrefix keeps SET arguments apart from where-clause arguments on the same column.
const setArgPrefix = "set_"

// Repository is the CRUD core shared by every table. Columns come from the db tags of T,
// including embedded structs. Tables with a version column get it bumped on every update.
type Repository[T any] struct {
	db            *postgres.Connection
	otel          otel.Otel
	table         string
	entity        string
	primaryColumn string
	versioned     bool
	InsertColumns []string
}

func NewRepository[T any](entityName, tableName, primaryColumn string, dbConnection *postgres.Connection, otl otel.Otel) Repository[T] {
	columns := dbColumns(reflect.TypeFor[T]())

	return Repository[T]{
		db:            dbConnection,
		otel:          otl,
		table:         tableName,
		entity:        entityName,
		primaryColumn: primaryColumn,
		versioned:     slices.Contains(columns, constant.FieldVersion),
		InsertColumns: columns,
	}
}

func (repo *Repository[T]) Insert(ctx context.Context, model T) error {
	ctx, scope := repo.scope(ctx, "Insert")
	defer scope.End()

	placeholders := make([]string, len(repo.InsertColumns))
	for i, col := range repo.InsertColumns {
		placeholders[i] = ":" + col
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		repo.table, strings.Join(repo.InsertColumns, ", "), strings.Join(placeholders, ", "))
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	if _, err := repo.db.Write.NamedExecContext(ctx, query, model); err != nil {
		return repo.fail(scope, "insert data", err)
	}

	return nil
}

func (repo *Repository[T]) Exist(ctx context.Context, filter dto.FilterGroup) (bool, error) {
	ctx, scope := repo.scope(ctx, "Exist")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return false, errRequiredFilter
	}

	var exist bool

	query := fmt.Sprintf("SELECT EXISTS(SELECT 1 FROM %s %s)", repo.table, where)
	if err := repo.read(ctx, scope, query, args, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &exist, args)
	}); err != nil {
		return false, repo.fail(scope, "check exist data", err)
	}

	return exist, nil
}

// Get returns the first matching row, or the zero value of T when nothing matches.
// columns narrows the projection.
func (repo *Repository[T]) Get(ctx context.Context, filter dto.FilterGroup, columns ...string) (T, error) {
	ctx, scope := repo.scope(ctx, "Get")
	defer scope.End()

	var model T

	where, args := whereClause(filter)
	query := join("SELECT", repo.projection(columns), "FROM", repo.table, where, "LIMIT 1")

	err := repo.read(ctx, scope, query, args, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &model, args)
	})

	switch {
	case errors.Is(err, sql.ErrNoRows):
		return model, nil
	case err != nil:
		return model, repo.fail(scope, "get data", err)
	}

	return model, nil
}

func (repo *Repository[T]) GetAll(ctx context.Context, params dto.QueryParams, filter dto.FilterGroup, columns ...string) ([]T, error) {
	ctx, scope := repo.scope(ctx, "GetAll")
	defer scope.End()

	where, args := whereClause(filter)

	var ordering, pagination string

	if params.SortBy != "" && params.SortDir != "" {
		ordering = fmt.Sprintf("ORDER BY %s %s", params.SortBy, params.SortDir)
	}

	if params.Limit > 0 {
		args["limit"] = params.Limit
		pagination = "LIMIT :limit"

		if params.Page > 0 {
			args["offset"] = (params.Page - 1) * params.Limit
			pagination += " OFFSET :offset"
		}
	}

	models := []T{}

	query := join("SELECT", repo.projection(columns), "FROM", repo.table, where, ordering, pagination)
	if err := repo.read(ctx, scope, query, args, func(stmt *sqlx.NamedStmt) error {
		return stmt.SelectContext(ctx, &models, args)
	}); err != nil {
		return models, repo.fail(scope, "get all data", err)
	}

	return models, nil
}

func (repo *Repository[T]) Count(ctx context.Context, filter dto.FilterGroup) (int, error) {
	ctx, scope := repo.scope(ctx, "Count")
	defer scope.End()

	var count int

	where, args := whereClause(filter)
	query := join(fmt.Sprintf("SELECT COUNT(%s.%s) FROM %s", repo.table, repo.primaryColumn, repo.table), where)

	if err := repo.read(ctx, scope, query, args, func(stmt *sqlx.NamedStmt) error {
		return stmt.GetContext(ctx, &count, args)
	}); err != nil {
		return 0, repo.fail(scope, "count data", err)
	}

	return count, nil
}

// Update sets the columns in mod on every row matching filter. A version key in mod is
// ignored; put the expected version in the filter instead.
func (repo *Repository[T]) Update(ctx context.Context, mod map[string]any, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Update")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	assignments := []string{}

	for _, col := range slices.Sorted(maps.Keys(mod)) {
		if col == constant.FieldVersion {
			continue
		}

		assignments = append(assignments, fmt.Sprintf("%s = :%s%s", col, setArgPrefix, col))
		args[setArgPrefix+col] = mod[col]
	}

	if len(assignments) == 0 {
		return errEmptyUpdate
	}

	if repo.versioned {
		assignments = append(assignments, constant.FieldVersion+" = "+constant.FieldVersion+" + 1")
	}

	query := join("UPDATE", repo.table, "SET", strings.Join(assignments, ", "), where)

	return repo.exec(ctx, scope, "update data", query, args)
}

func (repo *Repository[T]) Delete(ctx context.Context, filter dto.FilterGroup) error {
	ctx, scope := repo.scope(ctx, "Delete")
	defer scope.End()

	where, args := whereClause(filter)
	if where == "" {
		return errRequiredFilter
	}

	return repo.exec(ctx, scope, "delete data", join("DELETE FROM", repo.table, where), args)
}

func (repo *Repository[T]) scope(ctx context.Context, operation string) (context.Context, otel.Scope) {
	return repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName,
		fmt.Sprintf("%s.%s.%s", constant.OtelRepositoryScopeName, repo.entity, operation))
}

func (repo *Repository[T]) fail(scope otel.Scope, action string, err error) error {
	logger.ErrorWithStack(err)
	scope.TraceError(err)

	return fmt.Errorf("failed to %s (%s): %w", action, repo.entity, err)
}

// read prepares query on the read pool and hands the statement to scan.
func (repo *Repository[T]) read(ctx context.Context, scope otel.Scope, query string, args map[string]any, scan func(*sqlx.NamedStmt) error) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	stmt, err := repo.db.Read.PrepareNamedContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	return scan(stmt)
}

// exec runs a write and reports ErrNoRowsAffected when nothing matched.
func (repo *Repository[T]) exec(ctx context.Context, scope otel.Scope, action, query string, args map[string]any) error {
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	result, err := repo.db.Write.NamedExecContext(ctx, query, args)
	if err != nil {
		return repo.fail(scope, action, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNoRowsAffected
	}

	return nil
}

func (repo *Repository[T]) projection(columns []string) string {
	selected := make([]string, 0, len(repo.InsertColumns))

	for _, col := range repo.InsertColumns {
		if len(columns) == 0 || slices.Contains(columns, col) {
			selected = append(selected, repo.table+"."+col)
		}
	}

	return strings.Join(selected, ", ")
}

func whereClause(filter dto.FilterGroup) (string, map[string]any) {
	clause, args := filter.GetWhereClause()
	if clause == "" {
		return "", map[string]any{}
	}

	return "WHERE " + clause, args
}

// join glues the non-empty parts of a statement with single spaces.
func join(parts ...string) string {
	return strings.Join(slices.DeleteFunc(parts, func(part string) bool { return part == "" }), " ")
}

// dbColumns lists the db tags of t in field order, descending into embedded structs.
func dbColumns(t reflect.Type) []string {
	columns := []string{}

	for i := range t.NumField() {
		field := t.Field(i)

		if field.Anonymous && field.Type.Kind() == reflect.Struct {
			columns = append(columns, dbColumns(field.Type)...)

			continue
		}

		if tag := field.Tag.Get("db"); tag != "" && tag != "-" {
			columns = append(columns, tag)
		}
	}

	return columns
}
