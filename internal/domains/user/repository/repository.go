package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/user/model"
	gDto "hostel/shared/dto"
	gRepo "hostel/shared/repository"
)

type User interface {
	Insert(ctx context.Context, user model.User) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.User, error)
	GetByEmail(ctx context.Context, email string) (model.User, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.User]
}

func New(db *postgres.Connection, otel otel.Otel) User {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.User](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

// ByEmail matches an already lower-cased address. Stored addresses are lower-cased on
// insert and unique on LOWER(email).
func ByEmail(email string) gDto.FilterGroup {
	return gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldEmail, Value: email, Operator: gDto.FilterOperatorEq, Table: model.TableName},
		},
	}
}

// GetByEmail returns the zero User when no account has that address.
func (r *repositoryImpl) GetByEmail(ctx context.Context, email string) (model.User, error) {
	return r.Get(ctx, ByEmail(email))
}
