package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/roomchange/model"
	gDto "hostel/shared/dto"
	gRepo "hostel/shared/repository"
)

type RoomChange interface {
	Insert(ctx context.Context, model model.RoomChangeRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomChangeRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomChangeRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
}

// Comment has no update or delete: the comment log is append-only.
type Comment interface {
	Insert(ctx context.Context, model model.Comment) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Comment, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomChangeRequest]
}

func New(db *postgres.Connection, otel otel.Otel) RoomChange {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomChangeRequest](model.EntityName, model.TableName, model.FieldID, db, otel),
	}
}

type commentRepositoryImpl struct {
	gRepo.Repository[model.Comment]
}

func NewComment(db *postgres.Connection, otel otel.Otel) Comment {
	return &commentRepositoryImpl{
		Repository: gRepo.NewRepository[model.Comment](model.CommentEntityName, model.CommentTableName, model.FieldCommentID, db, otel),
	}
}
