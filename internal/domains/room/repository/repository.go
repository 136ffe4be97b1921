package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"

	"hostel/infras/otel"
	"hostel/infras/postgres"
	"hostel/internal/domains/room/model"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/logger"
	gRepo "hostel/shared/repository"
	"hostel/shared/timezone"

	"github.com/lib/pq"
)

const appendImagesQuery = `UPDATE ` + model.TableName + ` SET images = images || :images, version = version + 1,
	modified_at = :modified_at, modified_by = :modified_by WHERE room_id = :room_id`

type Room interface {
	Insert(ctx context.Context, model model.Room) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Room, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Room, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	AppendImages(ctx context.Context, id string, refs []string, user string) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Room]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Room {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Room](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// AppendImages adds refs to the end of the room's image list in a single statement, so
// concurrent uploads to one room never drop each other's references.
func (r *repositoryImpl) AppendImages(ctx context.Context, id string, refs []string, user string) error {
	ctx, scope := r.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room.AppendImages")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, appendImagesQuery)

	result, err := r.db.Write.NamedExecContext(ctx, appendImagesQuery, map[string]any{
		"images":      pq.StringArray(refs),
		"modified_at": timezone.Now(),
		"modified_by": user,
		"room_id":     id,
	})
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to append images (%s): %w", model.EntityName, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}

	if affected == 0 {
		return gRepo.ErrNoRowsAffected
	}

	return nil
}
