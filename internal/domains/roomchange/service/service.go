package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"

	"hostel/config"
	"hostel/infras/kafka"
	"hostel/infras/otel"
	"hostel/internal/domains/roomchange/model"
	"hostel/internal/domains/roomchange/model/dto"
	"hostel/internal/domains/roomchange/repository"
	"hostel/shared"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/identifier"
	gRepo "hostel/shared/repository"
	"hostel/shared/validator"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const errRequestNotFound = "room change request not found"

type RoomChange interface {
	Submit(ctx context.Context, req dto.SubmitRequest) (dto.RoomChangeResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomChangeFilter) (dto.GetRoomChangesResponse, error)
	Get(ctx context.Context, id string) (dto.RoomChangeResponse, error)
	Update(ctx context.Context, req dto.UpdateRequest, id string) (dto.RoomChangeResponse, error)
	Resolve(ctx context.Context, req dto.ResolveRequest, id string) (dto.RoomChangeResponse, error)
	AddComment(ctx context.Context, req dto.AddCommentRequest, id string) (dto.CommentResponse, error)
}

type serviceImpl struct {
	repo        repository.RoomChange
	commentRepo repository.Comment
	cfg         *config.Config
	otel        otel.Otel
	kafka       kafka.Client
	ids         *identifier.Factory
}

func New(repo repository.RoomChange, commentRepo repository.Comment, cfg *config.Config, otel otel.Otel, kafka kafka.Client) RoomChange {
	return &serviceImpl{
		repo:        repo,
		commentRepo: commentRepo,
		cfg:         cfg,
		otel:        otel,
		kafka:       kafka,
		ids:         identifier.NewFactory(identifier.RoomChangeRequestPrefix),
	}
}

func (s *serviceImpl) Submit(ctx context.Context, req dto.SubmitRequest) (res dto.RoomChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = req.CheckAgreement(); err != nil {
		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	if err = req.CheckOtherReason(); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	if user == constant.Empty {
		user = constant.ContextGuest
	}

	ticket := req.ToModel(constant.Empty, user)

	ticket.RequestID, err = s.ids.Assign(identifier.DefaultMaxAttempts, func(id string) error {
		exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		if exist {
			return identifier.ErrCollision
		}

		ticket.RequestID = id

		return s.repo.Insert(ctx, ticket)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to submit room change request")

		return res, fmt.Errorf("failed to submit room change request: %w", err)
	}

	s.publish(ctx, dto.NewEvent(dto.EventSubmitted, ticket, user))

	res.FromModel(ticket)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomChangeFilter) (res dto.GetRoomChangesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	req.RestrictSort(dto.SortFields)
	filterGroup := filter.ToFilterGroup()

	total, err := s.repo.Count(ctx, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count room change requests")

		return res, fmt.Errorf("failed to count room change requests: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get room change requests")

		return res, fmt.Errorf("failed to get room change requests: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	ticket, err := s.findWithComments(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(ticket)

	return res, nil
}

// Update re-submits the requester fields. Tickets leave the editable state as soon as
// an administrator resolves them.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRequest, id string) (res dto.RoomChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = req.CheckAgreement(); err != nil {
		return res, err
	}

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if current.Status != model.StatusPending {
		return res, failure.BadRequestf("only %s requests can be updated, this one is %s", model.StatusPending, current.Status)
	}

	updatedFields, err := req.ToFields(current, user)
	if err != nil {
		return res, err
	}

	if err = s.write(ctx, updatedFields, current); err != nil {
		return res, err
	}

	return s.Get(ctx, id)
}

func (s *serviceImpl) Resolve(ctx context.Context, req dto.ResolveRequest, id string) (res dto.RoomChangeResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Resolve")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	resolution, err := req.ToFields(current, user)
	if err != nil {
		return res, err
	}

	if err = s.write(ctx, shared.TransformFields(resolution, user), current); err != nil {
		return res, err
	}

	log.Info().Str("request_id", id).Str("from", current.Status).Str("to", resolution.Status).Msg("room change request resolved")

	current.Status = resolution.Status
	s.publish(ctx, dto.NewEvent(dto.EventResolved, current, user))

	return s.Get(ctx, id)
}

func (s *serviceImpl) AddComment(ctx context.Context, req dto.AddCommentRequest, id string) (res dto.CommentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AddComment")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	comment := req.ToModel(uuid.NewString(), id, user)
	if comment.CommentedBy == constant.Empty {
		return res, failure.BadRequestFromString("commentedBy is required")
	}

	ticket, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if err = s.commentRepo.Insert(ctx, comment); err != nil {
		if isForeignKeyViolation(err) {
			return res, failure.NotFound(errRequestNotFound)
		}

		log.Error().Err(err).Msg("failed to add comment")

		return res, fmt.Errorf("failed to add comment: %w", err)
	}

	s.publish(ctx, dto.NewEvent(dto.EventCommented, ticket, comment.CommentedBy))

	res.FromModel(comment)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.RoomChangeRequest, error) {
	if !s.ids.Valid(id) {
		return model.RoomChangeRequest{}, failure.NotFound(errRequestNotFound)
	}

	ticket, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room change request")

		return ticket, fmt.Errorf("failed to get room change request: %w", err)
	}

	if ticket.RequestID == constant.Empty {
		return ticket, failure.NotFound(errRequestNotFound)
	}

	return ticket, nil
}

func (s *serviceImpl) findWithComments(ctx context.Context, id string) (model.RoomChangeRequest, error) {
	ticket, err := s.find(ctx, id)
	if err != nil {
		return ticket, err
	}

	params := gDto.QueryParams{SortBy: model.FieldCommentedAt, SortDir: gDto.SortDirAsc}

	ticket.Comments, err = s.commentRepo.GetAll(ctx, params, shared.FilterByID(id, model.FieldCommentRequestID, model.CommentTableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room change comments")

		return ticket, fmt.Errorf("failed to get room change comments: %w", err)
	}

	return ticket, nil
}

// write applies fields only if the ticket still has the version that was read.
func (s *serviceImpl) write(ctx context.Context, fields map[string]any, current model.RoomChangeRequest) error {
	filter := shared.FilterByIDAndVersion(current.RequestID, model.FieldID, model.TableName, current.Version)

	if err := s.repo.Update(ctx, fields, filter); err != nil {
		if errors.Is(err, gRepo.ErrNoRowsAffected) {
			return failure.VersionConflictError
		}

		log.Error().Err(err).Msg("failed to update room change request")

		return fmt.Errorf("failed to update room change request: %w", err)
	}

	return nil
}

func (s *serviceImpl) publish(ctx context.Context, event dto.Event) {
	go func() {
		c := context.WithoutCancel(ctx)

		message := kafka.Message{Key: event.RequestID, Value: event}
		if err := s.kafka.SendMessages(c, s.cfg.Kafka.Topics.RoomChange, message); err != nil {
			log.Error().Err(err).Str("event", event.Type).Str("request_id", event.RequestID).Msg("failed to publish room change event")
		}
	}()
}

func isForeignKeyViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == constant.PqErrorCodeFkViolation
	}

	return false
}
