package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/infras/storage"
	"hostel/internal/domains/room/model"
	"hostel/internal/domains/room/model/dto"
	"hostel/internal/domains/room/repository"
	"hostel/shared"
	"hostel/shared/cache"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/identifier"
	gRepo "hostel/shared/repository"
	"hostel/shared/validator"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const (
	cacheGetRoom    = "room:get"
	cacheGetAllRoom = "room:gets"
	cacheCountRoom  = "room:count"

	imageDirectory = "rooms"

	errRoomNotFound = "room not found"
)

type Room interface {
	Create(ctx context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomFilter) (dto.GetRoomsResponse, error)
	Get(ctx context.Context, id string) (dto.RoomResponse, error)
	Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (dto.RoomResponse, error)
	Delete(ctx context.Context, id string) error
	AttachImages(ctx context.Context, req dto.AttachImagesRequest, id string) (dto.RoomResponse, error)
}

type serviceImpl struct {
	repo    repository.Room
	cfg     *config.Config
	cache   cache.RedisCache
	otel    otel.Otel
	storage storage.Storage
	ids     *identifier.Factory
}

func New(repo repository.Room, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, storage storage.Storage) Room {
	return &serviceImpl{
		repo:    repo,
		cfg:     cfg,
		cache:   cache,
		otel:    otel,
		storage: storage,
		ids:     identifier.NewFactory(identifier.RoomPrefix),
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRoomRequest) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	room, err := req.ToModel(constant.Empty, user)
	if err != nil {
		return res, err
	}

	refs, err := s.saveImages(ctx, req.Images)
	if err != nil {
		return res, err
	}

	room.Images = refs

	room.RoomID, err = s.ids.Assign(identifier.DefaultMaxAttempts, func(id string) error {
		exist, err := s.repo.Exist(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
		if err != nil {
			return err
		}

		if exist {
			return identifier.ErrCollision
		}

		room.RoomID = id

		return s.repo.Insert(ctx, room)
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to create room")
		s.removeImages(context.WithoutCancel(ctx), refs)

		return res, fmt.Errorf("failed to create room: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()

	res.FromModel(room)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter dto.RoomFilter) (res dto.GetRoomsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&filter); err != nil {
		return res, err
	}

	req.RestrictSort(dto.SortFields)
	filterGroup := filter.ToFilterGroup()

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllRoom, req, filterGroup)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for rooms")

		return res, nil
	}

	total, err := s.count(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to count rooms")

		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filterGroup)
	if err != nil {
		log.Error().Err(err).Msg("failed to get rooms")

		return res, fmt.Errorf("failed to get rooms: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	s.remember(ctx, cacheKey, res)

	return res, nil
}

// remember writes value to the cache in the background, detached from the request.
func (s *serviceImpl) remember(ctx context.Context, key string, value any) {
	ttl := time.Duration(s.cfg.Cache.TTL) * time.Second

	go func(ctx context.Context) {
		if err := s.cache.Save(ctx, key, value, ttl); err != nil {
			log.Warn().Err(err).Str("key", key).Msg("failed to cache room data")
		}
	}(context.WithoutCancel(ctx))
}

func (s *serviceImpl) count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".count")
	defer scope.End()
	defer scope.TraceIfError(&err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountRoom, req, filter)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		return res, fmt.Errorf("failed to count rooms: %w", err)
	}

	s.remember(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !s.ids.Valid(id) {
		return res, failure.NotFound(errRoomNotFound)
	}

	cacheKey := shared.BuildCacheKey(cacheGetRoom, id)

	if err := s.cache.Get(ctx, cacheKey, &res); err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for room")

		return res, nil
	}

	room, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	s.remember(ctx, cacheKey, res)

	return res, nil
}

// Update merges the supplied fields into the stored room. A version in the request
// turns the write into a compare-and-set against that version.
func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRoomRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
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

	if req.Version != nil && *req.Version != current.Version {
		return res, failure.VersionConflictError
	}

	updatedFields, err := req.ToFields(current, user)
	if err != nil {
		return res, err
	}

	filter := shared.FilterByID(id, model.FieldID, model.TableName)
	if req.Version != nil {
		filter = shared.FilterByIDAndVersion(id, model.FieldID, model.TableName, *req.Version)
	}

	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		if errors.Is(err, gRepo.ErrNoRowsAffected) {
			if req.Version != nil {
				return res, failure.VersionConflictError
			}

			return res, failure.NotFound(errRoomNotFound)
		}

		log.Error().Err(err).Msg("failed to update room")

		return res, fmt.Errorf("failed to update room: %w", err)
	}

	s.invalidate(ctx, id)

	updated, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(updated)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(&err)

	room, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if errors.Is(err, gRepo.ErrNoRowsAffected) {
			return failure.NotFound(errRoomNotFound)
		}

		log.Error().Err(err).Msg("failed to delete room")

		return fmt.Errorf("failed to delete room: %w", err)
	}

	s.invalidate(ctx, id)

	go s.removeImages(context.WithoutCancel(ctx), room.Images)

	return nil
}

// AttachImages stores the uploaded files and appends their references to the room.
func (s *serviceImpl) AttachImages(ctx context.Context, req dto.AttachImagesRequest, id string) (res dto.RoomResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".AttachImages")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if err = validator.ValidateStruct(&req); err != nil {
		return res, err
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	if _, err = s.find(ctx, id); err != nil {
		return res, err
	}

	refs, err := s.saveImages(ctx, req.Images)
	if err != nil {
		return res, err
	}

	if err = s.repo.AppendImages(ctx, id, refs, user); err != nil {
		s.removeImages(context.WithoutCancel(ctx), refs)

		if errors.Is(err, gRepo.ErrNoRowsAffected) {
			return res, failure.NotFound(errRoomNotFound)
		}

		log.Error().Err(err).Msg("failed to attach images")

		return res, fmt.Errorf("failed to attach images: %w", err)
	}

	s.invalidate(ctx, id)

	room, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(room)

	return res, nil
}

// find reports malformed ids as missing without a round trip to the database.
func (s *serviceImpl) find(ctx context.Context, id string) (model.Room, error) {
	if !s.ids.Valid(id) {
		return model.Room{}, failure.NotFound(errRoomNotFound)
	}

	room, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get room")

		return room, fmt.Errorf("failed to get room: %w", err)
	}

	if room.RoomID == constant.Empty {
		return room, failure.NotFound(errRoomNotFound)
	}

	return room, nil
}

// invalidate drops the cached room right away so a following read sees the write;
// list pages are cleared in the background.
func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if err := s.cache.Delete(ctx, shared.BuildCacheKey(cacheGetRoom, id)); err != nil {
		log.Error().Err(err).Msg("failed to delete room cache")
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllRoom)
		shared.InvalidateCaches(c, s.cache, cacheCountRoom)
	}()
}

// saveImages checks every file before storing any of them. Stored files are removed
// again when a later one fails.
func (s *serviceImpl) saveImages(ctx context.Context, files []dto.ImageFile) ([]string, error) {
	if len(files) == 0 {
		return []string{}, nil
	}

	if maxFiles := s.cfg.App.Upload.MaxFiles; maxFiles > 0 && len(files) > maxFiles {
		return nil, failure.BadRequestf("at most %d images can be uploaded at once", maxFiles)
	}

	contentTypes := make([]string, len(files))
	extensions := make([]string, len(files))

	for i, file := range files {
		contentType, extension, err := s.checkImage(file)
		if err != nil {
			return nil, err
		}

		contentTypes[i], extensions[i] = contentType, extension
	}

	refs := make([]string, 0, len(files))

	for i, file := range files {
		ref, err := s.storage.Save(ctx, imageDirectory, uuid.NewString()+extensions[i], contentTypes[i], file.Data)
		if err != nil {
			log.Error().Err(err).Str("file", file.FileName).Msg("failed to store image")
			s.removeImages(context.WithoutCancel(ctx), refs)

			return nil, fmt.Errorf("failed to store image: %w", err)
		}

		refs = append(refs, ref)
	}

	return refs, nil
}

func (s *serviceImpl) checkImage(file dto.ImageFile) (contentType, extension string, err error) {
	maxSize := s.cfg.App.Upload.MaxFileSizeMB

	if err := validator.ValidateVar(file.Data, fmt.Sprintf("maxfilesize=%g", maxSize)); err != nil {
		return "", "", failure.PayloadTooLarge(fmt.Sprintf("%s exceeds the %g MB limit", file.FileName, maxSize))
	}

	contentType, extension, err = storage.DetectImage(file.Data, s.cfg.App.Upload.AllowedTypes)
	if err != nil {
		return "", "", failure.BadRequestf("%s is not an accepted image: %v", file.FileName, err)
	}

	return contentType, extension, nil
}

func (s *serviceImpl) removeImages(ctx context.Context, refs []string) {
	for _, ref := range refs {
		if err := s.storage.Delete(ctx, ref); err != nil && !errors.Is(err, storage.ErrNotFound) {
			log.Warn().Err(err).Str("ref", ref).Msg("failed to remove stored image")
		}
	}
}
