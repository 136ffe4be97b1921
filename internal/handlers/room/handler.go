package room

import (
	"net/http"
	"strings"

	"hostel/config"
	"hostel/infras/otel"
	"hostel/internal/domains/room/model/dto"
	"hostel/internal/domains/room/service"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Room
	otel    otel.Otel
	cfg     *config.Config
}

func New(service service.Room, otel otel.Otel, cfg *config.Config) Handler {
	return Handler{
		service: service,
		otel:    otel,
		cfg:     cfg,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/roomdetails", handler.CreateRoom)
	router.Get("/roomdetails", handler.GetRooms)
	router.Get("/roomdetails/{id}", handler.GetRoomByID)
	router.Put("/roomdetails/{id}", handler.UpdateRoom)
	router.Delete("/roomdetails/{id}", handler.DeleteRoom)
	router.Post("/roomdetails/{id}/images", handler.AttachImages)
}

// CreateRoom handles the creation of a new room.
// @Summary Create a new room
// @Description Create a room from a JSON body, or from a multipart form carrying up to ten "images" files.
// @Tags Room
// @Accept json,mpfd
// @Produce json
// @Param request body dto.CreateRoomRequest true "Room details"
// @Param images formData file false "Room images"
// @Success 201 {object} response.Data[dto.RoomResponse] "Room created"
// @Failure 400 {object} response.Error
// @Failure 401 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails [post]
// @Security BearerAuth
func (handler *Handler) CreateRoom(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRoom")
	defer scope.End()

	req := dto.CreateRoomRequest{}

	var err error
	if isMultipart(request) {
		err = handler.decodeForm(writer, request, &req)
	} else {
		err = validator.Decode(http.MaxBytesReader(writer, request.Body, constant.MaxJSONBodyBytes), &req)
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to decode room")

		response.WithError(writer, err)

		return
	}

	room, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create room")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Room " + room.RoomID + " created")

	response.WithJSON(writer, http.StatusCreated, room)
}

func (handler *Handler) decodeForm(writer http.ResponseWriter, request *http.Request, req *dto.CreateRoomRequest) error {
	form, err := parseForm(writer, request, handler.maxUploadBytes())
	if err != nil {
		return err
	}

	if err = req.FromForm(form); err != nil {
		return err
	}

	req.Images, err = readImages(form)

	return err
}

// GetRooms retrieves rooms matching the query filters.
// @Summary Get all rooms
// @Description Retrieve rooms with optional filtering, sorting and pagination.
// @Tags Room
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(available, occupied, maintenance, unavailable)
// @Param roomType query string false "Filter by room type" Enums(single, shared)
// @Param floorNumber query integer false "Filter by floor"
// @Param roomNumber query string false "Filter by room number substring"
// @Param minPrice query number false "Lowest monthly price"
// @Param maxPrice query number false "Highest monthly price"
// @Success 200 {object} response.Data[dto.GetRoomsResponse] "List of rooms"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails [get]
func (handler *Handler) GetRooms(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRooms")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.RoomFilter{}
	if err := filter.FromQuery(r.URL.Query()); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	rooms, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get rooms")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, rooms)
}

// GetRoomByID retrieves a room by its ID.
// @Summary Get a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails/{id} [get]
func (handler *Handler) GetRoomByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRoomByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	room, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_id", id).Msg("failed to get room by ID")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// UpdateRoom updates an existing room by its ID.
// @Summary Update a room by ID
// @Description Merge the supplied fields into the room. Send the version you read to reject concurrent edits.
// @Tags Room
// @Accept json
// @Produce json
// @Param id path string true "Room ID"
// @Param request body dto.UpdateRoomRequest true "Fields to change"
// @Success 200 {object} response.Data[dto.RoomResponse] "Updated room"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateRoomRequest{}
	if err := validator.Decode(http.MaxBytesReader(w, r.Body, constant.MaxJSONBodyBytes), &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	room, err := handler.service.Update(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_id", id).Msg("failed to update room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room updated by user " + user)

	response.WithJSON(w, http.StatusOK, room)
}

// DeleteRoom deletes a room by its ID.
// @Summary Delete a room by ID
// @Tags Room
// @Produce json
// @Param id path string true "Room ID"
// @Success 200 {object} response.Message "Room deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRoom")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_id", id).Msg("failed to delete room")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room deleted by user " + user)

	response.WithMessage(w, http.StatusOK, "Room deleted successfully")
}

// AttachImages appends uploaded images to a room.
// @Summary Attach images to a room
// @Description Upload one to ten images (jpeg, png, gif or webp) in the "images" field.
// @Tags Room
// @Accept mpfd
// @Produce json
// @Param id path string true "Room ID"
// @Param images formData file true "Room images"
// @Success 200 {object} response.Data[dto.RoomResponse] "Room with its images"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 413 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomdetails/{id}/images [post]
// @Security BearerAuth
func (handler *Handler) AttachImages(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AttachImages")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	form, err := parseForm(w, r, handler.maxUploadBytes())
	if err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	req := dto.AttachImagesRequest{}
	if req.Images, err = readImages(form); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	room, err := handler.service.AttachImages(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("room_id", id).Msg("failed to attach images")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, room)
}

// maxUploadBytes bounds a whole multipart body: every allowed file at full size plus
// room for the text fields.
func (handler *Handler) maxUploadBytes() int64 {
	upload := handler.cfg.App.Upload

	return int64(float64(upload.MaxFiles)*upload.MaxFileSizeMB*constant.BytesInMegabyte) + constant.BytesInMegabyte
}

func isMultipart(request *http.Request) bool {
	return strings.HasPrefix(request.Header.Get(constant.RequestHeaderContentType), constant.ContentTypeMultipartFormData)
}
