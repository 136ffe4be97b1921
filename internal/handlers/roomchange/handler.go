package roomchange

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"hostel/infras/otel"
	"hostel/internal/domains/roomchange/model/dto"
	"hostel/internal/domains/roomchange/service"
	"hostel/shared/constant"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"
	"hostel/shared/validator"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.RoomChange
	otel    otel.Otel
}

func New(service service.RoomChange, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Post("/roomchange", handler.SubmitRequest)
	router.Get("/roomchange", handler.GetRequests)
	router.Get("/roomchange/{id}", handler.GetRequestByID)
	router.Put("/roomchange/{id}", handler.UpdateRequest)
	router.Post("/roomchange/{id}/comments", handler.AddComment)
}

// SubmitRequest files a new room change request.
// @Summary Submit a room change request
// @Description The request starts Pending. studentAgreement must be true.
// @Tags RoomChange
// @Accept json
// @Produce json
// @Param request body dto.SubmitRequest true "Request details"
// @Success 201 {object} response.Data[dto.RoomChangeResponse] "Submitted request"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomchange [post]
func (handler *Handler) SubmitRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SubmitRequest")
	defer scope.End()

	req := dto.SubmitRequest{}
	if err := validator.Decode(http.MaxBytesReader(w, r.Body, constant.MaxJSONBodyBytes), &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	ticket, err := handler.service.Submit(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to submit room change request")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Room change request " + ticket.RequestID + " submitted")

	response.WithJSON(w, http.StatusCreated, ticket)
}

// GetRequests lists room change requests.
// @Summary Get all room change requests
// @Tags RoomChange
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param status query string false "Filter by status" Enums(Pending, Approved, Rejected, Completed)
// @Param priority query string false "Filter by priority" Enums(normal, urgent)
// @Param userType query string false "Filter by requester type" Enums(student-male, student-female, staff)
// @Success 200 {object} response.Data[dto.GetRoomChangesResponse] "List of requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomchange [get]
// @Security BearerAuth
func (handler *Handler) GetRequests(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequests")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filter := dto.RoomChangeFilter{}
	filter.FromQuery(r.URL.Query())

	tickets, err := handler.service.GetAll(ctx, queryParams, filter)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get room change requests")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, tickets)
}

// GetRequestByID retrieves one request with its comments.
// @Summary Get a room change request by ID
// @Tags RoomChange
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[dto.RoomChangeResponse] "Request details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomchange/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetRequestByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	ticket, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("request_id", id).Msg("failed to get room change request")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusOK, ticket)
}

// UpdateRequest resolves a request when the body carries a status, otherwise it
// re-submits the requester fields of a pending request.
// @Summary Resolve or re-submit a room change request
// @Description Allowed transitions: Pending to Approved or Rejected, Approved to Completed.
// @Tags RoomChange
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.ResolveRequest true "Resolution, or dto.UpdateRequest fields"
// @Success 200 {object} response.Data[dto.RoomChangeResponse] "Updated request"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomchange/{id} [put]
// @Security BearerAuth
func (handler *Handler) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRequest")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, constant.MaxJSONBodyBytes))
	if err != nil {
		scope.TraceError(err)

		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.WithError(w, failure.PayloadTooLarge(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit)))

			return
		}

		response.WithError(w, failure.BadRequest(err))

		return
	}

	var probe struct {
		Status *string `json:"status"`
	}

	if err = json.Unmarshal(body, &probe); err != nil {
		scope.TraceError(err)
		response.WithError(w, failure.BadRequestFromString("failed to decode request body: "+err.Error()))

		return
	}

	var ticket dto.RoomChangeResponse

	if probe.Status != nil {
		req := dto.ResolveRequest{}
		if err = validator.Decode(bytes.NewReader(body), &req); err == nil {
			ticket, err = handler.service.Resolve(ctx, req, id)
		}
	} else {
		req := dto.UpdateRequest{}
		if err = validator.Decode(bytes.NewReader(body), &req); err == nil {
			ticket, err = handler.service.Update(ctx, req, id)
		}
	}

	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("request_id", id).Msg("failed to update room change request")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Room change request " + id + " updated by user " + user)

	response.WithJSON(w, http.StatusOK, ticket)
}

// AddComment appends a comment to a request.
// @Summary Comment on a room change request
// @Description commentedBy defaults to the signed-in administrator.
// @Tags RoomChange
// @Accept json
// @Produce json
// @Param id path string true "Request ID"
// @Param request body dto.AddCommentRequest true "Comment"
// @Success 201 {object} response.Data[dto.CommentResponse] "Stored comment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /roomchange/{id}/comments [post]
// @Security BearerAuth
func (handler *Handler) AddComment(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddComment")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.AddCommentRequest{}
	if err := validator.Decode(http.MaxBytesReader(w, r.Body, constant.MaxJSONBodyBytes), &req); err != nil {
		scope.TraceError(err)
		response.WithError(w, err)

		return
	}

	comment, err := handler.service.AddComment(ctx, req, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("request_id", id).Msg("failed to add comment")

		response.WithError(w, err)

		return
	}

	response.WithJSON(w, http.StatusCreated, comment)
}
