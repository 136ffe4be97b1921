package upload

import (
	"errors"
	"net/http"

	"hostel/infras/otel"
	"hostel/infras/storage"
	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const cacheControl = "public, max-age=86400"

// Handler serves stored images under /uploads for every storage driver.
type Handler struct {
	storage storage.Storage
	otel    otel.Otel
}

func New(storage storage.Storage, otel otel.Otel) Handler {
	return Handler{
		storage: storage,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Get(constant.UploadsRoutePrefix+"/*", handler.GetFile)
}

// GetFile streams one uploaded image.
// @Summary Get an uploaded image
// @Tags Upload
// @Produce image/jpeg,image/png,image/gif,image/webp
// @Param path path string true "Path below /uploads"
// @Success 200 {file} file
// @Failure 404 {object} response.Error
// @Router /uploads/{path} [get]
func (handler *Handler) GetFile(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetFile")
	defer scope.End()

	body, contentType, err := handler.storage.Open(ctx, r.URL.Path)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) || errors.Is(err, storage.ErrInvalidRef) {
			response.WithError(w, failure.NotFound("file not found"))

			return
		}

		scope.TraceError(err)
		log.Error().Err(err).Str("path", r.URL.Path).Msg("failed to open upload")

		response.WithError(w, err)

		return
	}
	defer body.Close()

	w.Header().Set("Cache-Control", cacheControl)
	w.Header().Set("X-Content-Type-Options", "nosniff")

	response.WithStream(w, contentType, body)
}
