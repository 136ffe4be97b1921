package response

import (
	"encoding/json"
	"io"
	"net/http"

	"hostel/shared/constant"
	"hostel/shared/failure"
	"hostel/shared/logger"
)

// Data, Error and Message are the three response envelopes.
type Data[T any] struct {
	Data *T `json:"data,omitempty"`
}

type Error struct {
	Error *string `json:"error,omitempty"`
}

type Message struct {
	Message *string `json:"message,omitempty"`
}

func WithMessage(writer http.ResponseWriter, code int, message string) {
	write(writer, code, Message{Message: &message})
}

func WithJSON(writer http.ResponseWriter, code int, payload any) {
	write(writer, code, Data[any]{Data: &payload})
}

// WithError maps err to its failure code. Anything unclassified goes out as a bare
// 500 and is logged here instead.
func WithError(writer http.ResponseWriter, err error) {
	code := failure.GetCode(err)
	message := err.Error()

	if code == http.StatusInternalServerError {
		logger.ErrorWithStack(err)
		message = http.StatusText(code)
	}

	write(writer, code, Error{Error: &message})
}

// WithStream relays body untouched.
func WithStream(writer http.ResponseWriter, contentType string, body io.Reader) {
	writer.Header().Set(constant.RequestHeaderContentType, contentType)
	writer.WriteHeader(http.StatusOK)

	if _, err := io.Copy(writer, body); err != nil {
		logger.ErrorWithStack(err)
	}
}

func WithRequestLimitExceeded(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusTooManyRequests, constant.ResponseErrorRequestLimitExceeded)
}

func WithPreparingShutdown(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorPrepareShutdown)
}

func WithUnhealthy(writer http.ResponseWriter) {
	WithMessage(writer, http.StatusServiceUnavailable, constant.ResponseErrorUnhealthy)
}

func write(writer http.ResponseWriter, code int, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		logger.ErrorWithStack(err)
		http.Error(writer, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	writer.Header().Set(constant.RequestHeaderContentType, constant.ContentTypeJSON)
	writer.WriteHeader(code)

	if _, err = writer.Write(body); err != nil {
		logger.ErrorWithStack(err)
	}
}
