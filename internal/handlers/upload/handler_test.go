package upload_test

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hostel/infras/otel/mocks"
	"hostel/infras/storage"
	storageMocks "hostel/infras/storage/mocks"
	"hostel/internal/handlers/upload"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func TestHandler_GetFile(t *testing.T) {
	tests := []struct {
		name         string
		path         string
		setupMock    func(store *storageMocks.MockStorage)
		expectedCode int
		expectedType string
	}{
		{
			name: "stored image",
			path: "/uploads/rooms/a.png",
			setupMock: func(store *storageMocks.MockStorage) {
				store.EXPECT().Open(gomock.Any(), "/uploads/rooms/a.png").
					Return(io.NopCloser(strings.NewReader("png")), "image/png", nil)
			},
			expectedCode: http.StatusOK,
			expectedType: "image/png",
		},
		{
			name: "missing image",
			path: "/uploads/rooms/gone.png",
			setupMock: func(store *storageMocks.MockStorage) {
				store.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, "", storage.ErrNotFound)
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name: "storage failure",
			path: "/uploads/rooms/a.png",
			setupMock: func(store *storageMocks.MockStorage) {
				store.EXPECT().Open(gomock.Any(), gomock.Any()).Return(nil, "", errors.New("bucket unreachable"))
			},
			expectedCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			store := storageMocks.NewMockStorage(ctrl)
			tt.setupMock(store)

			handler := upload.New(store, mocks.NewOtel())
			router := chi.NewRouter()
			handler.Router(router)

			recorder := httptest.NewRecorder()
			router.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.expectedCode, recorder.Code)

			if tt.expectedType != "" {
				assert.Equal(t, tt.expectedType, recorder.Header().Get("Content-Type"))
			}
		})
	}
}
