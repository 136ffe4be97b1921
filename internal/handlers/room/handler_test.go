package room_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hostel/config"
	"hostel/infras/otel/mocks"
	"hostel/internal/domains/room/model/dto"
	serviceMocks "hostel/internal/domains/room/service/mocks"
	"hostel/internal/handlers/room"
	gDto "hostel/shared/dto"
	"hostel/shared/failure"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func setup(t *testing.T) (*serviceMocks.MockRoom, http.Handler) {
	t.Helper()

	ctrl := gomock.NewController(t)
	svc := serviceMocks.NewMockRoom(ctrl)

	cfg := &config.Config{}
	cfg.App.Upload.MaxFiles = 2
	cfg.App.Upload.MaxFileSizeMB = 1

	handler := room.New(svc, mocks.NewOtel(), cfg)

	router := chi.NewRouter()
	handler.Router(router)

	return svc, router
}

func multipartBody(t *testing.T, fields map[string]string, files map[string][]byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	for name, data := range files {
		part, err := writer.CreateFormFile("images", name)
		require.NoError(t, err)

		_, err = part.Write(data)
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return body, writer.FormDataContentType()
}

func TestHandler_CreateRoom(t *testing.T) {
	t.Run("json body", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error) {
				assert.Equal(t, "A-101", req.RoomNumber)
				require.NotNil(t, req.MonthlyPrice)
				assert.InDelta(t, 450.0, *req.MonthlyPrice, 0.001)
				assert.Empty(t, req.Images)

				return dto.RoomResponse{RoomID: "RM-000001", RoomNumber: "A-101"}, nil
			})

		body := `{"roomNumber":"A-101","monthlyPrice":450,"roomType":"single"}`
		request := httptest.NewRequest(http.MethodPost, "/roomdetails", strings.NewReader(body))
		request.Header.Set("Content-Type", "application/json")
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusCreated, recorder.Code)
		assert.Contains(t, recorder.Body.String(), `"roomId":"RM-000001"`)
	})

	t.Run("multipart with images", func(t *testing.T) {
		svc, router := setup(t)

		svc.EXPECT().Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, req dto.CreateRoomRequest) (dto.RoomResponse, error) {
				assert.Equal(t, "shared", req.RoomType)
				assert.True(t, req.Wifi)
				require.Len(t, req.Images, 1)
				assert.Equal(t, "front.png", req.Images[0].FileName)
				assert.Equal(t, []byte("image-bytes"), req.Images[0].Data)

				return dto.RoomResponse{RoomID: "RM-000002"}, nil
			})

		body, contentType := multipartBody(t,
			map[string]string{"roomNumber": "B-2", "monthlyPrice": "300", "roomType": "shared", "wifi": "true"},
			map[string][]byte{"front.png": []byte("image-bytes")})

		request := httptest.NewRequest(http.MethodPost, "/roomdetails", body)
		request.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusCreated, recorder.Code)
	})

	t.Run("multipart with a malformed number", func(t *testing.T) {
		_, router := setup(t)

		body, contentType := multipartBody(t, map[string]string{"roomNumber": "B-2", "monthlyPrice": "cheap"}, nil)

		request := httptest.NewRequest(http.MethodPost, "/roomdetails", body)
		request.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})

	t.Run("oversized upload", func(t *testing.T) {
		_, router := setup(t)

		body, contentType := multipartBody(t, map[string]string{"roomNumber": "B-2"},
			map[string][]byte{"huge.png": bytes.Repeat([]byte{0x1}, 4<<20)})

		request := httptest.NewRequest(http.MethodPost, "/roomdetails", body)
		request.Header.Set("Content-Type", contentType)
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusRequestEntityTooLarge, recorder.Code)
	})

	t.Run("broken json", func(t *testing.T) {
		_, router := setup(t)

		request := httptest.NewRequest(http.MethodPost, "/roomdetails", strings.NewReader(`{"roomNumber":`))
		recorder := httptest.NewRecorder()

		router.ServeHTTP(recorder, request)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
	})
}

func TestHandler_GetRooms(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().GetAll(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, params gDto.QueryParams, filter dto.RoomFilter) (dto.GetRoomsResponse, error) {
			assert.Equal(t, 2, params.Page)
			assert.Equal(t, "available", filter.Status)
			require.NotNil(t, filter.FloorNumber)
			assert.Equal(t, 3, *filter.FloorNumber)

			return dto.GetRoomsResponse{Rooms: []dto.RoomResponse{{RoomID: "RM-000001"}}, TotalPage: 1, TotalData: 1}, nil
		})

	request := httptest.NewRequest(http.MethodGet, "/roomdetails?page=2&status=available&floorNumber=3", nil)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Data dto.GetRoomsResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Data.TotalData)

	request = httptest.NewRequest(http.MethodGet, "/roomdetails?floorNumber=top", nil)
	recorder = httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestHandler_ByID(t *testing.T) {
	tests := []struct {
		name         string
		method       string
		path         string
		body         string
		setupMock    func(svc *serviceMocks.MockRoom)
		expectedCode int
	}{
		{
			name:   "get",
			method: http.MethodGet,
			path:   "/roomdetails/RM-000001",
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Get(gomock.Any(), "RM-000001").Return(dto.RoomResponse{RoomID: "RM-000001"}, nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "get unknown",
			method: http.MethodGet,
			path:   "/roomdetails/RM-404404",
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Get(gomock.Any(), "RM-404404").Return(dto.RoomResponse{}, failure.NotFound("room not found"))
			},
			expectedCode: http.StatusNotFound,
		},
		{
			name:   "update",
			method: http.MethodPut,
			path:   "/roomdetails/RM-000001",
			body:   `{"status":"maintenance","version":2}`,
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Update(gomock.Any(), gomock.Any(), "RM-000001").
					DoAndReturn(func(_ context.Context, req dto.UpdateRoomRequest, _ string) (dto.RoomResponse, error) {
						require.NotNil(t, req.Version)
						assert.Equal(t, 2, *req.Version)

						return dto.RoomResponse{RoomID: "RM-000001", Version: 3}, nil
					})
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "update with stale version",
			method: http.MethodPut,
			path:   "/roomdetails/RM-000001",
			body:   `{"status":"maintenance","version":1}`,
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Update(gomock.Any(), gomock.Any(), "RM-000001").Return(dto.RoomResponse{}, failure.VersionConflictError)
			},
			expectedCode: http.StatusConflict,
		},
		{
			name:   "delete",
			method: http.MethodDelete,
			path:   "/roomdetails/RM-000001",
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Delete(gomock.Any(), "RM-000001").Return(nil)
			},
			expectedCode: http.StatusOK,
		},
		{
			name:   "delete twice",
			method: http.MethodDelete,
			path:   "/roomdetails/RM-000001",
			setupMock: func(svc *serviceMocks.MockRoom) {
				svc.EXPECT().Delete(gomock.Any(), "RM-000001").Return(failure.NotFound("room not found"))
			},
			expectedCode: http.StatusNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, router := setup(t)
			tt.setupMock(svc)

			request := httptest.NewRequest(tt.method, tt.path, strings.NewReader(tt.body))
			recorder := httptest.NewRecorder()

			router.ServeHTTP(recorder, request)

			assert.Equal(t, tt.expectedCode, recorder.Code)
		})
	}
}

func TestHandler_AttachImages(t *testing.T) {
	svc, router := setup(t)

	svc.EXPECT().AttachImages(gomock.Any(), gomock.Any(), "RM-000001").
		DoAndReturn(func(_ context.Context, req dto.AttachImagesRequest, _ string) (dto.RoomResponse, error) {
			assert.Len(t, req.Images, 2)

			return dto.RoomResponse{RoomID: "RM-000001", Images: []string{"/uploads/rooms/a.png", "/uploads/rooms/b.png"}}, nil
		})

	body, contentType := multipartBody(t, nil, map[string][]byte{"a.png": []byte("a"), "b.png": []byte("b")})

	request := httptest.NewRequest(http.MethodPost, "/roomdetails/RM-000001/images", body)
	request.Header.Set("Content-Type", contentType)
	recorder := httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "/uploads/rooms/b.png")

	request = httptest.NewRequest(http.MethodPost, "/roomdetails/RM-000001/images", strings.NewReader("{}"))
	request.Header.Set("Content-Type", "application/json")
	recorder = httptest.NewRecorder()

	router.ServeHTTP(recorder, request)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
