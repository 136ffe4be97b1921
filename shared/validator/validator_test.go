package validator_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"hostel/shared/failure"
	"hostel/shared/validator"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type roomPayload struct {
	RoomNumber   string  `json:"roomNumber"   validate:"required,notblank"`
	MonthlyPrice float64 `json:"monthlyPrice" validate:"gte=0"`
	RoomType     string  `json:"roomType"     validate:"required,oneof=single shared"`
	Size         float64 `json:"size"         validate:"omitempty,gt=0"`
	Email        string  `json:"email"        validate:"omitempty,email"`
	From         *string `json:"availableFrom" validate:"omitempty,date"`
}

type imagePayload struct {
	Content []byte `validate:"maxfilesize=0.001"`
}

// Smallest valid PNG header, enough for content sniffing.
var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")

func TestValidateStruct(t *testing.T) {
	valid := roomPayload{RoomNumber: "A-101", MonthlyPrice: 150, RoomType: "single"}

	tests := []struct {
		name            string
		mutate          func(p *roomPayload)
		expectedMessage string
	}{
		{name: "valid payload", mutate: func(_ *roomPayload) {}},
		{name: "missing room number", mutate: func(p *roomPayload) { p.RoomNumber = "" }, expectedMessage: "roomNumber is required"},
		{name: "blank room number", mutate: func(p *roomPayload) { p.RoomNumber = "   " }, expectedMessage: "roomNumber must not be blank"},
		{name: "negative price", mutate: func(p *roomPayload) { p.MonthlyPrice = -1 }, expectedMessage: "monthlyPrice must be greater than or equal to 0"},
		{name: "unknown room type", mutate: func(p *roomPayload) { p.RoomType = "suite" }, expectedMessage: "roomType must be one of single shared"},
		{name: "zero size is allowed", mutate: func(p *roomPayload) { p.Size = 0 }},
		{name: "calendar date", mutate: func(p *roomPayload) { d := "2025-01-31"; p.From = &d }},
		{name: "bad date", mutate: func(p *roomPayload) { d := "31/01/2025"; p.From = &d }, expectedMessage: "availableFrom must be a date (YYYY-MM-DD)"},
		{name: "negative size", mutate: func(p *roomPayload) { p.Size = -2 }, expectedMessage: "size must be greater than 0"},
		{name: "invalid email", mutate: func(p *roomPayload) { p.Email = "nope" }, expectedMessage: "email must be a valid email address"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := valid
			tt.mutate(&payload)

			err := validator.ValidateStruct(&payload)

			if tt.expectedMessage == "" {
				assert.NoError(t, err)

				return
			}

			require.Error(t, err)
			assert.Equal(t, tt.expectedMessage, err.Error())
			assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
		})
	}
}

func TestValidateVar(t *testing.T) {
	tests := []struct {
		name        string
		field       any
		tag         string
		expectError bool
	}{
		{name: "valid required string", field: "test", tag: "required"},
		{name: "empty required string", field: "", tag: "required", expectError: true},
		{name: "valid number in range", field: 25, tag: "gte=0,lte=100"},
		{name: "number out of range", field: 150, tag: "gte=0,lte=100", expectError: true},
		{name: "valid oneof", field: "urgent", tag: "oneof=normal urgent"},
		{name: "invalid oneof", field: "asap", tag: "oneof=normal urgent", expectError: true},
		{name: "bytes within file size", field: make([]byte, 1024), tag: "maxfilesize=0.001"},
		{name: "bytes above file size", field: make([]byte, 2048), tag: "maxfilesize=0.001", expectError: true},
		{name: "whole amount", field: 5000.0, tag: "decimals=2"},
		{name: "amount in cents", field: 5000.12, tag: "decimals=2"},
		{name: "large amount in cents", field: 9999999999.99, tag: "decimals=2"},
		{name: "amount below cents", field: 120.555, tag: "decimals=2", expectError: true},
		{name: "decimals on a string", field: "1.5", tag: "decimals=2", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateVar(tt.field, tt.tag)

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDecode_DoesNotValidate(t *testing.T) {
	var data roomPayload

	err := validator.Decode(strings.NewReader(`{"roomType":"suite"}`), &data)

	require.NoError(t, err)
	assert.Equal(t, "suite", data.RoomType)

	err = validator.Decode(strings.NewReader(`not json`), &data)
	assert.Equal(t, http.StatusBadRequest, failure.GetCode(err))
}

func TestDecode_BodyLimit(t *testing.T) {
	var data roomPayload

	body := http.MaxBytesReader(httptest.NewRecorder(), io.NopCloser(strings.NewReader(`{"roomNumber":"`+strings.Repeat("a", 64)+`"}`)), 16)

	err := validator.Decode(body, &data)

	assert.Equal(t, http.StatusRequestEntityTooLarge, failure.GetCode(err))
}

func TestFileSizeValidation(t *testing.T) {
	tests := []struct {
		name        string
		content     []byte
		expectError bool
	}{
		{name: "png within size", content: pngHeader},
		{name: "png above size", content: append(append([]byte{}, pngHeader...), make([]byte, 2048)...), expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.ValidateStruct(&imagePayload{Content: tt.content})

			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
