package room

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"hostel/internal/domains/room/model/dto"
	"hostel/shared/constant"
	"hostel/shared/failure"
)

func parseForm(writer http.ResponseWriter, request *http.Request, maxBytes int64) (*multipart.Form, error) {
	request.Body = http.MaxBytesReader(writer, request.Body, maxBytes)

	if err := request.ParseMultipartForm(constant.RequestMaxMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, failure.PayloadTooLarge(fmt.Sprintf("upload exceeds %d bytes", tooLarge.Limit))
		}

		return nil, failure.BadRequest(fmt.Errorf("failed to parse multipart form: %w", err))
	}

	return request.MultipartForm, nil
}

func readImages(form *multipart.Form) ([]dto.ImageFile, error) {
	headers := form.File[constant.FormImages]
	images := make([]dto.ImageFile, 0, len(headers))

	for _, header := range headers {
		data, err := readFile(header)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", header.Filename, err)
		}

		images = append(images, dto.ImageFile{FileName: header.Filename, Data: data})
	}

	return images, nil
}

func readFile(header *multipart.FileHeader) ([]byte, error) {
	file, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return io.ReadAll(file)
}
