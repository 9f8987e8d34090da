package handler

import (
	"errors"
	"io"
	"net/http"

	"go-doctor-appointment/internal/service"
)

const imageFormField = "image"

var errInvalidForm = errors.New("invalid multipart form")

// parseMultipart bounds the request body and parses the form
func parseMultipart(w http.ResponseWriter, r *http.Request, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
	if err := r.ParseMultipartForm(maxBytes); err != nil {
		return errInvalidForm
	}
	return nil
}

// formImage returns the uploaded image part, or nil when the form carries none.
// The caller must close the returned closer.
func formImage(r *http.Request) (*service.ImageUpload, io.Closer, error) {
	file, header, err := r.FormFile(imageFormField)
	if errors.Is(err, http.ErrMissingFile) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, errInvalidForm
	}

	return &service.ImageUpload{
		Reader:      file,
		Size:        header.Size,
		ContentType: header.Header.Get("Content-Type"),
	}, file, nil
}

func closeQuietly(c io.Closer) {
	if c != nil {
		_ = c.Close()
	}
}
