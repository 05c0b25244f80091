package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	service "github.com/okian/juryboard/internal/app"
	"github.com/okian/juryboard/internal/domain/model"
	"github.com/okian/juryboard/internal/domain/sheet"
	"github.com/okian/juryboard/pkg/logger"
)

const (
	filesField = "files"
	// Parts beyond this are spooled to temp files by mime/multipart.
	multipartMemory = 8 << 20
)

// CalculateHandler handles batch uploads.
type CalculateHandler struct {
	deps     Dependencies
	maxBytes int64
}

// NewCalculateHandler creates a new calculate handler.
func NewCalculateHandler(deps Dependencies, maxBytes int64) *CalculateHandler {
	return &CalculateHandler{deps: deps, maxBytes: maxBytes}
}

// HandleCalculate handles POST /api/calculate with a multipart body carrying
// one or more sheets under the "files" field.
func (h *CalculateHandler) HandleCalculate(w http.ResponseWriter, r *http.Request) {
	const op = "api.calculate"
	if r.Method != http.MethodPost {
		methodNotAllowed(w, op, http.MethodPost)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "payload_too_large", WrapKind(op, ErrPayloadTooLarge, err))
			return
		}
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	defer func() { _ = r.MultipartForm.RemoveAll() }()

	headers := r.MultipartForm.File[filesField]
	if len(headers) == 0 {
		writeError(w, http.StatusBadRequest, "no_files", NewKind(op, ErrNoFiles))
		return
	}

	uploads, err := readUploads(headers)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}

	lb, err := h.deps.Calculate(r.Context(), uploads)
	if err != nil {
		status, code := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Get().Error(r.Context(), "calculate failed", logger.Error(err))
		}
		writeError(w, status, code, err)
		return
	}
	writeJSON(w, http.StatusOK, lb)
}

func readUploads(headers []*multipart.FileHeader) ([]model.Upload, error) {
	uploads := make([]model.Upload, 0, len(headers))
	for _, fh := range headers {
		data, err := readPart(fh)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fh.Filename, err)
		}
		uploads = append(uploads, model.Upload{Name: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// classify maps a batch error to an HTTP status and error code.
func classify(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrNoFiles):
		return http.StatusBadRequest, "no_files"
	case errors.Is(err, service.ErrTooManyFiles):
		return http.StatusBadRequest, "too_many_files"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "cancelled"
	}
	if code := sheet.CodeOf(err); code != sheet.CodeInternal {
		return http.StatusBadRequest, code
	}
	return http.StatusInternalServerError, sheet.CodeInternal
}
