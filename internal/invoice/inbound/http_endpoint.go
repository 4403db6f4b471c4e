package inbound

import (
	"context"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/phoenixsheppard28/vendorcafe-csv/internal/invoice/entity"
	"github.com/phoenixsheppard28/vendorcafe-csv/internal/pkg/pkgerror"
)

const (
	fieldDropped = "files"
	fieldPicked  = "file"
)

type HTTPEndpoint struct {
	uc uc
}

func (h *HTTPEndpoint) Widget(ctx context.Context, r *http.Request) (any, error) {
	snap, err := h.uc.State(ctx, sessionID(ctx))
	if err != nil {
		return nil, err
	}

	return toWidgetResponse(snap, ""), nil
}

func (h *HTTPEndpoint) SubmitDropped(ctx context.Context, r *http.Request) (any, error) {
	files, err := extractMultipartFiles(r, fieldDropped, false)
	if err != nil {
		return nil, err
	}

	snap, err := h.uc.SubmitDropped(ctx, sessionID(ctx), files)
	if err != nil {
		return nil, err
	}

	return toWidgetResponse(snap, "file staged"), nil
}

func (h *HTTPEndpoint) SubmitPicked(ctx context.Context, r *http.Request) (any, error) {
	files, err := extractMultipartFiles(r, fieldPicked, true)
	if err != nil {
		return nil, err
	}

	var file *entity.CandidateFile
	if len(files) > 0 {
		file = &files[0]
	}

	snap, err := h.uc.SubmitPicked(ctx, sessionID(ctx), file)
	if err != nil {
		return nil, err
	}

	return toWidgetResponse(snap, "file staged"), nil
}

func (h *HTTPEndpoint) Clear(ctx context.Context, r *http.Request) (any, error) {
	snap, err := h.uc.Clear(ctx, sessionID(ctx))
	if err != nil {
		return nil, err
	}

	return toWidgetResponse(snap, "file removed"), nil
}

func (h *HTTPEndpoint) Aggregate(ctx context.Context, r *http.Request) (any, error) {
	result, err := h.uc.Aggregate(ctx, sessionID(ctx))
	if err != nil {
		return nil, err
	}

	return AggregationResponse{Result: toHTTPResult(result)}, nil
}

func (h *HTTPEndpoint) Dismiss(ctx context.Context, r *http.Request) (any, error) {
	snap, err := h.uc.Dismiss(ctx, sessionID(ctx))
	if err != nil {
		return nil, err
	}

	return toWidgetResponse(snap, "summary dismissed"), nil
}

func (h *HTTPEndpoint) Totals(ctx context.Context, r *http.Request) (any, error) {
	file, err := extractCandidateFile(r)
	if err != nil {
		return nil, err
	}

	result, err := h.uc.Total(ctx, file)
	if err != nil {
		return nil, err
	}

	return TotalResponse{Result: toHTTPResult(result)}, nil
}

func isMultipart(r *http.Request) bool {
	contentType := r.Header.Get("Content-Type")
	if contentType == "" {
		return false
	}
	mediaType, _, err := mime.ParseMediaType(contentType)
	return err == nil && strings.EqualFold(mediaType, "multipart/form-data")
}

// extractCandidateFile reads the "file" part of a multipart body, or takes
// the whole body as the file. A raw body is named by the "name" query
// parameter and typed by its Content-Type header.
func extractCandidateFile(r *http.Request) (entity.CandidateFile, error) {
	if isMultipart(r) {
		files, err := extractMultipartFiles(r, fieldPicked, true)
		if err != nil {
			return entity.CandidateFile{}, err
		}
		if len(files) == 0 {
			return entity.CandidateFile{}, pkgerror.NewInvalidInput(errors.New("file part is required"))
		}
		return files[0], nil
	}

	if r.Body == nil {
		return entity.CandidateFile{}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	content, err := io.ReadAll(r.Body)
	if err != nil {
		return entity.CandidateFile{}, pkgerror.NewInvalidFormat()
	}
	if len(content) == 0 {
		return entity.CandidateFile{}, pkgerror.NewInvalidInput(errors.New("empty request body"))
	}

	return entity.CandidateFile{
		Name:      strings.TrimSpace(r.URL.Query().Get("name")),
		Size:      int64(len(content)),
		MediaType: headerMediaType(r.Header.Get("Content-Type")),
		Content:   content,
	}, nil
}

// extractMultipartFiles reads every file part named field, in order. With
// firstOnly it stops after the first match.
func extractMultipartFiles(r *http.Request, field string, firstOnly bool) ([]entity.CandidateFile, error) {
	if !isMultipart(r) {
		return nil, pkgerror.NewInvalidFormat()
	}

	reader, err := r.MultipartReader()
	if err != nil {
		return nil, pkgerror.NewInvalidFormat()
	}

	var files []entity.CandidateFile
	for {
		part, err := reader.NextPart()
		if errors.Is(err, io.EOF) {
			return files, nil
		}
		if err != nil {
			return nil, pkgerror.NewInvalidFormat()
		}

		if part.FormName() != field || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		file, err := readPart(part)
		_ = part.Close()
		if err != nil {
			return nil, pkgerror.NewInvalidFormat()
		}

		files = append(files, file)
		if firstOnly {
			return files, nil
		}
	}
}

func readPart(part *multipart.Part) (entity.CandidateFile, error) {
	content, err := io.ReadAll(part)
	if err != nil {
		return entity.CandidateFile{}, err
	}

	return entity.CandidateFile{
		Name:      part.FileName(),
		Size:      int64(len(content)),
		MediaType: headerMediaType(part.Header.Get("Content-Type")),
		Content:   content,
	}, nil
}

// headerMediaType reduces a Content-Type header to its bare, lower-case media
// type, the form a browser reports for a picked file.
func headerMediaType(header string) string {
	mediaType, _, err := mime.ParseMediaType(header)
	if err != nil {
		return strings.TrimSpace(header)
	}
	return mediaType
}
