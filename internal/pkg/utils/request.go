package utils

import (
	"io"
	"mentorship-service/internal/app/models"
	"mentorship-service/internal/pkg/constvars"
	"mentorship-service/internal/pkg/exceptions"
	"net/http"
	"time"
)

// BuildTimeRangeRequest reads RFC3339 "from" and "to" query params. A missing "from"
// defaults to now and a missing "to" to four weeks after "from".
func BuildTimeRangeRequest(r *http.Request, now time.Time) (time.Time, time.Time, error) {
	from := now
	if raw := r.URL.Query().Get(constvars.QueryParamFrom); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, exceptions.ErrQueryParamValidation(err, constvars.QueryParamFrom)
		}
		from = parsed
	}

	to := from.Add(28 * 24 * time.Hour)
	if raw := r.URL.Query().Get(constvars.QueryParamTo); raw != "" {
		parsed, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			return time.Time{}, time.Time{}, exceptions.ErrQueryParamValidation(err, constvars.QueryParamTo)
		}
		to = parsed
	}
	return from, to, nil
}

// ReadMultipartFiles loads every file under field from an already parsed multipart form.
func ReadMultipartFiles(r *http.Request, field string) ([]models.EvidenceFile, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}

	headers := r.MultipartForm.File[field]
	files := make([]models.EvidenceFile, 0, len(headers))
	for _, header := range headers {
		file, err := header.Open()
		if err != nil {
			return nil, exceptions.ErrCannotParseMultipartForm(err)
		}
		content, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, exceptions.ErrCannotParseMultipartForm(err)
		}

		contentType := header.Header.Get(constvars.HeaderContentType)
		if contentType == "" {
			contentType = http.DetectContentType(content)
		}
		files = append(files, models.EvidenceFile{
			FileName:    header.Filename,
			ContentType: contentType,
			Size:        header.Size,
			Content:     content,
		})
	}
	return files, nil
}
