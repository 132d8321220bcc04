package handler

import (
	"errors"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/edu-archive-api/internal/dto"
	"github.com/noah-isme/edu-archive-api/internal/middleware"
	"github.com/noah-isme/edu-archive-api/internal/models"
	appErrors "github.com/noah-isme/edu-archive-api/pkg/errors"
)

func claimsFromContext(c *gin.Context) *models.SessionClaims {
	return middleware.CurrentAdmin(c)
}

func bindError(err error, message string) error {
	return appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, message)
}

// formUpload opens the "file" part of a multipart request. A missing part or
// a non-multipart body yields a nil upload; the caller closes the file.
func formUpload(c *gin.Context) (*models.Upload, multipart.File, error) {
	header, err := c.FormFile("file")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil, nil
		}
		return nil, nil, bindError(err, "invalid multipart payload")
	}
	src, err := header.Open()
	if err != nil {
		return nil, nil, appErrors.Internal(err, "failed to open uploaded file")
	}
	return &models.Upload{Filename: header.Filename, Content: src}, src, nil
}

// paperFilter parses question paper query parameters. Empty values are
// unfiltered; non-numeric ones are validation errors.
func paperFilter(q dto.QuestionPaperQuery) (models.QuestionPaperFilter, error) {
	filter := models.QuestionPaperFilter{SubjectID: strings.TrimSpace(q.SubjectID)}
	fields := map[string]string{}

	if v, ok, err := optionalInt(q.Semester); err != nil {
		fields["semester"] = "must be a number"
	} else if ok {
		filter.Semester = &v
	}
	if v, ok, err := optionalInt(q.Year); err != nil {
		fields["year"] = "must be a number"
	} else if ok {
		filter.Year = &v
	}

	if len(fields) > 0 {
		e := appErrors.Clone(appErrors.ErrValidation, "invalid question paper filter")
		e.Fields = fields
		return filter, e
	}
	return filter, nil
}

func optionalInt(raw string) (int, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, false, err
	}
	return v, true, nil
}
