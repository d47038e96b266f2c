package controllers

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/rahulm/classtrack/internal/app/models/dto"
	"github.com/rahulm/classtrack/internal/app/services"
	"github.com/rahulm/classtrack/internal/middleware"
	"github.com/rahulm/classtrack/internal/pkg/apperrors"
)

// ImportController handles CSV roster uploads
type ImportController struct {
	ingestService services.IngestService
	logger        zerolog.Logger
}

// NewImportController creates a new ImportController
func NewImportController(ingestService services.IngestService, logger zerolog.Logger) *ImportController {
	return &ImportController{
		ingestService: ingestService,
		logger:        logger,
	}
}

// UploadStudents accepts a multipart CSV and merges it into the record
// store. The temp copy of the upload is removed on every exit path.
func (c *ImportController) UploadStudents(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		middleware.HandleAPIError(ctx, apperrors.NewBadRequestError("a csv file is required"))
		return
	}

	tmpPath := filepath.Join(os.TempDir(), "classtrack-upload-"+uuid.New().String()+".csv")
	if err := ctx.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		c.logger.Error().Err(err).Msg("Failed to store uploaded file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer func() {
		if err := os.Remove(tmpPath); err != nil {
			c.logger.Warn().Err(err).Str("path", tmpPath).Msg("Failed to remove uploaded file")
		}
	}()

	f, err := os.Open(tmpPath)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to open uploaded file")
		middleware.HandleAPIError(ctx, err)
		return
	}
	defer f.Close()

	summary, err := c.ingestService.ImportCSV(ctx.Request.Context(), f)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.MessageResponse{
		Message: fmt.Sprintf("imported %d students", summary.Processed),
	})
}
