package handlers

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/PratikDhanave/lodging-intake-service/internal/intake"
	"github.com/PratikDhanave/lodging-intake-service/internal/models"
)

// SavedMessage is the message of a successful submission.
const SavedMessage = "Accommodation saved successfully"

// BodyTooLargeMessage is the error of a listing body over the configured limit.
const BodyTooLargeMessage = "request body too large"

// RegisterListingRoutes registers the form endpoints. Bodies over maxBody
// bytes are rejected with 413.
//
// POST /api/listings
// - multipart or urlencoded form, image files in "images"
// - stores the images, echoes the listing; the listing itself is not persisted
//
// POST /api/listings/preview
// - same input, stores nothing, returns the confirmation summary
func RegisterListingRoutes(r gin.IRoutes, svc *intake.Service, maxMemory, maxBody int64, logger *zap.Logger) {
	r.POST("/api/listings", func(c *gin.Context) {
		form, files, ok := parseListingRequest(c, maxMemory, maxBody, logger)
		if !ok {
			return
		}
		listing := svc.Save(c.Request.Context(), form, files)

		c.JSON(http.StatusOK, models.SaveResponse{
			Success: true,
			Message: SavedMessage,
			Data:    listing,
		})
	})

	r.POST("/api/listings/preview", func(c *gin.Context) {
		form, files, ok := parseListingRequest(c, maxMemory, maxBody, logger)
		if !ok {
			return
		}
		c.JSON(http.StatusOK, svc.Preview(form, files))
	})
}

// parseListingRequest reads the posted fields and image files. A body that
// cannot be parsed yields whatever was read before the failure. Only an
// oversized body rejects the request; ok is false once the 413 is written.
func parseListingRequest(c *gin.Context, maxMemory, maxBody int64, logger *zap.Logger) (form models.ListingForm, files []*multipart.FileHeader, ok bool) {
	req := c.Request
	req.Body = http.MaxBytesReader(c.Writer, req.Body, maxBody)

	if err := req.ParseMultipartForm(maxMemory); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			logger.Warn("listing body too large", zap.Int64("limit", tooLarge.Limit))
			c.JSON(http.StatusRequestEntityTooLarge, models.ErrorResponse{Error: BodyTooLargeMessage})
			return models.ListingForm{}, nil, false
		}
		logger.Warn("parsing listing form failed", zap.Error(err))
	}

	form, err := intake.DecodeForm(req.PostForm)
	if err != nil {
		logger.Warn("decoding listing form failed", zap.Error(err))
	}

	if req.MultipartForm != nil {
		files = append(files, req.MultipartForm.File[intake.ImagesField]...)
		files = append(files, req.MultipartForm.File[intake.ImagesField+"[]"]...)
	}
	return form, files, true
}
