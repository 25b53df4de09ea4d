package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"creativecheck/internal/domain"
	"creativecheck/internal/export"
	"creativecheck/internal/service"
)

// UploadLimits bounds what a single check request may carry.
type UploadLimits struct {
	MaxFileMB int64
	MaxFiles  int
}

func (l UploadLimits) maxFileBytes() int64 {
	return l.MaxFileMB << 20
}

// maxBodyBytes leaves a megabyte for multipart framing and form fields.
func (l UploadLimits) maxBodyBytes() int64 {
	return l.maxFileBytes()*int64(l.MaxFiles) + 1<<20
}

// CheckHandler handles check run and export endpoints.
type CheckHandler struct {
	batchService  service.BatchService
	exportService service.ExportService
	limits        UploadLimits
}

// NewCheckHandler creates a new CheckHandler.
func NewCheckHandler(batchService service.BatchService, exportService service.ExportService, limits UploadLimits) *CheckHandler {
	if limits.MaxFileMB <= 0 {
		limits.MaxFileMB = 50
	}
	if limits.MaxFiles <= 0 {
		limits.MaxFiles = 20
	}
	return &CheckHandler{batchService: batchService, exportService: exportService, limits: limits}
}

// Create handles POST /api/v1/checks
func (h *CheckHandler) Create(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.limits.maxBodyBytes())

	form, err := c.MultipartForm()
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "multipart form is required")
		return
	}

	fileHeaders := form.File["files"]
	if len(fileHeaders) == 0 {
		HandleError(c, domain.ErrNoFiles)
		return
	}
	if len(fileHeaders) > h.limits.MaxFiles {
		RespondError(c, http.StatusBadRequest, "TOO_MANY_FILES",
			fmt.Sprintf("at most %d files can be checked in one run", h.limits.MaxFiles))
		return
	}

	files := make([]domain.UploadedFile, 0, len(fileHeaders))
	for _, fh := range fileHeaders {
		if fh.Size > h.limits.maxFileBytes() {
			HandleError(c, domain.ErrFileTooLarge)
			return
		}
		data, err := readUpload(fh)
		if err != nil {
			logrus.Warnf("CheckHandler.Create: reading %s: %v", fh.Filename, err)
			RespondError(c, http.StatusBadRequest, "FILE_READ_ERROR", "failed to read uploaded file")
			return
		}
		files = append(files, domain.UploadedFile{Name: fh.Filename, Data: data})
	}

	run, err := h.batchService.Run(c.Request.Context(), service.RunInput{
		Files:  files,
		APIKey: c.PostForm("api_key"),
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, run)
}

func readUpload(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

// GetByID handles GET /api/v1/checks/:id
func (h *CheckHandler) GetByID(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}

	run, err := h.batchService.Get(c.Request.Context(), runID)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondOK(c, run)
}

// Export handles GET /api/v1/checks/:id/export?format=json|csv|xlsx|yaml
func (h *CheckHandler) Export(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	file, err := h.exportService.Render(c.Request.Context(), runID, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, file.Filename))
	c.Data(http.StatusOK, file.ContentType, file.Data)
}

// Publish handles POST /api/v1/checks/:id/publish?format=json
func (h *CheckHandler) Publish(c *gin.Context) {
	runID, ok := parseRunID(c)
	if !ok {
		return
	}
	format, err := export.ParseFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	result, err := h.exportService.Publish(c.Request.Context(), runID, format)
	if err != nil {
		HandleError(c, err)
		return
	}

	RespondCreated(c, result)
}

// Formats handles GET /api/v1/formats
func (h *CheckHandler) Formats(c *gin.Context) {
	RespondOK(c, h.batchService.Formats())
}

func parseRunID(c *gin.Context) (uuid.UUID, bool) {
	runID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_ID", "invalid check run ID")
		return uuid.Nil, false
	}
	return runID, true
}
