package server

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/habits/internal/csvfile"
	"github.com/mesh-intelligence/habits/internal/metrics"
)

// importField is the multipart form field holding the uploaded CSV.
const importField = "file"

func (s *Server) exportCSV(c *gin.Context) {
	records, err := s.store.ExportRecords(c.Request.Context())
	if err != nil {
		metrics.RecordTransfer("export", err)
		s.respondError(c, "export", err)
		return
	}

	var buf bytes.Buffer
	if err := csvfile.Write(&buf, records); err != nil {
		metrics.RecordTransfer("export", err)
		s.respondError(c, "export", err)
		return
	}
	metrics.RecordTransfer("export", nil)

	filename := csvfile.ExportFilename(s.now())
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, csvfile.ContentType, buf.Bytes())
}

// importCSV replaces the whole dataset with the uploaded file. Every
// failure after the upload checks is reported with its message.
func (s *Server) importCSV(c *gin.Context) {
	header, err := c.FormFile(importField)
	if errors.Is(err, http.ErrMissingFile) {
		// A part sent without a filename is parsed as a plain form value.
		if _, ok := c.GetPostForm(importField); ok {
			badRequest(c, msgNoFileSelected)
			return
		}
		badRequest(c, msgNoFileUploaded)
		return
	}
	if errors.Is(err, http.ErrNotMultipart) {
		badRequest(c, msgNoFileUploaded)
		return
	}
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	if header.Filename == "" {
		badRequest(c, msgNoFileSelected)
		return
	}

	f, err := header.Open()
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	defer f.Close()

	records, err := csvfile.Read(f)
	if err != nil {
		metrics.RecordTransfer("import", err)
		badRequest(c, err.Error())
		return
	}

	summary, err := s.store.ReplaceAll(c.Request.Context(), records)
	metrics.RecordTransfer("import", err)
	if err != nil {
		s.logger.Warn("import rejected",
			zap.String("filename", header.Filename),
			zap.Error(err),
			zap.String(requestIDKey, c.GetString(requestIDKey)),
		)
		badRequest(c, err.Error())
		return
	}

	s.logger.Info("import complete",
		zap.String("filename", header.Filename),
		zap.Int("habits", summary.Habits),
		zap.Int("entries", summary.Entries),
	)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (s *Server) cleanupDuplicates(c *gin.Context) {
	deleted, err := s.store.RemoveDuplicates(c.Request.Context())
	if err != nil {
		s.respondError(c, "cleanup duplicates", err)
		return
	}
	metrics.RecordDuplicatesRemoved(deleted)
	c.JSON(http.StatusOK, gin.H{"success": true, "deleted_count": deleted})
}
