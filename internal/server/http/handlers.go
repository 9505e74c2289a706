package http

import (
	"bytes"
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trippix/attractions/internal/attractions"
	"github.com/trippix/attractions/internal/models"
	"github.com/trippix/attractions/internal/query"
	"github.com/trippix/attractions/internal/upload"
)

// handleUpload accepts a multipart batch under the "images" field. Files are
// buffered and handed to the processor in the background; the client follows
// progress through the uploads endpoint.
func (s *Server) handleUpload(c *gin.Context) {
	attractionID := c.Param("id")

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	headers := form.File["images"]
	if len(headers) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no files in \"images\" field"})
		return
	}

	// The request body is gone once the handler returns, so each part is
	// buffered before processing moves off-request.
	files := make([]upload.File, 0, len(headers))
	for _, h := range headers {
		part, err := h.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		buf := &bytes.Buffer{}
		_, err = io.Copy(buf, part)
		part.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		files = append(files, upload.File{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Size:        h.Size,
			Body:        bytes.NewReader(buf.Bytes()),
		})
	}

	go s.orch.Process(context.WithoutCancel(c.Request.Context()), attractionID, files)

	c.JSON(http.StatusAccepted, gin.H{"accepted": len(files)})
}

// handleUploadTasks returns the live progress map.
func (s *Server) handleUploadTasks(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"tasks": s.orch.Tasks()})
}

// handleListImages returns the attraction's primary image and gallery in one
// response. Store failures degrade to an empty gallery with the error noted;
// the status stays 200 so the UI can always render.
func (s *Server) handleListImages(c *gin.Context) {
	q := query.NewImageQuery(s.images, s.log)
	r := q.SetAttraction(c.Request.Context(), c.Param("id"))

	body := gin.H{
		"attraction_id": r.AttractionID,
		"primary":       r.Primary,
		"images":        r.Images,
	}
	if r.Err != nil {
		body["error"] = r.Err.Error()
	}
	c.JSON(http.StatusOK, body)
}

type setPrimaryRequest struct {
	AttractionID string `json:"attraction_id" binding:"required"`
}

func (s *Server) handleSetPrimary(c *gin.Context) {
	var req setPrimaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := s.images.SetPrimary(c.Request.Context(), c.Param("id"), req.AttractionID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleDeleteImage removes the metadata row and the backing blob. The
// storage key rides along as a query parameter so the blob can be addressed
// without a prior lookup.
func (s *Server) handleDeleteImage(c *gin.Context) {
	if err := s.images.Delete(c.Request.Context(), c.Param("id"), c.Query("storage_key")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// handleStockImage resolves curated fallback imagery for cards without any
// uploaded pictures: name match first, location background second.
func (s *Server) handleStockImage(c *gin.Context) {
	a := models.Attraction{
		ID:       c.Query("id"),
		Name:     c.Query("name"),
		Location: c.Query("location"),
	}
	c.JSON(http.StatusOK, gin.H{"url": attractions.FallbackFor(a)})
}
