package httpapi

import (
	"fmt"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/custodia-labs/teampilot/internal/core/domain"
)

// pdfContentType is the only MIME type accepted for document uploads.
const pdfContentType = "application/pdf"

func (s *Server) handleCreateDocument(c *gin.Context) {
	name, file, err := s.documentUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	doc, err := s.ports.Documents.Create(c.Request.Context(), name, file)
	if err != nil {
		respondError(c, err)
		return
	}

	s.ports.Documents.ProcessAsync(doc.ID)
	c.JSON(http.StatusAccepted, newAcceptedResponse(doc))
}

func (s *Server) handleUpdateDocument(c *gin.Context) {
	name, file, err := s.documentUpload(c)
	if err != nil {
		respondError(c, err)
		return
	}
	defer file.Close() //nolint:errcheck // read-only handle

	doc, err := s.ports.Documents.Update(c.Request.Context(), c.Param("id"), name, file)
	if err != nil {
		respondError(c, err)
		return
	}

	s.ports.Documents.ProcessAsync(doc.ID)
	c.JSON(http.StatusAccepted, newAcceptedResponse(doc))
}

func (s *Server) handleListDocuments(c *gin.Context) {
	docs, err := s.ports.Documents.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	responses := make([]documentResponse, 0, len(docs))
	for i := range docs {
		responses = append(responses, newDocumentResponse(&docs[i]))
	}

	c.JSON(http.StatusOK, responses)
}

func (s *Server) handleGetDocument(c *gin.Context) {
	doc, err := s.ports.Documents.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, newDocumentResponse(doc))
}

func (s *Server) handleDeleteDocument(c *gin.Context) {
	doc, err := s.ports.Documents.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	message := fmt.Sprintf("Document %s (%s) deleted.", doc.ID, doc.Name)
	c.JSON(http.StatusOK, messageResponse{Message: message})
}

// documentUpload extracts the multipart name and file fields, rejecting
// uploads whose declared type or size is unacceptable before any bytes
// are streamed to disk.
func (s *Server) documentUpload(c *gin.Context) (string, multipart.File, error) {
	name := c.PostForm("name")

	header, err := c.FormFile("file")
	if err != nil {
		return "", nil, fmt.Errorf("file field is required: %w", domain.ErrInvalidInput)
	}

	if contentType := header.Header.Get("Content-Type"); contentType != pdfContentType {
		return "", nil, fmt.Errorf("%s: %w", contentType, domain.ErrUnsupportedFileType)
	}

	if header.Size > s.maxDocSize {
		return "", nil, fmt.Errorf("%d bytes exceeds limit of %d: %w", header.Size, s.maxDocSize, domain.ErrFileTooLarge)
	}

	file, err := header.Open()
	if err != nil {
		return "", nil, fmt.Errorf("opening upload: %w", err)
	}

	return name, file, nil
}
