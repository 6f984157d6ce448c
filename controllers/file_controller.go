package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ShehanaHewage/TheCloset/services"
)

// FileController handles image upload and retrieval.
type FileController struct {
	files services.FileService
}

// NewFileController creates a FileController.
func NewFileController(files services.FileService) *FileController {
	return &FileController{files: files}
}

// Upload handles POST /files/upload (admin). Expects a multipart form with the
// file under the "file" field.
func (fc *FileController) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		fail(c, http.StatusBadRequest, "File is required")
		return
	}

	src, err := header.Open()
	if err != nil {
		fail(c, http.StatusInternalServerError, "Failed to store file")
		return
	}
	defer src.Close()

	upload := &services.FileUpload{
		OriginalName: header.Filename,
		Mimetype:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Content:      src,
	}

	stored, svcErr := fc.files.Store(c.Request.Context(), upload)
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.JSON(http.StatusCreated, stored)
}

// Get handles GET /files/:filename, serving the stored image bytes.
func (fc *FileController) Get(c *gin.Context) {
	path, svcErr := fc.files.Resolve(c.Param("filename"))
	if svcErr != nil {
		svcFail(c, svcErr)
		return
	}

	c.File(path)
}
