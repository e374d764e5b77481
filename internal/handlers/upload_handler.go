package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"cafe-pos/internal/audit"
	"cafe-pos/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

var imageExts = map[string]bool{".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true, ".svg": true}

type UploadHandler struct {
	Dir   string
	Audit audit.Recorder
}

// --- UPLOAD: Handle Image Files ---
func (h *UploadHandler) Upload(c *gin.Context) {
	// 1. Get the file from the request ("image" from the POS, "file" from older clients)
	file, err := c.FormFile("image")
	if err != nil {
		file, err = c.FormFile("file")
	}
	if err != nil {
		badRequest(c, "No file uploaded")
		return
	}

	// 2. Only allow images
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !imageExts[ext] {
		badRequest(c, "Only image files are allowed")
		return
	}

	// 3. Generate a safe unique filename; the client's name never reaches the disk
	filename := uuid.NewString() + ext
	if err := os.MkdirAll(h.Dir, 0o755); err != nil {
		fail(c, err)
		return
	}

	// 4. Save the file to the upload folder
	if err := c.SaveUploadedFile(file, filepath.Join(h.Dir, filename)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save file"})
		return
	}

	h.Audit.Record(c.Request.Context(), middleware.CurrentUser(c), "File Upload", "Uploaded image: "+filename)
	c.JSON(http.StatusOK, gin.H{"url": "/uploads/" + filename})
}
