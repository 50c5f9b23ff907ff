package handlers

import (
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-feed-service/internal/application"
	"github.com/oksasatya/go-feed-service/internal/domain/repository"
	"github.com/oksasatya/go-feed-service/internal/interface/middleware"
	"github.com/oksasatya/go-feed-service/pkg/response"
)

// FeedHandler exposes the REST surface of the post lifecycle. Image bytes are
// uploaded to the blob store at this edge; the service layer only ever sees
// the stored object path.
type FeedHandler struct {
	Svc    *application.PostService
	Blobs  repository.BlobStore
	Logger *logrus.Logger
}

func NewFeedHandler(svc *application.PostService, blobs repository.BlobStore, logger *logrus.Logger) *FeedHandler {
	return &FeedHandler{Svc: svc, Blobs: blobs, Logger: logger}
}

// GetPosts GET /api/feed/posts?page=N
func (h *FeedHandler) GetPosts(c *gin.Context) {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil {
		// absent or non-numeric means the first page
		page = 1
	}
	posts, total, err := h.Svc.List(c.Request.Context(), page)
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"posts":      posts,
		"totalItems": total,
	}, "posts fetched", gin.H{"page": page})
}

// CreatePost POST /api/feed/post (multipart: title, content, image)
func (h *FeedHandler) CreatePost(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")

	file, err := c.FormFile("image")

	// Check fields before touching the blob store so a rejected request
	// leaves nothing behind.
	if verr := application.ValidatePost(title, content, "", false); verr != nil {
		writeError(c, verr)
		return
	}
	if err != nil {
		writeError(c, &application.ValidationError{Violations: []application.Violation{
			{Field: "image", Message: "is required"},
		}})
		return
	}

	objectPath, err := h.storeImage(c, file)
	if err != nil {
		h.Logger.WithError(err).Error("image upload failed")
		response.Error(c, http.StatusInternalServerError, "image upload failed", nil)
		return
	}

	view, err := h.Svc.Create(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), application.PostInput{
		Title:    title,
		Content:  content,
		ImageURL: objectPath,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{
		"post":    view,
		"creator": view.Creator,
	}, "post created", nil)
}

// GetPost GET /api/feed/post/:id
func (h *FeedHandler) GetPost(c *gin.Context) {
	view, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": view}, "post fetched", nil)
}

// UpdatePost PUT /api/feed/post/:id (multipart: title, content, image file or
// "image" field holding the currently stored path)
func (h *FeedHandler) UpdatePost(c *gin.Context) {
	title := c.PostForm("title")
	content := c.PostForm("content")
	imageURL := c.PostForm("image")

	if file, err := c.FormFile("image"); err == nil {
		if verr := application.ValidatePost(title, content, "", false); verr != nil {
			writeError(c, verr)
			return
		}
		stored, uerr := h.storeImage(c, file)
		if uerr != nil {
			h.Logger.WithError(uerr).Error("image upload failed")
			response.Error(c, http.StatusInternalServerError, "image upload failed", nil)
			return
		}
		imageURL = stored
	}

	view, err := h.Svc.Update(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"), application.PostInput{
		Title:    title,
		Content:  content,
		ImageURL: imageURL,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": view}, "post updated", nil)
}

// DeletePost DELETE /api/feed/post/:id
func (h *FeedHandler) DeletePost(c *gin.Context) {
	view, err := h.Svc.Delete(c.Request.Context(), c.GetString(middleware.CtxUserIDKey), c.Param("id"))
	if err != nil {
		writeError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"post": view}, "post deleted", nil)
}

func (h *FeedHandler) storeImage(c *gin.Context, file *multipart.FileHeader) (string, error) {
	src, err := file.Open()
	if err != nil {
		return "", err
	}
	defer func() { _ = src.Close() }()

	ext := strings.ToLower(filepath.Ext(file.Filename))
	objectPath := "images/" + uuid.NewString() + ext
	contentType := file.Header.Get("Content-Type")
	return h.Blobs.Put(c.Request.Context(), objectPath, contentType, src)
}
