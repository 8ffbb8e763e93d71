package internal

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rm-hull/reeded-glass/internal/glass"
	"github.com/rm-hull/reeded-glass/internal/models/api"
	"github.com/rm-hull/reeded-glass/internal/png"
)

const (
	defaultPreviewWidth  = 800
	defaultPreviewHeight = 600
)

type handlers struct {
	store          *SessionStore
	maxUploadBytes int64
	now            func() time.Time
}

// RegisterRoutes mounts the session and one-shot render endpoints under /v1.
func RegisterRoutes(r gin.IRouter, store *SessionStore, maxUploadBytes int64) {
	h := &handlers{store: store, maxUploadBytes: maxUploadBytes, now: time.Now}

	v1 := r.Group("/v1")
	v1.POST("/render", h.render)

	sessions := v1.Group("/sessions")
	sessions.POST("", h.createSession)
	sessions.GET("/:id", h.withSession(h.getSession))
	sessions.PUT("/:id/params", h.withSession(h.updateParams))
	sessions.GET("/:id/preview", h.withSession(h.preview))
	sessions.GET("/:id/export", h.withSession(h.export))
	sessions.DELETE("/:id", h.deleteSession)
}

func abortWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	if errors.Is(err, glass.ErrInvalidParameter) {
		status = http.StatusBadRequest
	} else {
		log.Printf("Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	}
	c.AbortWithStatusJSON(status, api.ErrorResponse{Error: err.Error()})
}

func badRequest(c *gin.Context, format string, args ...any) {
	c.AbortWithStatusJSON(http.StatusBadRequest, api.ErrorResponse{Error: fmt.Sprintf(format, args...)})
}

func (h *handlers) withSession(next func(*gin.Context, *Session)) gin.HandlerFunc {
	return func(c *gin.Context) {
		s, ok := h.store.Get(c.Param("id"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Error: "session not found"})
			return
		}
		next(c, s)
	}
}

// uploadedImage decodes the multipart "image" field.
func (h *handlers) uploadedImage(c *gin.Context) (*png.Image, bool) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	header, err := c.FormFile("image")
	if err != nil {
		badRequest(c, "missing image upload: %v", err)
		return nil, false
	}
	f, err := header.Open()
	if err != nil {
		badRequest(c, "unreadable image upload: %v", err)
		return nil, false
	}
	defer func() {
		_ = f.Close()
	}()

	img, err := png.NewImageFromReader(f)
	if err != nil {
		badRequest(c, "%v", err)
		return nil, false
	}
	return img, true
}

func writePNG(c *gin.Context, img *image.NRGBA, filename string) {
	var buf bytes.Buffer
	if err := (&png.Image{Bitmap: img}).Write(&buf); err != nil {
		abortWithError(c, fmt.Errorf("failed to encode PNG: %w", err))
		return
	}
	if filename != "" {
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	}
	c.Data(http.StatusOK, "image/png", buf.Bytes())
}

func sessionResponse(s *Session) api.SessionResponse {
	_, params, gen := s.Result()
	b := s.Bounds()
	return api.SessionResponse{
		Id:         s.ID,
		Width:      b.Dx(),
		Height:     b.Dy(),
		Params:     params,
		Generation: gen,
	}
}

func (h *handlers) render(c *gin.Context) {
	params := glass.DefaultParams()
	if err := c.ShouldBindQuery(&params); err != nil {
		badRequest(c, "invalid parameters: %v", err)
		return
	}
	if err := params.Validate(); err != nil {
		abortWithError(c, err)
		return
	}

	img, ok := h.uploadedImage(c)
	if !ok {
		return
	}

	out, err := glass.RunPipeline(img.Bitmap, params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	writePNG(c, out, png.ExportName(h.now()))
}

func (h *handlers) createSession(c *gin.Context) {
	img, ok := h.uploadedImage(c)
	if !ok {
		return
	}

	params := glass.DefaultParams()
	if err := c.ShouldBind(&params); err != nil {
		badRequest(c, "invalid parameters: %v", err)
		return
	}

	s, err := h.store.Create(img.Bitmap, params)
	if err != nil {
		abortWithError(c, err)
		return
	}
	log.Printf("Created session %s (%dx%d %s)", s.ID, s.Bounds().Dx(), s.Bounds().Dy(), img.Format)
	c.JSON(http.StatusCreated, sessionResponse(s))
}

func (h *handlers) getSession(c *gin.Context, s *Session) {
	c.JSON(http.StatusOK, sessionResponse(s))
}

func (h *handlers) updateParams(c *gin.Context, s *Session) {
	_, params, _ := s.Result()
	if err := c.ShouldBindJSON(&params); err != nil {
		badRequest(c, "invalid parameters: %v", err)
		return
	}
	if _, _, err := s.Apply(params); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, sessionResponse(s))
}

func queryInt(c *gin.Context, key string, fallback int) (int, error) {
	v, ok := c.GetQuery(key)
	if !ok {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", glass.ErrInvalidParameter, key, v)
	}
	return n, nil
}

func (h *handlers) preview(c *gin.Context, s *Session) {
	width, err := queryInt(c, "width", defaultPreviewWidth)
	if err != nil {
		abortWithError(c, err)
		return
	}
	height, err := queryInt(c, "height", defaultPreviewHeight)
	if err != nil {
		abortWithError(c, err)
		return
	}

	result, _, _ := s.Result()
	scaled, err := glass.Preview(result, width, height)
	if err != nil {
		abortWithError(c, err)
		return
	}
	writePNG(c, scaled, "")
}

func (h *handlers) export(c *gin.Context, s *Session) {
	result, _, _ := s.Result()
	writePNG(c, result, png.ExportName(h.now()))
}

func (h *handlers) deleteSession(c *gin.Context) {
	if !h.store.Delete(c.Param("id")) {
		c.AbortWithStatusJSON(http.StatusNotFound, api.ErrorResponse{Error: "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}
