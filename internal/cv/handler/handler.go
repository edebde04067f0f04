package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/cv"
	"github.com/folio-studio/portfolio-api/internal/cv/service"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// PDFFilename is the suggested name of the downloaded résumé.
const PDFFilename = "resume.pdf"

// RegisterCVRoutes mounts the CV endpoints on r. protect guards the admin routes.
func RegisterCVRoutes(r gin.IRouter, svc *service.Service, protect gin.HandlerFunc, maxUpload int64) {
	g := r.Group("/api/cv")

	g.GET("", protect, func(c *gin.Context) {
		doc, err := svc.Get(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	g.POST("", protect, func(c *gin.Context) {
		if maxUpload > 0 {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUpload)
		}
		sub, pic, closePic, err := readSubmission(c)
		if err != nil {
			logger.Debugf("cv submission rejected: %v", err)
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
		defer closePic()

		doc, err := svc.Upsert(c.Request.Context(), sub, pic)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, doc)
	})

	g.GET("/download", func(c *gin.Context) {
		pdf, err := svc.Download(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.Header("Content-Disposition", `attachment; filename="`+PDFFilename+`"`)
		c.Data(http.StatusOK, "application/pdf", pdf)
	})

	g.GET("/preview", func(c *gin.Context) {
		html, err := svc.Preview(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(html))
	})

	g.GET("/renders", protect, func(c *gin.Context) {
		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "20"), 10, 64)
		recs, err := svc.RecentRenders(c.Request.Context(), limit)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, recs)
	})
}

var listFields = []string{"experiences", "education", "projects", "certifications", "skills", "languages", "interests", "customSections"}

// readSubmission accepts JSON bodies with structured values and form bodies
// (multipart or urlencoded) with JSON-encoded string fields.
func readSubmission(c *gin.Context) (cv.Submission, *storage.Upload, func(), error) {
	noop := func() {}
	var sub cv.Submission

	if strings.HasPrefix(c.ContentType(), "application/json") {
		if c.Request.ContentLength == 0 {
			return sub, nil, noop, nil
		}
		if err := c.ShouldBindJSON(&sub); err != nil {
			return sub, nil, noop, fmt.Errorf("decode json body: %w", err)
		}
		return sub, nil, noop, nil
	}

	form := map[string]interface{}{}
	for _, name := range append([]string{"personal", "theme"}, listFields...) {
		if v, ok := c.GetPostForm(name); ok {
			form[name] = v
		}
	}
	sub = cv.Submission{
		Personal:       form["personal"],
		Experiences:    form["experiences"],
		Education:      form["education"],
		Projects:       form["projects"],
		Certifications: form["certifications"],
		Skills:         form["skills"],
		Languages:      form["languages"],
		Interests:      form["interests"],
		CustomSections: form["customSections"],
		Theme:          form["theme"],
	}

	fh, err := c.FormFile("profilePic")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return sub, nil, noop, nil
		}
		return sub, nil, noop, fmt.Errorf("read profilePic: %w", err)
	}
	up, closer, err := storage.OpenFileHeader(fh)
	if err != nil {
		return sub, nil, noop, err
	}
	return sub, &up, func() { _ = closer.Close() }, nil
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": "CV not found"})
	case errors.Is(err, service.ErrUpload):
		logger.Warnf("cv upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	case errors.Is(err, service.ErrRender):
		logger.Errorf("cv render failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to generate PDF"})
	default:
		logger.Errorf("cv request failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
