package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/portfolio"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

type categoryBody struct {
	Name string `json:"name" form:"name"`
}

type workBody struct {
	Title       string `json:"title" form:"title"`
	Description string `json:"description" form:"description"`
	Category    string `json:"category" form:"category"`
}

type skillBody struct {
	Name     string `json:"name" form:"name"`
	Level    *int   `json:"level" form:"level"`
	Category string `json:"category" form:"category"`
}

type amountBody struct {
	Amount int `json:"amount" form:"amount"`
}

type reviewBody struct {
	Name    string `json:"name" form:"name"`
	Message string `json:"message" form:"message"`
}

// RegisterRoutes mounts categories, works, skills and reviews on r.
// Reads are public except a single skill; mutations go through protect.
func RegisterRoutes(r gin.IRouter, svc *portfolio.Service, protect gin.HandlerFunc, maxUpload int64) {
	h := &handler{svc: svc, maxUpload: maxUpload}

	cat := r.Group("/api/categories")
	cat.GET("", h.listCategories)
	cat.POST("", protect, h.createCategory)
	cat.PUT("/:id", protect, h.updateCategory)
	cat.DELETE("/:id", protect, h.deleteCategory)

	works := r.Group("/api/works")
	works.GET("", h.listWorks)
	works.GET("/:id", h.getWork)
	works.POST("", protect, h.createWork)
	works.PUT("/:id", protect, h.updateWork)
	works.DELETE("/:id", protect, h.deleteWork)

	skills := r.Group("/api/skills")
	skills.GET("", h.listSkills)
	skills.GET("/:id", protect, h.getSkill)
	skills.POST("", protect, h.createSkill)
	skills.PUT("/:id", protect, h.updateSkill)
	skills.PATCH("/:id/increase", protect, h.adjustSkill(1))
	skills.PATCH("/:id/decrease", protect, h.adjustSkill(-1))
	skills.DELETE("/:id", protect, h.deleteSkill)

	reviews := r.Group("/api/reviews")
	reviews.GET("", h.listReviews)
	reviews.POST("", protect, h.createReview)
	reviews.PUT("/:id", protect, h.updateReview)
	reviews.DELETE("/:id", protect, h.deleteReview)
}

type handler struct {
	svc       *portfolio.Service
	maxUpload int64
}

func (h *handler) listCategories(c *gin.Context) {
	list, err := h.svc.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, "Category", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) createCategory(c *gin.Context) {
	var body categoryBody
	if !bindBody(c, &body) {
		return
	}
	cat, err := h.svc.CreateCategory(c.Request.Context(), body.Name)
	if err != nil {
		writeError(c, "Category", err)
		return
	}
	c.JSON(http.StatusCreated, cat)
}

func (h *handler) updateCategory(c *gin.Context) {
	var body categoryBody
	if !bindBody(c, &body) {
		return
	}
	cat, err := h.svc.UpdateCategory(c.Request.Context(), c.Param("id"), body.Name)
	if err != nil {
		writeError(c, "Category", err)
		return
	}
	c.JSON(http.StatusOK, cat)
}

func (h *handler) deleteCategory(c *gin.Context) {
	if err := h.svc.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Category deleted successfully"})
}

func (h *handler) listWorks(c *gin.Context) {
	list, err := h.svc.ListWorks(c.Request.Context())
	if err != nil {
		writeError(c, "Work", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getWork(c *gin.Context) {
	w, err := h.svc.GetWork(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Work", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handler) createWork(c *gin.Context) {
	h.limitBody(c)
	var body workBody
	if !bindBody(c, &body) {
		return
	}
	img, closeImg, ok := formFile(c, "file")
	if !ok {
		return
	}
	defer closeImg()

	w, err := h.svc.CreateWork(c.Request.Context(), portfolio.WorkInput{
		Title: body.Title, Description: body.Description, CategoryID: body.Category,
	}, img)
	if err != nil {
		writeError(c, "Work", err)
		return
	}
	c.JSON(http.StatusCreated, w)
}

func (h *handler) updateWork(c *gin.Context) {
	h.limitBody(c)
	var body workBody
	if !bindBody(c, &body) {
		return
	}
	img, closeImg, ok := formFile(c, "file")
	if !ok {
		return
	}
	defer closeImg()

	w, err := h.svc.UpdateWork(c.Request.Context(), c.Param("id"), portfolio.WorkInput{
		Title: body.Title, Description: body.Description, CategoryID: body.Category,
	}, img)
	if err != nil {
		writeError(c, "Work", err)
		return
	}
	c.JSON(http.StatusOK, w)
}

func (h *handler) deleteWork(c *gin.Context) {
	if err := h.svc.DeleteWork(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Work", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Work deleted successfully"})
}

func (h *handler) listSkills(c *gin.Context) {
	list, err := h.svc.ListSkills(c.Request.Context())
	if err != nil {
		writeError(c, "Skill", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) getSkill(c *gin.Context) {
	sk, err := h.svc.GetSkill(c.Request.Context(), c.Param("id"))
	if err != nil {
		writeError(c, "Skill", err)
		return
	}
	c.JSON(http.StatusOK, sk)
}

func (h *handler) createSkill(c *gin.Context) {
	var body skillBody
	if !bindBody(c, &body) {
		return
	}
	sk, err := h.svc.CreateSkill(c.Request.Context(), portfolio.SkillInput{
		Name: body.Name, Level: body.Level, CategoryID: body.Category,
	})
	if err != nil {
		writeError(c, "Skill", err)
		return
	}
	c.JSON(http.StatusCreated, sk)
}

func (h *handler) updateSkill(c *gin.Context) {
	var body skillBody
	if !bindBody(c, &body) {
		return
	}
	sk, err := h.svc.UpdateSkill(c.Request.Context(), c.Param("id"), portfolio.SkillInput{
		Name: body.Name, Level: body.Level, CategoryID: body.Category,
	})
	if err != nil {
		writeError(c, "Skill", err)
		return
	}
	c.JSON(http.StatusOK, sk)
}

// maxSkillStep bounds a single adjustment; a larger step saturates the level anyway.
const maxSkillStep = 100

// adjustSkill moves the level by amount (default 1) in direction sign.
func (h *handler) adjustSkill(sign int) gin.HandlerFunc {
	return func(c *gin.Context) {
		var body amountBody
		if !bindBody(c, &body) {
			return
		}
		amount := body.Amount
		if amount <= 0 {
			amount = 1
		}
		if amount > maxSkillStep {
			amount = maxSkillStep
		}
		sk, err := h.svc.AdjustSkill(c.Request.Context(), c.Param("id"), sign*amount)
		if err != nil {
			writeError(c, "Skill", err)
			return
		}
		c.JSON(http.StatusOK, sk)
	}
}

func (h *handler) deleteSkill(c *gin.Context) {
	if err := h.svc.DeleteSkill(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Skill", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Skill deleted successfully"})
}

func (h *handler) listReviews(c *gin.Context) {
	list, err := h.svc.ListReviews(c.Request.Context())
	if err != nil {
		writeError(c, "Review", err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *handler) createReview(c *gin.Context) {
	h.limitBody(c)
	var body reviewBody
	if !bindBody(c, &body) {
		return
	}
	img, closeImg, ok := formFile(c, "image")
	if !ok {
		return
	}
	defer closeImg()

	r, err := h.svc.CreateReview(c.Request.Context(), portfolio.ReviewInput{Name: body.Name, Message: body.Message}, img)
	if err != nil {
		writeError(c, "Review", err)
		return
	}
	c.JSON(http.StatusCreated, r)
}

func (h *handler) updateReview(c *gin.Context) {
	h.limitBody(c)
	var body reviewBody
	if !bindBody(c, &body) {
		return
	}
	img, closeImg, ok := formFile(c, "image")
	if !ok {
		return
	}
	defer closeImg()

	r, err := h.svc.UpdateReview(c.Request.Context(), c.Param("id"), portfolio.ReviewInput{Name: body.Name, Message: body.Message}, img)
	if err != nil {
		writeError(c, "Review", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) deleteReview(c *gin.Context) {
	if err := h.svc.DeleteReview(c.Request.Context(), c.Param("id")); err != nil {
		writeError(c, "Review", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Review deleted successfully"})
}

func (h *handler) limitBody(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
}

// bindBody decodes JSON or form bodies. An empty body leaves dst zeroed.
func bindBody(c *gin.Context, dst interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	if err := c.ShouldBind(dst); err != nil {
		logger.Debugf("portfolio body rejected: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return false
	}
	return true
}

// formFile returns the named multipart file, or nil when the request carries none.
func formFile(c *gin.Context, name string) (*storage.Upload, func(), bool) {
	noop := func() {}
	if !strings.HasPrefix(c.ContentType(), "multipart/") {
		return nil, noop, true
	}
	fh, err := c.FormFile(name)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return nil, noop, true
		}
		logger.Debugf("read %s: %v", name, err)
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
		return nil, noop, false
	}
	up, closer, err := storage.OpenFileHeader(fh)
	if err != nil {
		writeError(c, "", err)
		return nil, noop, false
	}
	return &up, func() { _ = closer.Close() }, true
}

func writeError(c *gin.Context, kind string, err error) {
	var verr *portfolio.ValidationError
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"message": verr.Msg})
	case errors.Is(err, portfolio.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"message": fmt.Sprintf("%s not found", kind)})
	case errors.Is(err, storage.ErrUpload):
		logger.Warnf("portfolio upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
	default:
		logger.Errorf("portfolio %s request failed: %v", strings.ToLower(kind), err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Server error"})
	}
}
