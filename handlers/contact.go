package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/folio-studio/portfolio-api/internal/mail"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/gin-gonic/gin"
)

// ContactFolder is the asset host folder for images attached to contact messages.
const ContactFolder = "user_contacts"

type ContactRequest struct {
	Name    string `form:"name" json:"name" binding:"required"`
	Email   string `form:"email" json:"email" binding:"required,email"`
	Message string `form:"message" json:"message" binding:"required"`
}

// ContactHandler forwards contact form submissions to the site owner.
type ContactHandler struct {
	assets    storage.AssetStore
	sender    mail.Sender
	maxUpload int64
}

func NewContactHandler(assets storage.AssetStore, sender mail.Sender, maxUpload int64) *ContactHandler {
	return &ContactHandler{assets: assets, sender: sender, maxUpload: maxUpload}
}

func (h *ContactHandler) Register(rg *gin.RouterGroup) {
	rg.POST("/contact", h.Send)
}

func (h *ContactHandler) Send(c *gin.Context) {
	if h.maxUpload > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)
	}
	var req ContactRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Name, email and message are required"})
		return
	}

	imageLink := ""
	if strings.HasPrefix(c.ContentType(), "multipart/") {
		fh, err := c.FormFile("image")
		switch {
		case err == nil:
			up, closer, err := storage.OpenFileHeader(fh)
			if err == nil {
				var asset storage.Asset
				asset, err = h.assets.Upload(c.Request.Context(), ContactFolder, up)
				_ = closer.Close()
				imageLink = asset.URL
			}
			if err != nil {
				logger.Errorf("contact image upload: %v", err)
				c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to upload image", "error": err.Error()})
				return
			}
		case !errors.Is(err, http.ErrMissingFile):
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid request body"})
			return
		}
	}

	msg := mail.ContactMessage(mail.Contact{Name: req.Name, Email: req.Email, Message: req.Message, ImageLink: imageLink})
	if err := h.sender.Send(c.Request.Context(), msg); err != nil {
		logger.Errorf("contact mail: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Failed to send message", "error": err.Error()})
		return
	}
	logger.Infof("contact message from %s forwarded", req.Email)
	c.JSON(http.StatusOK, gin.H{"message": "Your message has been sent", "imageLink": imageLink})
}
