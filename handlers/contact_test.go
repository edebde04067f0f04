package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/folio-studio/portfolio-api/internal/mail"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type captureSender struct {
	msgs []mail.Message
	err  error
}

func (s *captureSender) Send(ctx context.Context, msg mail.Message) error {
	if s.err != nil {
		return s.err
	}
	s.msgs = append(s.msgs, msg)
	return nil
}

type rejectingAssets struct{}

func (rejectingAssets) Upload(ctx context.Context, folder string, up storage.Upload) (storage.Asset, error) {
	return storage.Asset{}, fmt.Errorf("%w: invalid signature", storage.ErrUpload)
}

func (rejectingAssets) Delete(ctx context.Context, publicID string) error { return nil }

func contactRouter(assets storage.AssetStore, sender mail.Sender) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewContactHandler(assets, sender, 1<<20).Register(r.Group("/api"))
	return r
}

func contactForm(t *testing.T, fields map[string]string, withImage bool) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	if withImage {
		fw, err := mw.CreateFormFile("image", "shot.png")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("\x89PNG"))
	}
	require.NoError(t, mw.Close())
	req := httptest.NewRequest(http.MethodPost, "/api/contact", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return req
}

var validContact = map[string]string{"name": "Ann", "email": "ann@example.com", "message": "Hello <there>"}

func TestContactWithImage(t *testing.T) {
	assets := storage.NewMemoryStore("http://assets.test")
	sender := &captureSender{}
	r := contactRouter(assets, sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, contactForm(t, validContact, true))
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Your message has been sent", body["message"])
	assert.True(t, strings.HasPrefix(body["imageLink"], "http://assets.test/"+ContactFolder+"/"))

	require.Len(t, sender.msgs, 1)
	assert.Equal(t, "New message from Ann", sender.msgs[0].Subject)
	assert.Contains(t, sender.msgs[0].HTML, "Hello &lt;there&gt;")
	assert.Contains(t, sender.msgs[0].HTML, body["imageLink"])
}

func TestContactWithoutImage(t *testing.T) {
	sender := &captureSender{}
	r := contactRouter(storage.NewMemoryStore("http://assets.test"), sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, contactForm(t, validContact, false))
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Your message has been sent","imageLink":""}`, w.Body.String())
}

func TestContactValidation(t *testing.T) {
	sender := &captureSender{}
	r := contactRouter(storage.NewMemoryStore("http://assets.test"), sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, contactForm(t, map[string]string{"name": "Ann"}, false))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, sender.msgs)
}

func TestContactUploadFailure(t *testing.T) {
	sender := &captureSender{}
	r := contactRouter(rejectingAssets{}, sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, contactForm(t, validContact, true))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to upload image", body["message"])
	assert.Empty(t, sender.msgs)
}

func TestContactMailFailure(t *testing.T) {
	sender := &captureSender{err: errors.New("dial tcp: connection refused")}
	r := contactRouter(storage.NewMemoryStore("http://assets.test"), sender)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, contactForm(t, validContact, false))
	require.Equal(t, http.StatusInternalServerError, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "Failed to send message", body["message"])
}
