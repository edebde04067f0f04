package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/folio-studio/portfolio-api/internal/cv"
	"github.com/folio-studio/portfolio-api/internal/cv/render"
	"github.com/folio-studio/portfolio-api/internal/cv/repository"
	"github.com/folio-studio/portfolio-api/internal/renders"
	"github.com/folio-studio/portfolio-api/internal/storage"
	"github.com/folio-studio/portfolio-api/pkg/logger"
	"github.com/folio-studio/portfolio-api/pkg/metrics"
)

var (
	ErrNotFound = errors.New("CV not found")
	ErrUpload   = storage.ErrUpload
	ErrRender   = render.ErrRender
)

// ProfileFolder is the asset host folder for profile pictures.
const ProfileFolder = "cv_profiles"

// cleanupTimeout bounds best-effort asset deletions, which run detached from the request.
const cleanupTimeout = 10 * time.Second

// RenderLog records render metadata.
type RenderLog interface {
	Save(ctx context.Context, rec *renders.Record) error
	Recent(ctx context.Context, limit int64) ([]renders.Record, error)
}

// Service implements the CV operations: fetch, upsert and render.
type Service struct {
	repo   repository.Repository
	assets storage.AssetStore
	pdf    render.PDFRenderer
	log    RenderLog
	key    string
	now    func() time.Time
}

func New(repo repository.Repository, assets storage.AssetStore, pdf render.PDFRenderer, log RenderLog) *Service {
	return &Service{repo: repo, assets: assets, pdf: pdf, log: log, key: cv.DefaultKey, now: time.Now}
}

// Get returns the stored CV or ErrNotFound.
func (s *Service) Get(ctx context.Context) (*cv.CVDocument, error) {
	doc, err := s.repo.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return doc, nil
}

// Upsert normalizes sub, attaches pic (optional) and replaces the stored CV.
//
// The new picture is uploaded before the write. If the write fails the upload
// is deleted again; if it succeeds, a replaced picture is deleted. Both
// deletions are best-effort.
func (s *Service) Upsert(ctx context.Context, sub cv.Submission, pic *storage.Upload) (*cv.CVDocument, error) {
	current, err := s.repo.Get(ctx, s.key)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("load current cv: %w", err)
	}

	doc := cv.Normalize(sub)
	doc.ID = s.key
	now := s.now().UTC()
	doc.CreatedAt = now
	doc.UpdatedAt = now

	var previous *cv.Image
	if current != nil {
		doc.CreatedAt = current.CreatedAt
		previous = current.Personal.ProfilePic
	}
	doc.Personal.ProfilePic = previous

	var uploaded *cv.Image
	if pic != nil {
		asset, err := s.assets.Upload(ctx, ProfileFolder, *pic)
		if err != nil {
			if !errors.Is(err, storage.ErrUpload) {
				err = fmt.Errorf("%w: %v", storage.ErrUpload, err)
			}
			return nil, err
		}
		uploaded = &cv.Image{URL: asset.URL, PublicID: asset.PublicID}
		doc.Personal.ProfilePic = uploaded
	}

	if err := s.repo.Save(ctx, &doc); err != nil {
		if uploaded != nil {
			s.deleteAsset(uploaded.PublicID, "compensate")
		}
		return nil, fmt.Errorf("save cv: %w", err)
	}

	if uploaded != nil && previous != nil && previous.PublicID != "" && previous.PublicID != uploaded.PublicID {
		s.deleteAsset(previous.PublicID, "replace")
	}
	return &doc, nil
}

func (s *Service) deleteAsset(publicID, reason string) {
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := s.assets.Delete(ctx, publicID); err != nil {
		logger.Warnf("cv: %s delete of asset %s failed: %v", reason, publicID, err)
		return
	}
	logger.Debugf("cv: %s deleted asset %s", reason, publicID)
}

// Preview renders the stored CV as HTML.
func (s *Service) Preview(ctx context.Context) (string, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return "", err
	}
	return render.HTML(doc), nil
}

// Download renders the stored CV to PDF. Failures of the engine wrap ErrRender.
func (s *Service) Download(ctx context.Context) ([]byte, error) {
	doc, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	start := s.now()
	pdf, err := s.pdf.PDF(ctx, render.HTML(doc))
	elapsed := s.now().Sub(start)
	metrics.CVRenderDuration.Observe(elapsed.Seconds())

	rec := &renders.Record{CVID: doc.ID, DurationMs: elapsed.Milliseconds()}
	if err != nil {
		if !errors.Is(err, render.ErrRender) {
			err = fmt.Errorf("%w: %v", render.ErrRender, err)
		}
		metrics.CVRenders.WithLabelValues(renders.StatusError).Inc()
		rec.Status = renders.StatusError
		rec.Error = err.Error()
		s.record(rec)
		return nil, err
	}
	metrics.CVRenders.WithLabelValues(renders.StatusOK).Inc()
	rec.Status = renders.StatusOK
	rec.Bytes = len(pdf)
	s.record(rec)
	return pdf, nil
}

func (s *Service) record(rec *renders.Record) {
	if s.log == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()
	if err := s.log.Save(ctx, rec); err != nil {
		logger.Warnf("cv: could not record render %s: %v", rec.RenderID, err)
	}
}

// RecentRenders lists the latest render records, newest first.
func (s *Service) RecentRenders(ctx context.Context, limit int64) ([]renders.Record, error) {
	if s.log == nil {
		return []renders.Record{}, nil
	}
	return s.log.Recent(ctx, limit)
}
