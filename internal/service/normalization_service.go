package service

import (
	"bytes"
	"context"
	"errors"
	"sync"
	"time"

	apperrors "github.com/anime-shed/spatialplot-go/internal/errors"
	"github.com/anime-shed/spatialplot-go/internal/factory"
	"github.com/anime-shed/spatialplot-go/internal/imageio"
	"github.com/anime-shed/spatialplot-go/internal/observer"
	"github.com/anime-shed/spatialplot-go/internal/processor"
	"github.com/anime-shed/spatialplot-go/internal/repository"
	"github.com/anime-shed/spatialplot-go/internal/storage"
	"github.com/anime-shed/spatialplot-go/pkg/models"
	"github.com/anime-shed/spatialplot-go/pkg/normalize"
)

// NormalizationService fetches images and normalizes their channels.
type NormalizationService interface {
	Normalize(ctx context.Context, req models.NormalizeRequest) (*models.NormalizeResponse, error)
	Render(ctx context.Context, req models.RenderRequest) (*RenderedImage, error)
	NormalizeBatch(ctx context.Context, reqs []models.NormalizeRequest) (*models.BatchResponse, error)
	ValidateSource(source string) error
}

// RenderedImage is an encoded render ready to send.
type RenderedImage struct {
	Data        []byte
	Format      string
	ContentType string
}

// Options configures a normalizationService.
type Options struct {
	Defaults     normalize.Options
	FetchTimeout time.Duration
}

type normalizationService struct {
	repo       repository.ImageRepository
	processors factory.ProcessorFactory
	processor  *processor.Processor
	pool       *processor.WorkerPool
	publisher  observer.Subject
	opts       Options
}

// NewNormalizationService wires a service. pool runs batch items and must
// already be started.
func NewNormalizationService(
	repo repository.ImageRepository,
	processors factory.ProcessorFactory,
	pool *processor.WorkerPool,
	publisher observer.Subject,
	opts Options,
) NormalizationService {
	return &normalizationService{
		repo:       repo,
		processors: processors,
		processor:  processors.CreateProcessor(),
		pool:       pool,
		publisher:  publisher,
		opts:       opts,
	}
}

func (s *normalizationService) ValidateSource(source string) error {
	return s.repo.ValidateSource(source)
}

func (s *normalizationService) notify(ctx context.Context, event observer.NormalizationEvent) {
	if s.publisher != nil {
		s.publisher.NotifyObservers(ctx, event)
	}
}

// run fetches the source and normalizes it.
func (s *normalizationService) run(ctx context.Context, req models.NormalizeRequest) (*processor.Result, *imageio.Decoded, normalize.Options, error) {
	opts := req.Options(s.opts.Defaults)

	if err := s.ValidateSource(req.Source); err != nil {
		return nil, nil, opts, err
	}
	strat, err := s.processors.CreateStrategy(req.Mode)
	if err != nil {
		return nil, nil, opts, apperrors.NewValidationError("invalid channel mode", err)
	}

	fetchStart := time.Now()
	fetchCtx := ctx
	if s.opts.FetchTimeout > 0 {
		var cancel context.CancelFunc
		fetchCtx, cancel = context.WithTimeout(ctx, s.opts.FetchTimeout)
		defer cancel()
	}
	decoded, err := s.repo.FetchImage(fetchCtx, req.Source)
	if err != nil {
		err = fetchError(err)
		s.notify(ctx, observer.NormalizationEvent{
			EventType:      observer.ImageFetchFailed,
			Source:         req.Source,
			ProcessingTime: time.Since(fetchStart),
			ErrorMessage:   err.Error(),
		})
		return nil, nil, opts, err
	}
	s.notify(ctx, observer.NormalizationEvent{
		EventType:      observer.ImageFetched,
		Source:         req.Source,
		ProcessingTime: time.Since(fetchStart),
		Success:        true,
		Metadata:       map[string]interface{}{"format": decoded.Format},
	})

	res, err := s.processor.ProcessImage(ctx, decoded.Image, strat, req.Channels, opts)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, opts, apperrors.NewTimeoutError("normalization timed out", err)
		}
		return nil, nil, opts, apperrors.NewValidationError("invalid channel selection", err)
	}
	return res, decoded, opts, nil
}

func (s *normalizationService) Normalize(ctx context.Context, req models.NormalizeRequest) (*models.NormalizeResponse, error) {
	start := time.Now()
	s.notify(ctx, observer.NormalizationEvent{EventType: observer.NormalizationStarted, Source: req.Source})

	res, decoded, opts, err := s.run(ctx, req)
	if err != nil {
		s.notify(ctx, observer.NormalizationEvent{
			EventType:      observer.NormalizationFailed,
			Source:         req.Source,
			ProcessingTime: time.Since(start),
			ErrorMessage:   err.Error(),
		})
		return nil, err
	}

	resp := buildResponse(req.Source, res, decoded, opts, time.Since(start))
	s.notify(ctx, observer.NormalizationEvent{
		EventType:      observer.NormalizationCompleted,
		Source:         req.Source,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata: map[string]interface{}{
			"channels": resp.Shape.Channels,
			"warnings": len(resp.Warnings),
		},
	})
	return resp, nil
}

func (s *normalizationService) Render(ctx context.Context, req models.RenderRequest) (*RenderedImage, error) {
	start := time.Now()
	format := req.Format
	if format == "" {
		format = "png"
	}

	res, _, _, err := s.run(ctx, req.NormalizeRequest)
	if err != nil {
		return nil, err
	}

	img, err := RenderStack(res.Stack, RenderOptionsFrom(req))
	if err != nil {
		return nil, apperrors.NewValidationError("cannot render stack", err)
	}

	var buf bytes.Buffer
	if err := imageio.Encode(&buf, img, format); err != nil {
		return nil, apperrors.NewValidationError("cannot encode render", err)
	}

	s.notify(ctx, observer.NormalizationEvent{
		EventType:      observer.ImageRendered,
		Source:         req.Source,
		ProcessingTime: time.Since(start),
		Success:        true,
		Metadata:       map[string]interface{}{"layout": req.Layout, "format": format, "bytes": buf.Len()},
	})
	return &RenderedImage{Data: buf.Bytes(), Format: format, ContentType: imageio.ContentType(format)}, nil
}

// NormalizeBatch runs every request on the worker pool. Item failures are
// reported per item; the call itself fails only when ctx ends first.
func (s *normalizationService) NormalizeBatch(ctx context.Context, reqs []models.NormalizeRequest) (*models.BatchResponse, error) {
	items := make([]models.BatchItem, len(reqs))
	var wg sync.WaitGroup

	for i, req := range reqs {
		items[i] = models.BatchItem{Index: i, Source: req.Source}
		job := func() {
			defer wg.Done()
			if err := ctx.Err(); err != nil {
				items[i].Error = errorResponse(apperrors.NewTimeoutError("batch cancelled", err))
				return
			}
			resp, err := s.Normalize(ctx, req)
			if err != nil {
				items[i].Error = errorResponse(err)
				return
			}
			items[i].Result = resp
		}

		wg.Add(1)
		if !s.pool.Submit(job) {
			wg.Done()
			items[i].Error = errorResponse(apperrors.NewInternalError("worker pool closed", nil))
		}
	}
	wg.Wait()

	out := &models.BatchResponse{Items: items}
	for _, it := range items {
		if it.Error != nil {
			out.Failed++
		} else {
			out.Succeeded++
		}
	}

	if err := ctx.Err(); err != nil {
		return out, apperrors.NewTimeoutError("batch did not finish in time", err)
	}
	return out, nil
}

func buildResponse(source string, res *processor.Result, decoded *imageio.Decoded, opts normalize.Options, elapsed time.Duration) *models.NormalizeResponse {
	c, h, w := res.Stack.Shape()
	stats := make([]models.ChannelStats, len(res.Stats))
	for i, st := range res.Stats {
		stats[i] = models.ChannelStats{
			Channel:    st.Channel,
			Min:        models.Finite(st.Min),
			Max:        models.Finite(st.Max),
			Mean:       models.Finite(st.Mean),
			StdDev:     models.Finite(st.StdDev),
			Lo:         models.Finite(st.Lo),
			Hi:         models.Finite(st.Hi),
			Degenerate: st.Degenerate,
		}
	}

	return &models.NormalizeResponse{
		Source:            source,
		Label:             res.Stack.Label,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
		ProcessingTimeSec: elapsed.Seconds(),
		Strategy:          res.Strategy,
		Shape:             models.Shape{Channels: c, Height: h, Width: w},
		Params:            opts,
		Metadata:          repository.Metadata(decoded),
		Channels:          stats,
		Warnings:          res.Issues,
	}
}

// fetchError maps storage failures onto application errors.
func fetchError(err error) error {
	var appErr *apperrors.AppError
	switch {
	case errors.As(err, &appErr):
		return err
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return apperrors.NewTimeoutError("image fetch timed out", err)
	case errors.Is(err, storage.ErrNotFound):
		return apperrors.NewNotFoundError("image not found", err)
	case errors.Is(err, storage.ErrDecode):
		return apperrors.NewDecodeError("unsupported or corrupt image", err)
	case errors.Is(err, storage.ErrTooLarge):
		return apperrors.NewValidationError("image too large", err)
	case errors.Is(err, repository.ErrUnsupportedScheme), errors.Is(err, repository.ErrInvalidSource):
		return apperrors.NewValidationError("invalid image source", err)
	default:
		return apperrors.NewNetworkError("failed to fetch image", err)
	}
}

func errorResponse(err error) *models.ErrorResponse {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return &models.ErrorResponse{Error: string(appErr.Type), Message: appErr.Message}
	}
	return &models.ErrorResponse{Error: string(apperrors.ErrorTypeInternal), Message: err.Error()}
}
