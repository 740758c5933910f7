package transport

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/anime-shed/spatialplot-go/internal/config"
	apperrors "github.com/anime-shed/spatialplot-go/internal/errors"
	"github.com/anime-shed/spatialplot-go/internal/logger"
	"github.com/anime-shed/spatialplot-go/internal/observer"
	"github.com/anime-shed/spatialplot-go/internal/processor"
	"github.com/anime-shed/spatialplot-go/internal/service"
	"github.com/anime-shed/spatialplot-go/pkg/models"
)

const maxBatchItems = 64

// Deps groups what the routes need.
type Deps struct {
	Service service.NormalizationService
	Metrics *observer.MetricsObserver
	Pool    *processor.WorkerPool
	Config  *config.Config
}

func NewHandler(d Deps) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(d.Config.MaxRequestBodySize),
		errorHandler(),
	)

	r.GET("/health", healthCheck)
	r.GET("/metrics", metrics(d))
	r.POST("/normalize", normalizeImage(d))
	r.POST("/normalize/render", renderImage(d))
	r.POST("/normalize/batch", normalizeBatch(d))

	return r
}

// applyClipQuery lets ?clip=true|false override the body.
func applyClipQuery(c *gin.Context, req *models.NormalizeRequest) error {
	q := c.Query("clip")
	if q == "" {
		return nil
	}
	clip, err := strconv.ParseBool(q)
	if err != nil {
		return apperrors.NewValidationError("clip must be true or false", err)
	}
	req.Clip = &clip
	return nil
}

func normalizeImage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()
		ctx, cancel := context.WithTimeout(c.Request.Context(), d.Config.RequestTimeout)
		defer cancel()

		logger.WithFields(logrus.Fields{
			"method":     c.Request.Method,
			"path":       c.Request.URL.Path,
			"user_agent": c.Request.UserAgent(),
			"ip":         c.ClientIP(),
		}).Info("Processing normalization request")

		var req models.NormalizeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := applyClipQuery(c, &req); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid query", err)
			return
		}

		resp, err := d.Service.Normalize(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "normalization failed", err)
			return
		}

		logger.WithFields(logrus.Fields{
			"source":             req.Source,
			"channels":           resp.Shape.Channels,
			"warnings":           len(resp.Warnings),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Normalization completed successfully")

		c.JSON(http.StatusOK, resp)
	}
}

func renderImage(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d.Config.RequestTimeout)
		defer cancel()

		var req models.RenderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if err := applyClipQuery(c, &req.NormalizeRequest); err != nil {
			respondError(c, apperrors.GetStatusCode(err), "invalid query", err)
			return
		}

		out, err := d.Service.Render(ctx, req)
		if err != nil {
			respondError(c, determineStatusCode(err), "render failed", err)
			return
		}
		c.Data(http.StatusOK, out.ContentType, out.Data)
	}
}

func normalizeBatch(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), d.Config.ProcessingTimeout)
		defer cancel()

		var req models.BatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, http.StatusBadRequest, "invalid request format", err)
			return
		}
		if len(req.Items) > maxBatchItems {
			err := apperrors.NewValidationError(fmt.Sprintf("at most %d items per batch", maxBatchItems), nil)
			respondError(c, err.StatusCode, "batch too large", err)
			return
		}
		for i := range req.Items {
			if err := applyClipQuery(c, &req.Items[i]); err != nil {
				respondError(c, apperrors.GetStatusCode(err), "invalid query", err)
				return
			}
		}

		out, err := d.Service.NormalizeBatch(ctx, req.Items)
		if err != nil {
			respondError(c, determineStatusCode(err), "batch failed", err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}

func metrics(d Deps) gin.HandlerFunc {
	return func(c *gin.Context) {
		body := gin.H{}
		if d.Metrics != nil {
			body["normalization"] = d.Metrics.GetMetrics()
		}
		if d.Pool != nil {
			body["worker_pool"] = d.Pool.GetStats()
		}
		c.JSON(http.StatusOK, body)
	}
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "available",
		"version": "1.0.0",
		"time":    time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func errorHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) > 0 {
			err := c.Errors.Last()
			respondError(c, determineStatusCode(err.Err), "request processing failed", err.Err)
		}
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, code int, message string, err error) {
	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"message":     message,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	c.AbortWithStatusJSON(code, models.ErrorResponse{
		Error:   http.StatusText(code),
		Message: fmt.Sprintf("%s: %v", message, err),
	})
}
