package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// NormalizationEvent describes one step of a normalization request.
type NormalizationEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	Source         string                 `json:"source"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of normalization event
type EventType string

const (
	NormalizationStarted   EventType = "normalization_started"
	NormalizationCompleted EventType = "normalization_completed"
	NormalizationFailed    EventType = "normalization_failed"
	ImageFetched           EventType = "image_fetched"
	ImageFetchFailed       EventType = "image_fetch_failed"
	ImageRendered          EventType = "image_rendered"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event NormalizationEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event NormalizationEvent)
}

// LoggingObserver logs normalization events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event NormalizationEvent) {
	fields := logrus.Fields{
		"event_type":      event.EventType,
		"source":          event.Source,
		"processing_time": event.ProcessingTime,
		"success":         event.Success,
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case NormalizationStarted:
		entry.Info("Normalization started")
	case NormalizationCompleted:
		entry.Info("Normalization completed")
	case NormalizationFailed:
		entry.Error("Normalization failed")
	case ImageFetched:
		entry.Debug("Image fetched successfully")
	case ImageFetchFailed:
		entry.Error("Image fetch failed")
	case ImageRendered:
		entry.Debug("Image rendered")
	default:
		entry.Info("Normalization event occurred")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// Metrics is a snapshot of MetricsObserver counters.
type Metrics struct {
	TotalRequests       int64         `json:"total_requests"`
	Succeeded           int64         `json:"succeeded"`
	Failed              int64         `json:"failed"`
	FetchFailures       int64         `json:"fetch_failures"`
	Renders             int64         `json:"renders"`
	TotalProcessingTime time.Duration `json:"total_processing_time_ns"`
	AvgProcessingTime   time.Duration `json:"avg_processing_time_ns"`
}

// MetricsObserver counts normalization outcomes.
type MetricsObserver struct {
	mu      sync.RWMutex
	metrics Metrics
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{}
}

func (o *MetricsObserver) OnEvent(ctx context.Context, event NormalizationEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case NormalizationStarted:
		o.metrics.TotalRequests++
	case NormalizationCompleted:
		o.metrics.Succeeded++
		o.metrics.TotalProcessingTime += event.ProcessingTime
	case NormalizationFailed:
		o.metrics.Failed++
	case ImageFetchFailed:
		o.metrics.FetchFailures++
	case ImageRendered:
		o.metrics.Renders++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns current metrics
func (o *MetricsObserver) GetMetrics() Metrics {
	o.mu.RLock()
	defer o.mu.RUnlock()

	m := o.metrics
	if m.Succeeded > 0 {
		m.AvgProcessingTime = m.TotalProcessingTime / time.Duration(m.Succeeded)
	}
	return m
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
	wg        sync.WaitGroup
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes the first observer with the same name.
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer on its own goroutine.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event NormalizationEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		p.wg.Add(1)
		go func(obs Observer) {
			defer p.wg.Done()
			defer func() {
				if r := recover(); r != nil {
					logrus.WithField("observer", obs.GetObserverName()).
						WithField("panic", r).
						Error("Observer panicked while handling event")
				}
			}()
			obs.OnEvent(ctx, event)
		}(observer)
	}
}

// Wait blocks until all in-flight notifications are delivered.
func (p *EventPublisher) Wait() {
	p.wg.Wait()
}
