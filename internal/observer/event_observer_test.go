package observer

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, NormalizationEvent) { panic("boom") }
func (panickingObserver) GetObserverName() string                     { return "panicking" }

func TestMetricsObserver(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()

	m.OnEvent(ctx, NormalizationEvent{EventType: NormalizationStarted})
	m.OnEvent(ctx, NormalizationEvent{EventType: NormalizationStarted})
	m.OnEvent(ctx, NormalizationEvent{EventType: NormalizationCompleted, ProcessingTime: 30 * time.Millisecond})
	m.OnEvent(ctx, NormalizationEvent{EventType: ImageFetchFailed})
	m.OnEvent(ctx, NormalizationEvent{EventType: NormalizationFailed})
	m.OnEvent(ctx, NormalizationEvent{EventType: ImageRendered})

	got := m.GetMetrics()
	assert.Equal(t, int64(2), got.TotalRequests)
	assert.Equal(t, int64(1), got.Succeeded)
	assert.Equal(t, int64(1), got.Failed)
	assert.Equal(t, int64(1), got.FetchFailures)
	assert.Equal(t, int64(1), got.Renders)
	assert.Equal(t, 30*time.Millisecond, got.AvgProcessingTime)
}

func TestEventPublisher_NotifiesAndRecovers(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})

	metrics := NewMetricsObserver()
	p := NewEventPublisher()
	p.Subscribe(panickingObserver{})
	p.Subscribe(metrics)
	p.Subscribe(NewLoggingObserver(log))

	p.NotifyObservers(context.Background(), NormalizationEvent{
		EventType: NormalizationStarted,
		Source:    "file:///a.png",
		Metadata:  map[string]interface{}{"channels": 3},
	})
	p.Wait()

	assert.Equal(t, int64(1), metrics.GetMetrics().TotalRequests)
	assert.Contains(t, buf.String(), `"source":"file:///a.png"`)
	assert.Contains(t, buf.String(), `"channels":3`)

	p.Unsubscribe(NewMetricsObserver())
	p.NotifyObservers(context.Background(), NormalizationEvent{EventType: NormalizationStarted})
	p.Wait()
	assert.Equal(t, int64(1), metrics.GetMetrics().TotalRequests)
}
