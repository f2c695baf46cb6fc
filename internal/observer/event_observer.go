// Package observer publishes QC run lifecycle events to subscribed
// listeners without coupling the pipeline to them.
package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// EventType identifies a QC run lifecycle event.
type EventType string

const (
	RunStarted      EventType = "run_started"
	RunCompleted    EventType = "run_completed"
	RunFailed       EventType = "run_failed"
	UnitCompleted   EventType = "unit_completed"
	DecisionEmitted EventType = "decision_emitted"
)

// RunEvent is one QC run lifecycle event.
type RunEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RunID          string                 `json:"run_id"`
	Unit           string                 `json:"unit,omitempty"`
	Decision       string                 `json:"decision,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time,omitempty"`
	Success        bool                   `json:"success"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// Observer receives run events.
type Observer interface {
	OnEvent(ctx context.Context, event RunEvent)
	GetObserverName() string
}

// Subject manages observer subscriptions and event fan-out.
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event RunEvent)
}

// LoggingObserver writes run events to the structured log.
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a logging observer.
func NewLoggingObserver(logger *logrus.Logger) Observer {
	return &LoggingObserver{logger: logger}
}

func (o *LoggingObserver) OnEvent(ctx context.Context, event RunEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"run_id":     event.RunID,
		"success":    event.Success,
	}
	if event.Unit != "" {
		fields["unit"] = event.Unit
	}
	if event.Decision != "" {
		fields["decision"] = event.Decision
	}
	if event.ProcessingTime > 0 {
		fields["processing_time"] = event.ProcessingTime
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	switch event.EventType {
	case RunStarted:
		o.logger.WithFields(fields).Info("QC run started")
	case RunCompleted:
		o.logger.WithFields(fields).Info("QC run completed")
	case RunFailed:
		o.logger.WithFields(fields).Error("QC run failed")
	case UnitCompleted:
		o.logger.WithFields(fields).Debug("Analysis unit completed")
	case DecisionEmitted:
		o.logger.WithFields(fields).Info("Decision emitted")
	default:
		o.logger.WithFields(fields).Info("QC run event")
	}
}

func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver accumulates run counters for the health endpoint.
type MetricsObserver struct {
	mu             sync.RWMutex
	totalRuns      int64
	completedRuns  int64
	failedRuns     int64
	totalDuration  time.Duration
	decisionCounts map[string]int64
}

// NewMetricsObserver creates a metrics observer.
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{decisionCounts: make(map[string]int64)}
}

func (o *MetricsObserver) OnEvent(ctx context.Context, event RunEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case RunStarted:
		o.totalRuns++
	case RunCompleted:
		o.completedRuns++
		o.totalDuration += event.ProcessingTime
	case RunFailed:
		o.failedRuns++
	case DecisionEmitted:
		o.decisionCounts[event.Decision]++
	}
}

func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// GetMetrics returns a snapshot of the accumulated counters.
func (o *MetricsObserver) GetMetrics() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	avg := time.Duration(0)
	if o.completedRuns > 0 {
		avg = o.totalDuration / time.Duration(o.completedRuns)
	}

	decisions := make(map[string]int64, len(o.decisionCounts))
	for k, v := range o.decisionCounts {
		decisions[k] = v
	}

	return map[string]interface{}{
		"total_runs":        o.totalRuns,
		"completed_runs":    o.completedRuns,
		"failed_runs":       o.failedRuns,
		"avg_run_time":      avg,
		"decisions_emitted": decisions,
	}
}

// EventPublisher fans events out to subscribed observers.
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates an empty publisher.
func NewEventPublisher() Subject {
	return &EventPublisher{observers: make([]Observer, 0)}
}

func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

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

// NotifyObservers delivers the event to every observer concurrently.
// A panicking observer is logged and does not affect the run.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event RunEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	for _, observer := range observers {
		go func(obs Observer) {
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
