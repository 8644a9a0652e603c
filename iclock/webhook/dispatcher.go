package webhook

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"axiapac.com/adms/iclock/model"
	"axiapac.com/adms/iclock/protocol"
	"axiapac.com/adms/iclock/store"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTimeout     = 10 * time.Second
	DefaultConcurrency = 4
)

// Event is one attendance record as delivered to subscribers. Date is the
// device-local string the terminal reported.
type Event struct {
	Pin                int    `json:"pin"`
	Date               string `json:"date"`
	MachineDisplayName string `json:"machineDisplayName"`
}

// Result is the outcome of delivering one batch to one endpoint.
type Result struct {
	Endpoint   model.Webhook
	DeliveryID string
	StatusCode int
	Err        error
}

func (r Result) OK() bool {
	return r.Err == nil
}

// Alerter receives a summary when deliveries fail.
type Alerter interface {
	Error(message string) error
}

type Config struct {
	Timeout     time.Duration
	Concurrency int
}

// Dispatcher fans attendance batches out to every active webhook. Delivery is
// best effort: no retry, and a failing endpoint never affects the others.
type Dispatcher struct {
	store     store.Store
	transport *Transport
	config    Config
	alerter   Alerter
	log       *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewDispatcher creates a dispatcher. alerter may be nil.
func NewDispatcher(s store.Store, config Config, alerter Alerter, log *zap.Logger) *Dispatcher {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.Concurrency <= 0 {
		config.Concurrency = DefaultConcurrency
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		store:     s,
		transport: NewTransport(&http.Client{}),
		config:    config,
		alerter:   alerter,
		log:       log,
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Dispatch posts events to each endpoint concurrently and returns one result
// per endpoint, in endpoint order.
func (d *Dispatcher) Dispatch(ctx context.Context, events []Event, endpoints []model.Webhook) []Result {
	results := make([]Result, len(endpoints))

	g := new(errgroup.Group)
	g.SetLimit(d.config.Concurrency)
	for i, endpoint := range endpoints {
		g.Go(func() error {
			results[i] = d.deliver(ctx, events, endpoint)
			return nil
		})
	}
	g.Wait()

	return results
}

func (d *Dispatcher) deliver(ctx context.Context, events []Event, endpoint model.Webhook) Result {
	ctx, cancel := context.WithTimeout(ctx, d.config.Timeout)
	defer cancel()

	result := Result{Endpoint: endpoint, DeliveryID: uuid.NewString()}
	resp, err := d.transport.Post(ctx, endpoint.URL, events, result.DeliveryID)
	if err != nil {
		result.Err = err
		var de *DeliveryError
		if errors.As(err, &de) {
			result.StatusCode = de.StatusCode
		}
		return result
	}
	result.StatusCode = resp.StatusCode
	return result
}

// AttendanceStored delivers a freshly committed batch in the background. It
// returns immediately; Close abandons deliveries still in flight.
func (d *Dispatcher) AttendanceStored(machine *model.Machine, entries []protocol.AttendanceEntry) {
	if len(entries) == 0 {
		return
	}
	events := NewEvents(machine, entries)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		if _, err := d.DispatchActive(d.ctx, events, "attendance"); err != nil {
			d.log.Error("webhook dispatch failed", zap.Error(err))
		}
	}()
}

// DispatchActive sends events to every active endpoint and reports failures.
func (d *Dispatcher) DispatchActive(ctx context.Context, events []Event, trigger string) ([]Result, error) {
	endpoints, err := d.store.ActiveWebhooks(ctx)
	if err != nil {
		return nil, err
	}
	if len(endpoints) == 0 {
		return nil, nil
	}

	results := d.Dispatch(ctx, events, endpoints)
	d.report(trigger, len(events), results)
	return results, nil
}

// Close cancels in-flight deliveries and waits for their goroutines to exit.
func (d *Dispatcher) Close() {
	d.cancel()
	d.wg.Wait()
}

func (d *Dispatcher) report(trigger string, events int, results []Result) {
	var failed []string
	for _, r := range results {
		if r.OK() {
			d.log.Info("webhook delivered",
				zap.String("trigger", trigger),
				zap.String("url", r.Endpoint.URL),
				zap.String("deliveryId", r.DeliveryID),
				zap.Int("events", events),
				zap.Int("status", r.StatusCode))
			continue
		}
		d.log.Warn("webhook delivery failed",
			zap.String("trigger", trigger),
			zap.String("url", r.Endpoint.URL),
			zap.String("deliveryId", r.DeliveryID),
			zap.Int("events", events),
			zap.Error(r.Err))
		failed = append(failed, fmt.Sprintf("• %s: %v", r.Endpoint.URL, r.Err))
	}

	if len(failed) == 0 || d.alerter == nil {
		return
	}
	message := fmt.Sprintf("%s webhook: %d of %d deliveries failed (%d events)\n%s",
		trigger, len(failed), len(results), events, strings.Join(failed, "\n"))
	if err := d.alerter.Error(message); err != nil {
		d.log.Error("failed to send delivery alert", zap.Error(err))
	}
}

// NewEvents builds the subscriber payload for a stored batch. machine may be nil.
func NewEvents(machine *model.Machine, entries []protocol.AttendanceEntry) []Event {
	name := ""
	if machine != nil {
		name = machine.Name
	}
	events := make([]Event, 0, len(entries))
	for _, e := range entries {
		events = append(events, Event{Pin: e.Pin, Date: e.Date, MachineDisplayName: name})
	}
	return events
}
