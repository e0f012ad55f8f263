package workers

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Devensh22345/channel-adder/config"
	channelentities "github.com/Devensh22345/channel-adder/internal/domain/channel/entities"
	"github.com/Devensh22345/channel-adder/internal/domain/provisioning/deps"
	"github.com/Devensh22345/channel-adder/internal/infrastructure/metrics"
)

// RequestMonitor periodically hands pending join requests to a RequestHandler
// and stores the terminal status it returns
type RequestMonitor struct {
	requests  deps.RequestStore
	handler   deps.RequestHandler
	interval  time.Duration
	batchSize int
	timeout   time.Duration
	logger    zerolog.Logger
	metrics   *metrics.Metrics

	done   chan struct{}
	wg     sync.WaitGroup
	ctx    context.Context
	cancel context.CancelFunc
}

// NewRequestMonitor creates a new request monitor worker
func NewRequestMonitor(
	requests deps.RequestStore,
	handler deps.RequestHandler,
	workerCfg *config.WorkerConfig,
	provisioningCfg *config.ProvisioningConfig,
	logger zerolog.Logger,
	m *metrics.Metrics,
) *RequestMonitor {
	ctx, cancel := context.WithCancel(context.Background())

	return &RequestMonitor{
		requests:  requests,
		handler:   handler,
		interval:  workerCfg.MonitorInterval,
		batchSize: workerCfg.BatchSize,
		timeout:   provisioningCfg.Timeout,
		logger:    logger.With().Str("component", "request-monitor").Logger(),
		metrics:   m,
		done:      make(chan struct{}),
		ctx:       ctx,
		cancel:    cancel,
	}
}

// Start starts the request monitor
func (w *RequestMonitor) Start() {
	w.logger.Info().
		Dur("interval", w.interval).
		Int("batch_size", w.batchSize).
		Dur("timeout", w.timeout).
		Msg("Starting request monitor")

	w.wg.Add(1)
	go w.run()
}

// Stop cancels in-flight work and waits for the loop to exit
func (w *RequestMonitor) Stop() {
	w.logger.Info().Msg("Stopping request monitor")

	w.cancel()
	close(w.done)
	w.wg.Wait()

	w.logger.Info().Msg("Request monitor stopped")
}

func (w *RequestMonitor) run() {
	defer w.wg.Done()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-w.done:
			return
		case <-ticker.C:
			w.Tick(w.ctx)
		}
	}
}

// Tick processes one batch of pending requests and returns how many changed status
func (w *RequestMonitor) Tick(ctx context.Context) int {
	pending, err := w.requests.ListPendingRequests(ctx, w.batchSize)
	if err != nil {
		w.logger.Error().Err(err).Msg("Failed to list pending requests")
		return 0
	}

	if w.metrics != nil {
		w.metrics.PendingRequests.Set(float64(len(pending)))
	}
	if len(pending) == 0 {
		return 0
	}

	w.logger.Debug().Int("pending", len(pending)).Msg("Processing pending requests")

	processed := 0
	for _, req := range pending {
		if ctx.Err() != nil {
			return processed
		}
		if w.process(ctx, req) {
			processed++
		}
	}
	return processed
}

func (w *RequestMonitor) process(ctx context.Context, req channelentities.JoinRequest) bool {
	log := w.logger.With().Str("request_id", req.ID).Int64("channel_id", req.ChannelID).Logger()

	jobCtx := ctx
	if w.timeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	status, err := w.handler.HandleRequest(jobCtx, req)
	if err != nil {
		if jobCtx.Err() != nil {
			log.Warn().Err(err).Msg("Request handling cancelled or timed out")
		} else {
			log.Error().Err(err).Msg("Request handling failed")
		}
		return false
	}

	if status == channelentities.RequestStatusPending {
		return false
	}

	// the job context may be spent, the status write still gets its own deadline
	writeCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 10*time.Second)
	defer cancel()

	if err := w.requests.SetRequestStatus(writeCtx, req.ID, status); err != nil {
		log.Error().Err(err).Str("status", string(status)).Msg("Failed to update request status")
		return false
	}

	if w.metrics != nil {
		w.metrics.RequestsProcessed.WithLabelValues(string(status)).Inc()
	}
	log.Info().Str("status", string(status)).Msg("Join request processed")
	return true
}

// NoopRequestHandler leaves every request pending
type NoopRequestHandler struct{}

// HandleRequest implements deps.RequestHandler
func (NoopRequestHandler) HandleRequest(ctx context.Context, req channelentities.JoinRequest) (channelentities.RequestStatus, error) {
	return channelentities.RequestStatusPending, nil
}
