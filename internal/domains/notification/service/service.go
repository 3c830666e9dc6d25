package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=../mocks/service_mock.go -package=mocks

import (
	"context"
	"salonbook/config"
	"salonbook/infras/kafka"
	"salonbook/infras/metrics"
	"salonbook/infras/otel"
	"salonbook/internal/domains/notification/model"
	"salonbook/shared/constant"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const (
	defaultPublishTimeout = 5 * time.Second
	headerEventType       = "event-type"
)

// Notification hands messages to a bounded queue drained by background workers.
// Dispatch never blocks and never reports delivery errors to the caller.
type Notification interface {
	Dispatch(ctx context.Context, notification model.Notification)
	Run(ctx context.Context)
}

type serviceImpl struct {
	client  kafka.Client
	cfg     *config.Config
	metrics *metrics.Metrics
	otel    otel.Otel
	queue   chan model.Notification
	limiter *rate.Limiter
}

func New(client kafka.Client, cfg *config.Config, metrics *metrics.Metrics, otel otel.Otel) Notification {
	limit := rate.Inf
	if cfg.Notification.RatePerSecond > 0 {
		limit = rate.Limit(cfg.Notification.RatePerSecond)
	}

	return &serviceImpl{
		client:  client,
		cfg:     cfg,
		metrics: metrics,
		otel:    otel,
		queue:   make(chan model.Notification, max(cfg.Notification.QueueSize, 1)),
		limiter: rate.NewLimiter(limit, max(cfg.Notification.Workers, 1)),
	}
}

func (s *serviceImpl) Dispatch(ctx context.Context, notification model.Notification) {
	_, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".notification.Dispatch")
	defer scope.End()

	scope.SetAttribute("notification.type", string(notification.Type))

	select {
	case s.queue <- notification:
	default:
		log.Warn().
			Str("type", string(notification.Type)).
			Str("userID", notification.UserID).
			Msg("notification queue full, dropping notification")

		s.metrics.Notification(string(notification.Type), metrics.ResultDropped)
	}
}

// Run blocks until ctx is cancelled and every worker has returned.
func (s *serviceImpl) Run(ctx context.Context) {
	workers := max(s.cfg.Notification.Workers, 1)

	log.Info().Int("workers", workers).Str("topic", s.cfg.Notification.Topic).Msg("Starting notification workers")

	var wg sync.WaitGroup

	for range workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			s.work(ctx)
		}()
	}

	wg.Wait()

	log.Info().Int("pending", len(s.queue)).Msg("Notification workers stopped")
}

func (s *serviceImpl) work(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case notification := <-s.queue:
			s.publish(ctx, notification)
		}
	}
}

func (s *serviceImpl) publish(ctx context.Context, notification model.Notification) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".notification.publish")
	defer scope.End()

	if err := s.limiter.Wait(ctx); err != nil {
		return
	}

	timeout := defaultPublishTimeout
	if s.cfg.Notification.TimeoutSecond > 0 {
		timeout = time.Duration(s.cfg.Notification.TimeoutSecond) * time.Second
	}

	publishCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	err := s.client.SendMessages(publishCtx, s.cfg.Notification.Topic, kafka.Message{
		Key:     notification.UserID,
		Value:   notification,
		Headers: map[string]string{headerEventType: string(notification.Type)},
	})
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("type", string(notification.Type)).Msg("failed to publish notification")

		s.metrics.Notification(string(notification.Type), metrics.ResultFailure)

		return
	}

	s.metrics.Notification(string(notification.Type), metrics.ResultSuccess)
}
