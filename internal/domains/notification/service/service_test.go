package service_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"salonbook/config"
	"salonbook/infras/kafka"
	kafkaMocks "salonbook/infras/kafka/mocks"
	"salonbook/infras/metrics"
	otelMocks "salonbook/infras/otel/mocks"
	"salonbook/internal/domains/notification/model"
	"salonbook/internal/domains/notification/service"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

func newConfig(queueSize int) *config.Config {
	cfg := &config.Config{}
	cfg.Notification.Topic = "booking.notifications"
	cfg.Notification.QueueSize = queueSize
	cfg.Notification.Workers = 1
	cfg.Notification.TimeoutSecond = 1

	return cfg
}

func scrape(m *metrics.Metrics) string {
	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	return recorder.Body.String()
}

func TestNotification_DispatchAndPublish(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	cfg := newConfig(4)
	m := metrics.New(cfg)

	notification := model.Notification{
		UserID:  "user-1",
		Title:   "New Booking",
		Message: "You have a new booking",
		Type:    model.TypeBookingCreated,
		Data:    map[string]any{"booking_id": "b-1"},
	}

	published := make(chan kafka.Message, 1)

	client.EXPECT().
		SendMessages(gomock.Any(), "booking.notifications", gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, messages ...kafka.Message) error {
			published <- messages[0]

			return nil
		})

	svc := service.New(client, cfg, m, otelMocks.NewOtel())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	svc.Dispatch(context.Background(), notification)

	select {
	case msg := <-published:
		assert.Equal(t, "user-1", msg.Key)
		assert.Equal(t, map[string]string{"event-type": string(model.TypeBookingCreated)}, msg.Headers)
		assert.Equal(t, notification, msg.Value)
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not published")
	}

	cancel()
	<-done

	assert.Contains(t, scrape(m), `salonbook_notifications_total{result="success",type="booking_created"} 1`)
}

func TestNotification_PublishFailureIsSwallowed(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	cfg := newConfig(4)
	m := metrics.New(cfg)

	attempted := make(chan struct{})

	client.EXPECT().
		SendMessages(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ string, _ ...kafka.Message) error {
			close(attempted)

			return errors.New("broker unavailable")
		})

	svc := service.New(client, cfg, m, otelMocks.NewOtel())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	go func() {
		svc.Run(ctx)
		close(done)
	}()

	svc.Dispatch(context.Background(), model.Notification{UserID: "user-2", Type: model.TypeReviewRequest})

	select {
	case <-attempted:
	case <-time.After(2 * time.Second):
		t.Fatal("notification was not attempted")
	}

	assert.Eventually(t, func() bool {
		return strings.Contains(scrape(m), `salonbook_notifications_total{result="failure",type="review_request"} 1`)
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}

func TestNotification_DispatchDropsWhenQueueFull(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	client := kafkaMocks.NewMockClient(ctrl)
	cfg := newConfig(1)
	m := metrics.New(cfg)

	svc := service.New(client, cfg, m, otelMocks.NewOtel())

	start := time.Now()

	svc.Dispatch(context.Background(), model.Notification{UserID: "user-1", Type: model.TypeBookingCancelled})
	svc.Dispatch(context.Background(), model.Notification{UserID: "user-1", Type: model.TypeBookingCancelled})

	assert.Less(t, time.Since(start), time.Second)
	assert.Contains(t, scrape(m), `salonbook_notifications_total{result="dropped",type="booking_cancelled"} 1`)
}
