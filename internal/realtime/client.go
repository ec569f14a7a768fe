package realtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"resty.dev/v3"

	"feedline/internal/core"
)

var ErrPushRejected = errors.New("realtime push rejected")

var pushLatency = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Name:    "feedline_realtime_push_latency",
		Help:    "Histogram of realtime push request latency in seconds.",
		Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 2, 5, 10},
	},
	[]string{"method", "path", "status_code"},
)

// Client mirrors stored notifications to an external realtime table so
// connected clients see them without polling. Disabled when no endpoint is
// configured.
type Client struct {
	Logger *slog.Logger
	Config *core.Config

	client *resty.Client
}

func (c *Client) Init(_ context.Context) error {
	c.Logger = c.Logger.With("component", "realtime.Client")

	if c.Config.REALTIME_URL == "" {
		c.Logger.Info("no realtime endpoint configured, push disabled")
		return nil
	}

	c.client = resty.NewWithTransportSettings(&resty.TransportSettings{
		DialerTimeout:         1 * time.Second,
		DialerKeepAlive:       1 * time.Second,
		IdleConnTimeout:       1 * time.Second,
		TLSHandshakeTimeout:   1 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
		ResponseHeaderTimeout: 1 * time.Second,
	}).
		SetBaseURL(c.Config.REALTIME_URL).
		SetHeader("apikey", c.Config.REALTIME_KEY).
		AddResponseMiddleware(metricMiddleware)

	return nil
}

type pushPayload struct {
	RecipientID      int64  `json:"recipient_id"`
	SenderID         int64  `json:"sender_id"`
	NotificationType string `json:"notification_type"`
	PostID           *int64 `json:"post_id"`
	Message          string `json:"message"`
	IsRead           bool   `json:"is_read"`
	CreatedAt        string `json:"created_at"`
}

func (c *Client) Push(ctx context.Context, n *core.Notification) error {
	if c.client == nil {
		return nil
	}

	res, err := c.client.R().
		WithContext(ctx).
		SetBody(pushPayload{
			RecipientID:      n.RecipientID,
			SenderID:         n.SenderID,
			NotificationType: n.Type,
			PostID:           n.PostID,
			Message:          n.Message,
			IsRead:           n.IsRead,
			CreatedAt:        n.CreatedAt.Format(time.RFC3339),
		}).
		Post("/rest/v1/notifications")
	if err != nil {
		return err
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrPushRejected, res.Status())
	}
	return nil
}

func (c *Client) Shutdown(_ context.Context) error {
	if c.client == nil {
		return nil
	}
	return c.client.Close()
}

func metricMiddleware(_ *resty.Client, response *resty.Response) error {
	reqURL, err := url.Parse(response.Request.URL)
	if err != nil {
		return err
	}

	pushLatency.WithLabelValues(
		response.Request.Method,
		reqURL.Path,
		fmt.Sprintf("%d", response.StatusCode()),
	).Observe(response.Duration().Seconds())

	return nil
}
