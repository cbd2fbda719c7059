package consumerWorker

import (
	"context"
	"encoding/json"

	"github.com/wb-go/wbf/zlog"

	"github.com/lennartdeknikker/jaco-line/internal/dto"
	"github.com/lennartdeknikker/jaco-line/internal/mailer"
	"github.com/lennartdeknikker/jaco-line/internal/rabbit"
)

// Reader drains the notification queue and hands each message to the mailer.
// Delivery is best effort: a failed send is logged and acknowledged, it never
// rolls anything back.
type Reader struct {
	RMQ    *rabbit.Client
	mailer *mailer.Mailer
	done   chan struct{}
	cancel context.CancelFunc
}

func NewReader(rmq *rabbit.Client, m *mailer.Mailer) *Reader {
	return &Reader{
		RMQ:    rmq,
		mailer: m,
		done:   make(chan struct{}),
	}
}

func (r *Reader) Start(ctx context.Context) {
	cctx, cancel := context.WithCancel(ctx)
	r.cancel = cancel

	zlog.Logger.Info().Msg("notification reader started")

	go func() {
		defer close(r.done)

		handler := func(body []byte) error {
			var msg dto.NotificationMessage
			if err := json.Unmarshal(body, &msg); err != nil {
				zlog.Logger.Error().
					Err(err).
					Msgf("Failed to unmarshal notification message: %s", string(body))
				// Poison message; redelivery cannot fix it.
				return nil
			}

			zlog.Logger.Info().
				Str("notification_id", msg.ID).
				Str("kind", msg.Kind).
				Msg("Received notification message")

			if err := r.mailer.SendNotification(msg); err != nil {
				zlog.Logger.Warn().
					Err(err).
					Str("notification_id", msg.ID).
					Msg("Failed to send notification e-mail")
			}
			return nil
		}

		if err := r.RMQ.Consume(handler); err != nil {
			zlog.Logger.Error().Err(err).Msg("Failed to start consuming")
			return
		}

		<-cctx.Done()
		zlog.Logger.Info().Msg("notification reader stopped by context")
	}()
}

func (r *Reader) Stop() {
	if r.cancel != nil {
		r.cancel()
		<-r.done
	}
}
