package services

import (
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"image-tier-api/internal/application/ports"
	"image-tier-api/internal/infrastructure/mq"
)

// publish queues e without blocking the request. A full queue drops the
// event.
func publish(q ports.RabbitMQ, logger *zap.Logger, e mq.Event) {
	if q == nil {
		return
	}
	e.Id = uuid.New()
	e.TS = time.Now()

	select {
	case q.GetInputChan() <- e:
	default:
		logger.Warn("event queue full, event dropped",
			zap.String("action", e.Action),
			zap.String("image_id", e.Payload.ImageID),
		)
	}
}
