package rmqconsumer

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"image-tier-api/config"
	"image-tier-api/internal/infrastructure/mq"
)

// can scale depends on a parallel worker count
const preFetchCount = 1

var (
	ErrUnknownRoutingKey = errors.New("unknown routing key")
	ErrMissingImageID    = errors.New("missing image id")
)

type Consumer struct {
	cfg        config.MQ
	log        *zap.Logger
	conn       *amqp091.Connection
	chConsume  *amqp091.Channel
	chDelivery <-chan amqp091.Delivery
}

func New(cfg config.MQ, logger *zap.Logger, conn *amqp091.Connection) *Consumer {
	return &Consumer{
		cfg:  cfg,
		log:  logger,
		conn: conn,
	}
}

func (c *Consumer) Connect(dsn string) error {
	var err error
	c.conn, err = amqp091.Dial(dsn)
	if err != nil {
		return fmt.Errorf("amqp dial: %w", err)
	}
	c.chConsume, err = c.conn.Channel()
	if err != nil {
		_ = c.conn.Close()
		return fmt.Errorf("amqp channel: %w", err)
	}

	c.log.Info("rabbitmq consumer connected successfully")

	return err
}

func (c *Consumer) Init() error {
	var err error
	if err = c.chConsume.ExchangeDeclare(
		c.cfg.Exchange,
		c.cfg.ExchangeType,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("exchange declare: %w", err)
	}
	if _, err = c.chConsume.QueueDeclare(
		c.cfg.QueueName,
		true,
		false,
		false,
		false,
		nil,
	); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, rk := range mq.RoutingKeys {
		if err = c.chConsume.QueueBind(
			c.cfg.QueueName,
			rk,
			c.cfg.Exchange,
			false,
			nil,
		); err != nil {
			return fmt.Errorf("queue bind %s: %w", rk, err)
		}
	}

	if err = c.chConsume.Qos(preFetchCount, 0, false); err != nil {
		return fmt.Errorf("qos: %w", err)
	}

	var cerr error
	c.chDelivery, cerr = c.chConsume.Consume(
		c.cfg.QueueName,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if cerr != nil {
		return fmt.Errorf("consume: %w", cerr)
	}

	return nil
}

func (c *Consumer) DeliveryWorker(ctx context.Context) {
	c.log.Info("starting delivery worker")

	defer func() {
		c.log.Info("delivery worker gracefully stopped")
	}()

	for {
		select {
		case msg, ok := <-c.chDelivery:
			if !ok {
				c.log.Warn("delivery channel closed")
				return
			}
			if err := c.delivery(msg); err != nil {
				c.log.Error("mq read message error",
					zap.String("routing_key", msg.RoutingKey),
					zap.Error(err),
				)
			}
		case <-ctx.Done():
			c.chConsume.Close()
			return
		}
	}
}

// actions names the lifecycle step behind each routing key.
var actions = map[string]string{
	mq.RoutingImageUploaded: "ImageUploaded",
	mq.RoutingImageDeleted:  "ImageDeleted",
}

// delivery decodes one lifecycle event and logs it. Uploads that lost
// derivatives are logged as warnings so they can be alerted on.
func (c *Consumer) delivery(msg amqp091.Delivery) error {
	action, ok := actions[msg.RoutingKey]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownRoutingKey, msg.RoutingKey)
	}

	var e mq.Event
	if err := json.Unmarshal(msg.Body, &e); err != nil {
		return fmt.Errorf("decode %s event: %w", action, err)
	}
	if e.Payload.ImageID == "" {
		return fmt.Errorf("decode %s event: %w", action, ErrMissingImageID)
	}

	fields := []zap.Field{
		zap.String("action", action),
		zap.String("event_id", e.Id.String()),
		zap.Time("event_ts", e.TS),
		zap.String("account_id", e.AccountID),
		zap.String("image_id", e.Payload.ImageID),
		zap.String("status", e.Payload.Status),
		zap.Int("derivatives_requested", e.Payload.DerivativesRequested),
		zap.Int("derivatives_generated", e.Payload.DerivativesGenerated),
		zap.Int("derivatives_failed", e.Payload.DerivativesFailed),
	}
	if msg.RoutingKey == mq.RoutingImageUploaded && e.Payload.DerivativesFailed > 0 {
		c.log.Warn("image event: derivatives missing", fields...)
		return nil
	}
	c.log.Info("image event", fields...)

	return nil
}
