package rabbitmq

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/freshmart-cart/internal/domain"
	"github.com/nikolayk812/freshmart-cart/internal/port"
	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

const publishTimeout = 5 * time.Second

// OrderMessage is the body published for every submitted order.
type OrderMessage struct {
	OrderID  string    `json:"order_id"`
	PlacedAt time.Time `json:"placed_at"`
	domain.OrderRequest
}

// Publisher submits orders by publishing them to a durable queue. The order
// id is assigned here, so the order is accepted once the broker has it.
type Publisher struct {
	pool      *ChannelPool
	queueName string
	logger    *zap.Logger
	now       func() time.Time
}

var _ port.OrderSubmitter = (*Publisher)(nil)

func NewPublisher(pool *ChannelPool, queueName string, logger *zap.Logger) *Publisher {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Publisher{
		pool:      pool,
		queueName: queueName,
		logger:    logger,
		now:       time.Now,
	}
}

func (p *Publisher) SubmitOrder(ctx context.Context, order domain.OrderRequest) (domain.OrderConfirmation, error) {
	msg := OrderMessage{
		OrderID:      uuid.NewString(),
		PlacedAt:     p.now().UTC(),
		OrderRequest: order,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("json.Marshal: %w", err)
	}

	ch, err := p.pool.Get()
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("pool.Get: %w", err)
	}
	defer p.pool.Put(ch)

	ctx, cancel := context.WithTimeout(ctx, publishTimeout)
	defer cancel()

	err = ch.PublishWithContext(ctx,
		"",          // exchange
		p.queueName, // routing key (queue name)
		false,       // mandatory
		false,       // immediate
		amqp.Publishing{
			DeliveryMode: amqp.Persistent,
			ContentType:  "application/json",
			MessageId:    msg.OrderID,
			Timestamp:    msg.PlacedAt,
			Body:         body,
		})
	if err != nil {
		return domain.OrderConfirmation{}, fmt.Errorf("ch.PublishWithContext: %w", err)
	}

	p.logger.Info("order published",
		zap.String("order_id", msg.OrderID),
		zap.Int("items", len(order.Items)))

	return domain.OrderConfirmation{ID: msg.OrderID}, nil
}
