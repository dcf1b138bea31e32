package rabbitmq

import (
	"errors"
	"fmt"
	"sync"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"
)

var (
	ErrPoolExhausted = errors.New("no channels available in pool")
	ErrPoolClosed    = errors.New("channel pool is closed")
)

// ChannelPool shares one connection and keeps size pre-opened channels, each
// with the order queue declared.
type ChannelPool struct {
	conn      *amqp.Connection
	channels  chan *amqp.Channel
	queueName string
	logger    *zap.Logger

	mu     sync.Mutex
	closed bool
}

func NewChannelPool(url, queueName string, size int, logger *zap.Logger) (*ChannelPool, error) {
	if size < 1 {
		return nil, fmt.Errorf("pool size[%d] must be positive", size)
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("amqp.Dial: %w", err)
	}

	pool := &ChannelPool{
		conn:      conn,
		channels:  make(chan *amqp.Channel, size),
		queueName: queueName,
		logger:    logger,
	}

	for i := range size {
		ch, err := pool.openChannel()
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("openChannel[%d]: %w", i, err)
		}
		pool.channels <- ch
	}

	logger.Info("rabbitmq channel pool ready", zap.Int("size", size), zap.String("queue", queueName))

	return pool, nil
}

func (p *ChannelPool) openChannel() (*amqp.Channel, error) {
	ch, err := p.conn.Channel()
	if err != nil {
		return nil, fmt.Errorf("conn.Channel: %w", err)
	}

	_, err = ch.QueueDeclare(
		p.queueName, // name
		true,        // durable
		false,       // delete when unused
		false,       // exclusive
		false,       // no-wait
		nil,         // arguments
	)
	if err != nil {
		_ = ch.Close()
		return nil, fmt.Errorf("ch.QueueDeclare: %w", err)
	}

	return ch, nil
}

// Get takes a channel without blocking, replacing it if the broker closed it.
func (p *ChannelPool) Get() (*amqp.Channel, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrPoolClosed
	}

	select {
	case ch := <-p.channels:
		if ch.IsClosed() {
			return p.openChannel()
		}
		return ch, nil
	default:
		return nil, ErrPoolExhausted
	}
}

// Put hands a channel back. Closed channels are dropped and surplus ones closed.
// After Close the connection is gone, so returned channels are simply dropped.
func (p *ChannelPool) Put(ch *amqp.Channel) {
	if ch == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed || ch.IsClosed() {
		return
	}

	select {
	case p.channels <- ch:
	default:
		_ = ch.Close()
	}
}

// Close drains the pool and closes the connection. The channel itself is
// never closed, so late Get and Put calls from in-flight publishes are safe.
func (p *ChannelPool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return
	}
	p.closed = true

drain:
	for {
		select {
		case ch := <-p.channels:
			_ = ch.Close()
		default:
			break drain
		}
	}

	if p.conn != nil {
		_ = p.conn.Close()
	}
	p.logger.Info("rabbitmq channel pool closed")
}
