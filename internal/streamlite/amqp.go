package streamlite

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/rs/zerolog"
)

// declareExchange makes sure the durable topic exchange exists
func declareExchange(ch *amqp.Channel, name string) error {
	return ch.ExchangeDeclare(
		name,    // name
		"topic", // type
		true,    // durable
		false,   // auto-delete
		false,   // internal
		false,   // noWait
		nil,     // arguments
	)
}

// ReloadFunc is called for every change notice
type ReloadFunc func(ctx context.Context, notice ChangeNotice) error

// CatalogFeed listens for change notices on an exclusive queue bound to the
// exchange and calls onChange for each one
type CatalogFeed struct {
	*BaseConnector
	url      string
	exchange string
	onChange ReloadFunc
	logger   zerolog.Logger

	conn   *amqp.Connection
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// Ensure CatalogFeed implements Connector
var _ Connector = (*CatalogFeed)(nil)

// NewCatalogFeed creates a feed; nothing connects until Start
func NewCatalogFeed(url, exchange string, onChange ReloadFunc, logger zerolog.Logger) *CatalogFeed {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &CatalogFeed{
		BaseConnector: NewBaseConnector("catalog-feed"),
		url:           url,
		exchange:      exchange,
		onChange:      onChange,
		logger:        logger,
	}
}

// Start connects, binds a private queue and begins consuming
func (f *CatalogFeed) Start() error {
	conn, err := amqp.DialConfig(f.url, amqp.Config{
		Properties: amqp.NewConnectionProperties(),
	})
	if err != nil {
		return fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareExchange(ch, f.exchange); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare exchange %s: %w", f.exchange, err)
	}

	q, err := ch.QueueDeclare(
		"",    // name
		false, // durable
		false, // delete when unused
		true,  // exclusive
		false, // no-wait
		nil,   // arguments
	)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to declare queue: %w", err)
	}
	if err := ch.QueueBind(q.Name, "#", f.exchange, false, nil); err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to bind queue: %w", err)
	}
	msgs, err := ch.Consume(q.Name, f.Name(), false, true, false, false, nil)
	if err != nil {
		_ = conn.Close()
		return fmt.Errorf("failed to consume: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	f.conn = conn
	f.cancel = cancel
	f.wg.Add(1)
	go f.consume(ctx, msgs)

	f.logger.Info().Str("exchange", f.exchange).Str("queue", q.Name).Msg("listening for catalog changes")
	return f.BaseConnector.Start()
}

func (f *CatalogFeed) consume(ctx context.Context, msgs <-chan amqp.Delivery) {
	defer f.wg.Done()
	for d := range msgs {
		if err := f.handle(ctx, d.Body); err != nil {
			f.logger.Error().Err(err).Msg("failed to apply catalog change")
			_ = d.Nack(false, false)
			continue
		}
		_ = d.Ack(false)
	}
}

func (f *CatalogFeed) handle(ctx context.Context, body []byte) error {
	notice, err := decodeNotice(body)
	if err != nil {
		return fmt.Errorf("invalid change notice: %w", err)
	}
	f.logger.Debug().Uint64("fingerprint", notice.Fingerprint).Int("count", notice.Count).Msg("catalog change notice")
	return f.onChange(ctx, notice)
}

// Stop closes the connection and waits for the consumer to drain
func (f *CatalogFeed) Stop() error {
	if f.cancel != nil {
		f.cancel()
	}
	var err error
	if f.conn != nil {
		if cerr := f.conn.Close(); cerr != nil && !errors.Is(cerr, amqp.ErrClosed) {
			err = cerr
		}
	}
	f.wg.Wait()
	_ = f.BaseConnector.Stop()
	return err
}

// Publisher sends change notices to the exchange
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

// NewPublisher dials RabbitMQ and declares the exchange
func NewPublisher(url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to open channel: %w", err)
	}
	if err := declareExchange(ch, exchange); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("failed to declare exchange %s: %w", exchange, err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Publish sends notice to every bound feed
func (p *Publisher) Publish(ctx context.Context, notice ChangeNotice) error {
	body, err := sonic.Marshal(notice)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx,
		p.exchange,
		"catalog.updated",
		false,
		false,
		amqp.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}

// Close closes the channel and connection
func (p *Publisher) Close() error {
	_ = p.ch.Close()
	return p.conn.Close()
}
