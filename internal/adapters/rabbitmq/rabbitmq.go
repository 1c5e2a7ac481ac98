// Package rabbitmq publishes fire-and-forget batch-load lifecycle
// events (SPEC_FULL.md §4.P), structured the way the teacher structures
// its other outbound adapters (Connect/GetChannel + one thin method per
// message), following amqp091-go's own idiomatic channel/exchange/
// publish sequence since the pack's mrabbitmq file is connection
// plumbing only (see DESIGN.md).
package rabbitmq

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const exchangeName = "batch.events"

// Connection wraps a singleton AMQP connection/channel pair and
// declares the topic exchange events are published to.
type Connection struct {
	URL string

	conn      *amqp.Connection
	channel   *amqp.Channel
	connected bool
}

func (c *Connection) connect() (*amqp.Channel, error) {
	if c.connected {
		return c.channel, nil
	}

	conn, err := amqp.Dial(c.URL)
	if err != nil {
		return nil, err
	}

	channel, err := conn.Channel()
	if err != nil {
		return nil, err
	}

	if err := channel.ExchangeDeclare(exchangeName, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		return nil, err
	}

	c.conn = conn
	c.channel = channel
	c.connected = true

	return c.channel, nil
}

// Event is the JSON body published after a batch load completes
// (SPEC_FULL.md §4.P). No event is published for a failed batch.
type Event struct {
	BatchLoadID    string    `json:"batchLoadId"`
	Status         string    `json:"status"`
	TotalProcessed int       `json:"totalProcessed"`
	StoredCount    int       `json:"storedCount"`
	ErrorCount     int       `json:"errorCount"`
	OccurredAt     time.Time `json:"occurredAt"`
}

// Publisher publishes Event values to the batch.events exchange,
// routed by the status string passed to Publish (the service passes
// "completed").
type Publisher struct {
	conn *Connection
}

func NewPublisher(conn *Connection) *Publisher {
	return &Publisher{conn: conn}
}

// Publish sends event with routing key status. A publish failure is
// never surfaced to the HTTP caller — it is outside the transactional
// boundary by design (spec.md §4.G, SPEC_FULL.md §4.P Open Question) —
// so the caller should log, not propagate, any returned error.
func (p *Publisher) Publish(ctx context.Context, status string, event Event) error {
	channel, err := p.conn.connect()
	if err != nil {
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	return channel.PublishWithContext(ctx, exchangeName, status, false, false, amqp.Publishing{
		ContentType: "application/json",
		Body:        body,
		Timestamp:   time.Now(),
	})
}
