// Package queue publishes answer jobs to RabbitMQ. The main queue is a
// priority queue: questions from premium users are enqueued ahead of the
// rest, which is what the "priority search" perk amounts to.
package queue

import (
	"context"
	"encoding/json"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
)

const (
	// PriorityNormal and PriorityPremium are the only two levels in use.
	PriorityNormal  = 0
	PriorityPremium = 9

	maxPriority = 10
)

type Publisher struct {
	conn  *amqp.Connection
	ch    *amqp.Channel
	queue string
}

type JobMessage struct {
	JobID string `json:"job_id"`
}

// QueueDeclarer is the declaration slice of an amqp channel.
type QueueDeclarer interface {
	QueueDeclare(name string, durable, autoDelete, exclusive, noWait bool, args amqp.Table) (amqp.Queue, error)
}

// DeclareTopology declares the main/retry/DLQ queues. Both the publisher and
// the worker run it on startup, so whichever process comes up first creates
// the queues with identical arguments (a re-declare with different arguments
// would fail on the broker). Declarations are idempotent.
func DeclareTopology(ch QueueDeclarer, queue string) error {
	mainQ := queue
	retryQ := queue + ".retry"
	dlqQ := queue + ".dlq"

	declare := func(name string, args amqp.Table) error {
		_, err := ch.QueueDeclare(name, true, false, false, false, args)
		return err
	}

	if err := declare(dlqQ, nil); err != nil {
		return err
	}
	// Retry queue: message TTL dead-letters back to the main queue.
	if err := declare(retryQ, amqp.Table{
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": mainQ,
	}); err != nil {
		return err
	}
	// Main queue: priority-ordered; nack(requeue=false) lands in the DLQ.
	return declare(mainQ, amqp.Table{
		"x-max-priority":            int32(maxPriority),
		"x-dead-letter-exchange":    "",
		"x-dead-letter-routing-key": dlqQ,
	})
}

// NewPublisher dials the broker and declares the main/retry/DLQ topology.
func NewPublisher(url, queue string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, err
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	if err := DeclareTopology(ch, queue); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}

	return &Publisher{conn: conn, ch: ch, queue: queue}, nil
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

// PublishJob enqueues one job id at the given priority.
func (p *Publisher) PublishJob(ctx context.Context, jobID string, priority uint8) error {
	body, err := json.Marshal(JobMessage{JobID: jobID})
	if err != nil {
		return err
	}

	cctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	return p.ch.PublishWithContext(cctx,
		"",      // default exchange
		p.queue, // routing key = queue
		false,
		false,
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Priority:     priority,
			Body:         body,
			Timestamp:    time.Now(),
		},
	)
}
