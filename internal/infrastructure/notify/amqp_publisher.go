package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/bytedance/sonic"
	"github.com/streadway/amqp"

	"github.com/arenaops/matchdesk/internal/domain/matchevent"
)

// AMQPPublisher broadcasts persisted timeline batches on a topic exchange
// so portal frontends and downstream feeds can follow live updates. The
// routing key is fixture.<id>; consumers bind as narrowly as they like.
type AMQPPublisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewAMQPPublisher(url, exchange string) (*AMQPPublisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial amqp broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open amqp channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange %s: %w", exchange, err)
	}
	return &AMQPPublisher{conn: conn, ch: ch, exchange: exchange}, nil
}

type eventMessage struct {
	Kind       string    `json:"kind"`
	Change     string    `json:"change"`
	Message    string    `json:"message"`
	PrevScoreA *int      `json:"prev_score_a,omitempty"`
	PrevScoreB *int      `json:"prev_score_b,omitempty"`
	NewScoreA  *int      `json:"new_score_a,omitempty"`
	NewScoreB  *int      `json:"new_score_b,omitempty"`
	CreatedBy  string    `json:"created_by,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

type batchMessage struct {
	FixtureID string         `json:"fixture_id"`
	Events    []eventMessage `json:"events"`
}

func (p *AMQPPublisher) PublishEvents(_ context.Context, fixtureID string, events []matchevent.Event) error {
	msg := batchMessage{FixtureID: fixtureID, Events: make([]eventMessage, 0, len(events))}
	for _, e := range events {
		msg.Events = append(msg.Events, eventMessage{
			Kind:       e.Kind,
			Change:     e.Change,
			Message:    e.Message,
			PrevScoreA: e.PrevScoreA,
			PrevScoreB: e.PrevScoreB,
			NewScoreA:  e.NewScoreA,
			NewScoreB:  e.NewScoreB,
			CreatedBy:  e.CreatedBy,
			CreatedAt:  e.CreatedAt,
		})
	}

	body, err := sonic.Marshal(msg)
	if err != nil {
		return fmt.Errorf("marshal event batch: %w", err)
	}

	if err := p.ch.Publish(p.exchange, "fixture."+fixtureID, false, false, amqp.Publishing{
		ContentType: "application/json",
		Timestamp:   time.Now().UTC(),
		Body:        body,
	}); err != nil {
		return fmt.Errorf("publish event batch: %w", err)
	}
	return nil
}

func (p *AMQPPublisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}
