package notifier

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	amqp "github.com/rabbitmq/amqp091-go"
)

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// RealTimeProvider реальный провайдер времени для production
type RealTimeProvider struct{}

// Now возвращает текущее время
func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}

// Publisher публикует события уведомлений в RabbitMQ exchange
// Доставка best-effort: ошибка публикации не должна влиять на исход
// операции, которая её вызвала
type Publisher struct {
	conn         *amqp.Connection
	channel      *amqp.Channel
	exchange     string
	timeout      time.Duration
	timeProvider TimeProvider
	log          Logger
}

// NewPublisher подключается к брокеру и объявляет exchange
func NewPublisher(amqpURL, exchange string, timeout time.Duration, log Logger) (*Publisher, error) {
	conn, err := amqp.Dial(amqpURL)
	if err != nil {
		return nil, fmt.Errorf("%w: dial: %v", ErrConnect, err)
	}

	channel, err := conn.Channel()
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("%w: open channel: %v", ErrConnect, err)
	}

	if err := channel.ExchangeDeclare(
		exchange,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		channel.Close()
		conn.Close()
		return nil, fmt.Errorf("%w: declare exchange: %v", ErrConnect, err)
	}

	return &Publisher{
		conn:         conn,
		channel:      channel,
		exchange:     exchange,
		timeout:      timeout,
		timeProvider: &RealTimeProvider{},
		log:          log,
	}, nil
}

// Notify публикует событие для получателя
// Routing key совпадает с типом события (visit.booked, visit.approved, ...)
func (p *Publisher) Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error {
	event := Event{
		EventID:     uuid.NewString(),
		EventType:   eventType,
		RecipientID: recipientID,
		Payload:     payload,
		OccurredAt:  p.timeProvider.Now(),
	}

	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("%w: marshal event: %v", ErrPublish, err)
	}

	publishCtx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	err = p.channel.PublishWithContext(publishCtx,
		p.exchange,
		eventType, // routing key
		false,     // mandatory
		false,     // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			MessageId:    event.EventID,
			Timestamp:    event.OccurredAt,
			DeliveryMode: amqp.Persistent,
			Body:         body,
		})
	if err != nil {
		return fmt.Errorf("%w: %s for recipient=%d: %v", ErrPublish, eventType, recipientID, err)
	}

	p.log.Info("Notifier: published %s event_id=%s recipient=%d", eventType, event.EventID, recipientID)
	return nil
}

// Close закрывает канал и соединение с брокером
func (p *Publisher) Close() error {
	if err := p.channel.Close(); err != nil {
		p.conn.Close()
		return err
	}
	return p.conn.Close()
}

// Noop заглушка диспетчера уведомлений для конфигураций без брокера
type Noop struct{}

// Notify ничего не делает
func (Noop) Notify(ctx context.Context, eventType string, recipientID int64, payload map[string]interface{}) error {
	return nil
}
