package mq

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"
)

const (
	ExchangeName = "events"
	ExchangeKind = "topic"
)

// 启动时 broker 可能还没就绪（compose 里和 worker 同时启动）
const (
	dialAttempts = 5
	dialBackoff  = 500 * time.Millisecond
)

// NewConnection dials RabbitMQ, retrying with doubling backoff. name shows up
// as the connection name in the management UI.
func NewConnection(url, name string) (*amqp091.Connection, error) {
	cfg := amqp091.Config{
		Heartbeat:  10 * time.Second,
		Locale:     "en_US",
		Properties: amqp091.Table{"connection_name": name},
	}

	var lastErr error
	backoff := dialBackoff
	for attempt := 1; attempt <= dialAttempts; attempt++ {
		conn, err := amqp091.DialConfig(url, cfg)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		if attempt < dialAttempts {
			time.Sleep(backoff)
			backoff *= 2
		}
	}
	return nil, fmt.Errorf("failed to connect to RabbitMQ after %d attempts: %w", dialAttempts, lastErr)
}

// DeclareExchange declares the durable events exchange.
func DeclareExchange(ch *amqp091.Channel) error {
	return ch.ExchangeDeclare(
		ExchangeName,
		ExchangeKind,
		true,  // durable
		false, // autoDelete
		false, // internal
		false, // noWait
		nil,
	)
}
