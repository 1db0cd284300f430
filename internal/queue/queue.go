package queue

import (
	"fmt"
	"time"

	"github.com/rabbitmq/amqp091-go"

	"github.com/corvid-labs/magpie/internal/util"
	"github.com/corvid-labs/magpie/pkg/logger"
)

// Queue names consumed by the worker. Each gets a companion dead-letter
// queue and a TTL retry queue that dead-letters back into the main one.
const (
	IngestQueue = "ingest_queue"
	DeleteQueue = "delete_queue"
)

// Queues lists every work queue the system declares.
var Queues = []string{IngestQueue, DeleteQueue}

// Dial attempts made at startup, with a pause between them so a broker
// that is still booting can catch up.
const (
	connectRetries    = 5
	connectRetryDelay = 2 * time.Second
)

// Init connects to RabbitMQ using the environment configuration.
func Init() *amqp091.Connection {
	connURL := fmt.Sprintf(
		"amqp://%s:%s@%s:%s/",
		util.GetEnv("RABBITMQ_USER"),
		util.GetEnv("RABBITMQ_PASSWORD"),
		util.GetEnv("RABBITMQ_HOST"),
		util.GetEnv("RABBITMQ_PORT"),
	)

	var conn *amqp091.Connection
	err := util.RetryErr(connectRetries, func() error {
		var dialErr error
		conn, dialErr = amqp091.Dial(connURL)
		if dialErr != nil {
			logger.Warn("RabbitMQ not reachable, retrying", "err", dialErr)
			time.Sleep(connectRetryDelay)
		}
		return dialErr
	})
	if err != nil {
		logger.Fatal("Failed to connect to RabbitMQ", "err", err)
	}

	return conn
}

// SetupQueues declares every work queue together with its dead-letter and
// retry companions. Safe to call from both server and worker.
func SetupQueues(ch *amqp091.Channel) error {
	for _, name := range Queues {
		_, err := ch.QueueDeclare(
			name,
			true,  // durable
			false, // autoDelete
			false, // exclusive
			false, // noWait
			nil,   // args
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s: %w", name, err)
		}

		_, err = ch.QueueDeclare(
			name+"_dlq",
			true,
			false,
			false,
			false,
			nil,
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s_dlq: %w", name, err)
		}

		_, err = ch.QueueDeclare(
			name+"_retry",
			true,
			false,
			false,
			false,
			amqp091.Table{
				"x-message-ttl":             int32(10000),
				"x-dead-letter-exchange":    "",
				"x-dead-letter-routing-key": name,
			},
		)
		if err != nil {
			return fmt.Errorf("failed to declare queue %s_retry: %w", name, err)
		}
	}

	return nil
}

// Publish sends a persistent message to the named queue.
func Publish(ch *amqp091.Channel, queueName string, data []byte) error {
	publishing := amqp091.Publishing{
		ContentType:  "application/json",
		Body:         data,
		DeliveryMode: amqp091.Persistent,
		Timestamp:    time.Now(),
	}

	if err := ch.Publish("", queueName, false, false, publishing); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", queueName, err)
	}
	return nil
}

// maxRetries is how many redeliveries a message gets before it is parked
// in the dead-letter queue.
const maxRetries = 10

// HandleProcessingError routes a failed delivery: to the retry queue with
// an incremented retry header, or to the DLQ once retries are exhausted.
func HandleProcessingError(ch *amqp091.Channel, msg amqp091.Delivery, queueName string) {
	retries := 0
	if val, ok := msg.Headers["x-retries"]; ok {
		if v, ok := val.(int32); ok {
			retries = int(v)
		}
	}

	if retries >= maxRetries {
		dlqName := queueName + "_dlq"
		logger.Info("Sending message to DLQ", "dlq", dlqName)
		pubErr := ch.Publish("", dlqName, false, false, amqp091.Publishing{
			ContentType: msg.ContentType,
			Body:        msg.Body,
			Headers:     msg.Headers,
		})
		if pubErr != nil {
			logger.Error("Failed to publish to DLQ", "dlq", dlqName, "err", pubErr)
			msg.Nack(false, true)
			return
		}
		msg.Ack(false)
		return
	}

	headers := msg.Headers
	if headers == nil {
		headers = amqp091.Table{}
	}
	headers["x-retries"] = int32(retries + 1)

	retryName := queueName + "_retry"
	pubErr := ch.Publish("", retryName, false, false, amqp091.Publishing{
		ContentType: msg.ContentType,
		Body:        msg.Body,
		Headers:     headers,
	})
	if pubErr != nil {
		logger.Error("Failed to publish to retry queue", "retry_queue", retryName, "err", pubErr)
		msg.Nack(false, true)
		return
	}
	msg.Ack(false)
}
