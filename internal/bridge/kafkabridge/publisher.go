// Package kafkabridge publishes camera commands to Kafka, keyed by camera id
// so each camera's commands stay ordered within one partition.
package kafkabridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/IBM/sarama"

	"github.com/mohammed-shakir/camera-stop-engine/internal/bridge"
	"github.com/mohammed-shakir/camera-stop-engine/internal/camera/resolve"
	"github.com/mohammed-shakir/camera-stop-engine/internal/core/observability"
)

var (
	ErrQueueFull = errors.New("kafkabridge: queue full")
	ErrClosed    = errors.New("kafkabridge: publisher closed")
)

type Publisher struct {
	topic   string
	log     *slog.Logger
	cmds    chan bridge.Command
	prod    sarama.AsyncProducer
	stopped chan struct{}

	mu     sync.RWMutex
	closed bool
}

var _ bridge.Bridge = (*Publisher)(nil)

func NewPublisher(brokers []string, topic string, queueSize int, log *slog.Logger) (*Publisher, error) {
	cfg := sarama.NewConfig()
	cfg.Version = sarama.V2_5_0_0
	cfg.Producer.Return.Errors = true
	cfg.Producer.Return.Successes = false
	cfg.Producer.Partitioner = sarama.NewHashPartitioner

	prod, err := sarama.NewAsyncProducer(brokers, cfg)
	if err != nil {
		return nil, fmt.Errorf("kafkabridge: create async producer: %w", err)
	}
	return newWithProducer(prod, topic, queueSize, log), nil
}

func newWithProducer(prod sarama.AsyncProducer, topic string, queueSize int, log *slog.Logger) *Publisher {
	if queueSize <= 0 {
		queueSize = 1024
	}
	if log == nil {
		log = slog.Default()
	}
	p := &Publisher{
		topic:   topic,
		log:     log,
		cmds:    make(chan bridge.Command, queueSize),
		prod:    prod,
		stopped: make(chan struct{}),
	}

	go func() {
		defer close(p.stopped)
		for c := range p.cmds {
			b, err := json.Marshal(c)
			if err != nil {
				p.log.Error("kafkabridge: marshal command", "err", err, "camera_id", c.CameraID)
				observability.IncBridgePublish("kafka", err)
				continue
			}
			p.prod.Input() <- &sarama.ProducerMessage{
				Topic:     p.topic,
				Key:       sarama.StringEncoder(c.CameraID),
				Value:     sarama.ByteEncoder(b),
				Timestamp: c.TS,
			}
			observability.IncBridgePublish("kafka", nil)
		}
	}()

	go func() {
		for perr := range p.prod.Errors() {
			if perr != nil {
				p.log.Error("kafkabridge: producer error", "err", perr.Err, "topic", perr.Msg.Topic)
				observability.IncBridgePublish("kafka", perr.Err)
			}
		}
	}()

	return p
}

// Apply enqueues the commands without blocking the request path. When the
// queue is full the remaining commands of this batch are dropped.
func (p *Publisher) Apply(_ context.Context, cameraID string, actions []resolve.Action) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		observability.IncBridgePublish("kafka", ErrClosed)
		return ErrClosed
	}
	for _, c := range bridge.Commands(cameraID, actions, time.Now().UTC()) {
		select {
		case p.cmds <- c:
		default:
			observability.IncBridgePublish("kafka", ErrQueueFull)
			return ErrQueueFull
		}
	}
	return nil
}

// Close drains queued commands, then closes the producer. Later calls to
// Apply return ErrClosed; a second Close is a no-op.
func (p *Publisher) Close() error {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return nil
	}
	p.closed = true
	close(p.cmds)
	p.mu.Unlock()
	<-p.stopped

	if err := p.prod.Close(); err != nil {
		return fmt.Errorf("kafkabridge: close producer: %w", err)
	}
	return nil
}
