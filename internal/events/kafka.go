package events

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// KafkaPublisher buffers events in memory and writes them from one goroutine.
// When the buffer is full the event is dropped and logged.
type KafkaPublisher struct {
	w        messageWriter
	producer string
	inbox    chan kafka.Message
	done     chan struct{}
	once     sync.Once
	logger   *zap.Logger
}

func NewKafkaPublisher(brokers []string, topic, producer string, buf int, logger *zap.Logger) *KafkaPublisher {
	w := &kafka.Writer{
		Addr:         kafka.TCP(brokers...),
		Topic:        topic,
		Balancer:     &kafka.Hash{},
		RequiredAcks: kafka.RequireAll,
	}
	return newKafkaPublisher(w, producer, buf, logger)
}

func newKafkaPublisher(w messageWriter, producer string, buf int, logger *zap.Logger) *KafkaPublisher {
	if logger == nil {
		logger = zap.NewNop()
	}
	if buf <= 0 {
		buf = 256
	}
	return &KafkaPublisher{
		w:        w,
		producer: producer,
		inbox:    make(chan kafka.Message, buf),
		done:     make(chan struct{}),
		logger:   logger,
	}
}

// Start runs the write loop until Close.
func (p *KafkaPublisher) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			if err := p.w.WriteMessages(ctx, m); err != nil {
				p.logger.Warn("event write failed", zap.ByteString("key", m.Key), zap.Error(err))
			}
			cancel()
		}
		if err := p.w.Close(); err != nil {
			p.logger.Warn("event writer close failed", zap.Error(err))
		}
	}()
}

func (p *KafkaPublisher) Publish(_ context.Context, eventType, key string, payload any) {
	env, err := NewEnvelope(p.producer, eventType, key, payload)
	if err != nil {
		p.logger.Warn("event marshal failed", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	value, err := json.Marshal(env)
	if err != nil {
		p.logger.Warn("event marshal failed", zap.String("event_type", eventType), zap.Error(err))
		return
	}
	msg := kafka.Message{
		Key:     []byte(key),
		Value:   value,
		Time:    env.OccurredAt,
		Headers: []kafka.Header{{Key: "event_type", Value: []byte(eventType)}},
	}
	select {
	case p.inbox <- msg:
	default:
		p.logger.Warn("event buffer full, dropped", zap.String("event_type", eventType), zap.String("event_id", env.EventID))
	}
}

// Close flushes buffered events and waits for the writer to close. Publish
// must not be called after Close.
func (p *KafkaPublisher) Close() {
	p.once.Do(func() { close(p.inbox) })
	<-p.done
}
