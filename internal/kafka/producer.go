package kafka

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/segmentio/kafka-go"
)

// Producer buffers messages in an inbox and writes them from one goroutine.
// Publish never waits on the broker. Messages published after Close are
// dropped and logged.
type Producer struct {
	w      *kafka.Writer
	inbox  chan kafka.Message
	done   chan struct{}
	logger *log.Logger

	mu     sync.RWMutex
	closed bool
}

func NewProducer(brokers []string, buf int, logger *log.Logger) *Producer {
	p := &Producer{
		inbox:  make(chan kafka.Message, buf),
		done:   make(chan struct{}),
		logger: logger,
	}
	p.w = &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
		Async:                  true,
		Completion:             p.completed,
	}
	return p
}

func (p *Producer) Start() {
	go func() {
		defer close(p.done)
		for m := range p.inbox {
			if err := p.w.WriteMessages(context.Background(), m); err != nil {
				p.logger.Printf("kafka write %s: %v", m.Topic, err)
			}
		}
		if err := p.w.Close(); err != nil {
			p.logger.Printf("kafka writer close: %v", err)
		}
	}()
}

func (p *Producer) Publish(topic string, key, value []byte, headers ...kafka.Header) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		p.logger.Printf("kafka producer closed, dropping message for %s", topic)
		return
	}
	p.inbox <- kafka.Message{
		Topic:   topic,
		Key:     key,
		Value:   value,
		Time:    time.Now(),
		Headers: headers,
	}
}

// Close stops accepting messages, flushes what is buffered and waits for
// the writer to shut down. It is safe to call more than once.
func (p *Producer) Close() {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.inbox)
	}
	p.mu.Unlock()
	<-p.done
}

func (p *Producer) completed(msgs []kafka.Message, err error) {
	if err != nil {
		p.logger.Printf("kafka delivery of %d message(s) failed: %v", len(msgs), err)
	}
}
