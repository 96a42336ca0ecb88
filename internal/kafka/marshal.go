package kafka

import (
	"encoding/json"
	"strconv"

	"github.com/ariefcatur/go-shop-api/internal/shop"
	"github.com/segmentio/kafka-go"
)

// EnvelopeHeaders are attached to every published envelope so consumers can
// route on type and version without decoding the value.
func EnvelopeHeaders(ev shop.Envelope) []kafka.Header {
	return []kafka.Header{
		{Key: "x-event-type", Value: []byte(ev.EventType)},
		{Key: "x-event-version", Value: []byte(strconv.Itoa(ev.EventVersion))},
	}
}

// PublishEnvelope encodes ev and queues it on topic, keyed by key. An
// envelope that cannot be encoded is logged and dropped.
func (p *Producer) PublishEnvelope(topic string, key []byte, ev shop.Envelope) {
	value, err := json.Marshal(ev)
	if err != nil {
		p.logger.Printf("encode %s envelope %s: %v", ev.EventType, ev.EventID, err)
		return
	}
	p.Publish(topic, key, value, EnvelopeHeaders(ev)...)
}
