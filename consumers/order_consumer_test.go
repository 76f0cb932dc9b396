package consumers

import (
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
)

type recordingAcker struct {
	acked, nacked, requeued bool
}

func (a *recordingAcker) Ack(tag uint64, multiple bool) error {
	a.acked = true
	return nil
}

func (a *recordingAcker) Nack(tag uint64, multiple, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func (a *recordingAcker) Reject(tag uint64, requeue bool) error {
	a.nacked = true
	a.requeued = requeue
	return nil
}

func TestProcessAuditMessage_AcksValidEvent(t *testing.T) {
	acker := &recordingAcker{}
	processAuditMessage(amqp.Delivery{
		Acknowledger: acker,
		Body:         []byte(`{"entity":"order","type":"created","id":7,"occurred":"2024-05-01T10:00:00Z"}`),
	})

	assert.True(t, acker.acked)
	assert.False(t, acker.nacked)
}

func TestProcessAuditMessage_DropsMalformed(t *testing.T) {
	for _, body := range []string{`not json`, `{"id":7}`} {
		acker := &recordingAcker{}
		processAuditMessage(amqp.Delivery{Acknowledger: acker, Body: []byte(body)})

		assert.False(t, acker.acked, body)
		assert.True(t, acker.nacked, body)
		assert.False(t, acker.requeued, body)
	}
}
