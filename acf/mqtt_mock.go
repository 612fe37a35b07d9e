package acf

import (
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// StubToken implements mqtt.Token with an immediate result.
type StubToken struct {
	err error
}

func NewStubToken(err error) *StubToken { return &StubToken{err: err} }

func (t *StubToken) Wait() bool { return true }

func (t *StubToken) WaitTimeout(d time.Duration) bool { return true }

func (t *StubToken) Error() error { return t.err }

func (t *StubToken) Done() <-chan struct{} {
	ch := make(chan struct{})
	close(ch)
	return ch
}

// PublishedMessage records one Publish call on a StubClient.
type PublishedMessage struct {
	Topic   string
	Payload []byte
	QoS     byte
	Retain  bool
}

// StubClient is an in-memory mqtt.Client for tests: it records published
// messages and can replay inbound aircraft payloads to subscribers.
type StubClient struct {
	mu         sync.RWMutex
	connected  bool
	publishErr error
	handlers   map[string]mqtt.MessageHandler
	published  []PublishedMessage
}

// NewStubClient creates a connected stub broker client.
func NewStubClient() *StubClient {
	return &StubClient{
		connected: true,
		handlers:  make(map[string]mqtt.MessageHandler),
	}
}

// SetConnected toggles the reported connection state.
func (c *StubClient) SetConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.connected = connected
}

// SetPublishError makes subsequent publishes fail with err.
func (c *StubClient) SetPublishError(err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.publishErr = err
}

// Published returns a copy of all recorded publishes.
func (c *StubClient) Published() []PublishedMessage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]PublishedMessage, len(c.published))
	copy(out, c.published)
	return out
}

// Deliver replays an inbound message to the handler subscribed on topic.
// Wildcard matching is not simulated; subscribe and deliver on the same
// literal topic in tests.
func (c *StubClient) Deliver(topic string, payload []byte) {
	c.mu.RLock()
	handler := c.handlers[topic]
	c.mu.RUnlock()

	if handler != nil {
		handler(c, &stubMessage{topic: topic, payload: payload})
	}
}

func (c *StubClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.connected
}

func (c *StubClient) IsConnectionOpen() bool { return c.IsConnected() }

func (c *StubClient) Connect() mqtt.Token {
	c.SetConnected(true)
	return NewStubToken(nil)
}

func (c *StubClient) Disconnect(quiesce uint) {
	c.SetConnected(false)
}

func (c *StubClient) Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return NewStubToken(mqtt.ErrNotConnected)
	}
	if c.publishErr != nil {
		return NewStubToken(c.publishErr)
	}

	var data []byte
	switch v := payload.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	}

	c.published = append(c.published, PublishedMessage{
		Topic:   topic,
		Payload: data,
		QoS:     qos,
		Retain:  retained,
	})
	return NewStubToken(nil)
}

func (c *StubClient) Subscribe(topic string, qos byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return NewStubToken(mqtt.ErrNotConnected)
	}
	c.handlers[topic] = callback
	return NewStubToken(nil)
}

func (c *StubClient) SubscribeMultiple(filters map[string]byte, callback mqtt.MessageHandler) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.connected {
		return NewStubToken(mqtt.ErrNotConnected)
	}
	for topic := range filters {
		c.handlers[topic] = callback
	}
	return NewStubToken(nil)
}

func (c *StubClient) Unsubscribe(topics ...string) mqtt.Token {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, topic := range topics {
		delete(c.handlers, topic)
	}
	return NewStubToken(nil)
}

func (c *StubClient) AddRoute(topic string, callback mqtt.MessageHandler) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.handlers[topic] = callback
}

func (c *StubClient) OptionsReader() mqtt.ClientOptionsReader {
	return mqtt.ClientOptionsReader{}
}

// stubMessage implements mqtt.Message for replayed payloads.
type stubMessage struct {
	topic   string
	payload []byte
}

func (m *stubMessage) Duplicate() bool   { return false }
func (m *stubMessage) Qos() byte         { return 0 }
func (m *stubMessage) Retained() bool    { return false }
func (m *stubMessage) Topic() string     { return m.topic }
func (m *stubMessage) MessageID() uint16 { return 0 }
func (m *stubMessage) Payload() []byte   { return m.payload }
func (m *stubMessage) Ack()              {}
