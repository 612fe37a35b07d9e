package acf

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultPublishPrefix is the topic prefix for converted output.
const DefaultPublishPrefix = "acf2sdf"

// ConversionReport summarizes one conversion for downstream consumers and
// dashboards. It rides alongside the SDF payload on its own topic.
type ConversionReport struct {
	Model       string       `json:"model"`
	Mass        float64      `json:"mass"`
	Parts       int          `json:"parts"`
	Points      int          `json:"points"`
	Rotors      int          `json:"rotors"`
	Wings       int          `json:"wings"`
	Gear        int          `json:"gear"`
	Diagnostics []Diagnostic `json:"diagnostics,omitempty"`
	Timestamp   int64        `json:"timestamp"`
}

// NewConversionReport builds a report from an assembled scene.
func NewConversionReport(scene *Scene, diags Diagnostics) *ConversionReport {
	return &ConversionReport{
		Model:       scene.Name,
		Mass:        scene.Inertial.Mass,
		Parts:       len(scene.Collisions),
		Points:      scene.PointCount,
		Rotors:      len(scene.Rotors),
		Wings:       len(scene.Wings),
		Gear:        len(scene.Gear),
		Diagnostics: diags,
		Timestamp:   time.Now().Unix(),
	}
}

// Publisher pushes converted models and their reports to MQTT. Models are
// published retained so late subscribers get the latest conversion.
type Publisher struct {
	client mqtt.Client
	prefix string
	qos    byte
	retain bool
}

// NewPublisher creates a publisher over a connected client. An empty prefix
// falls back to DefaultPublishPrefix.
func NewPublisher(client mqtt.Client, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPublishPrefix
	}
	return &Publisher{
		client: client,
		prefix: prefix,
		qos:    1, // models are not fire-and-forget position updates
		retain: true,
	}
}

// SetQoS sets the publish QoS level (0, 1 or 2).
func (p *Publisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// PublishModel publishes the SDF document to <prefix>/model/<name>.
func (p *Publisher) PublishModel(name string, sdfXML []byte) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	topic := fmt.Sprintf("%s/model/%s", p.prefix, name)
	token := p.client.Publish(topic, p.qos, p.retain, sdfXML)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("Published model %s (%d bytes) to %s", name, len(sdfXML), topic)
	return nil
}

// PublishReport publishes the conversion report to <prefix>/report/<name>.
func (p *Publisher) PublishReport(report *ConversionReport) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	payload, err := json.Marshal(report)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	topic := fmt.Sprintf("%s/report/%s", p.prefix, report.Model)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	return nil
}
