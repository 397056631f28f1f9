package locator

import (
	"encoding/json"
	"fmt"
	"log"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// TargetPublisher publishes located-target solutions to MQTT after each
// batch-triggered FindTargets run.
type TargetPublisher struct {
	client        mqtt.Client
	publishPrefix string
	qos           byte
	retain        bool
}

// NewTargetPublisher creates a publisher under the given topic prefix. If
// client is nil, Publish is a no-op (used in tests and offline CLI runs).
func NewTargetPublisher(client mqtt.Client, publishPrefix string) *TargetPublisher {
	if publishPrefix == "" {
		publishPrefix = "raylocate"
	}
	return &TargetPublisher{
		client:        client,
		publishPrefix: publishPrefix,
		qos:           0,
		retain:        true,
	}
}

// Publish publishes each located target to its own topic
// ({prefix}/targets/{id}) and the full set to a combined topic
// ({prefix}/targets).
func (p *TargetPublisher) Publish(targets []LocatedTarget) error {
	if p.client == nil {
		return nil
	}
	if !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	for _, t := range targets {
		topic := fmt.Sprintf("%s/targets/%s", p.publishPrefix, t.ID)
		payload, err := json.Marshal(t)
		if err != nil {
			return fmt.Errorf("marshaling target %s: %w", t.ID, err)
		}
		token := p.client.Publish(topic, p.qos, p.retain, payload)
		if token.WaitTimeout(2*time.Second) && token.Error() != nil {
			log.Printf("error publishing to %s: %v", topic, token.Error())
			return fmt.Errorf("publishing to %s: %w", topic, token.Error())
		}
	}

	combined := map[string]interface{}{
		"targets":   targets,
		"timestamp": time.Now().Unix(),
	}
	payload, err := json.Marshal(combined)
	if err != nil {
		return fmt.Errorf("marshaling combined targets: %w", err)
	}
	topic := fmt.Sprintf("%s/targets", p.publishPrefix)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}

	log.Printf("published %d target(s) to %s", len(targets), p.publishPrefix)
	return nil
}

// SetQoS sets the publish QoS level (0, 1, or 2).
func (p *TargetPublisher) SetQoS(qos byte) {
	if qos <= 2 {
		p.qos = qos
	}
}

// SetRetain sets whether published messages are retained by the broker.
func (p *TargetPublisher) SetRetain(retain bool) {
	p.retain = retain
}
