// Package mq carries change notifications between writers and live list
// subscribers. Deployments with a broker use MQTT; single-process setups and
// tests use the in-memory bus.
package mq

import (
	"fmt"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// Bus publishes and subscribes to change notifications. The payload is the
// id of the changed document, or empty for bulk changes.
type Bus interface {
	Publish(topic, payload string) error
	// Subscribe returns a channel of payloads and a cancel function that
	// stops delivery and closes the channel.
	Subscribe(topic string) (<-chan string, func(), error)
}

// MQTTBus is a Bus backed by an MQTT broker.
type MQTTBus struct {
	client mqtt.Client
}

// ConnectMQTT connects to the broker and returns an MQTT-backed bus.
func ConnectMQTT(broker, clientID string) (*MQTTBus, error) {
	opts := mqtt.NewClientOptions().AddBroker(broker).SetClientID(clientID).SetAutoReconnect(true)
	client := mqtt.NewClient(opts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect: %w", token.Error())
	}
	return &MQTTBus{client: client}, nil
}

// Publish sends a payload to the topic at QoS 0.
func (b *MQTTBus) Publish(topic, payload string) error {
	token := b.client.Publish(topic, 0, false, payload)
	token.Wait()
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt publish %s: %w", topic, err)
	}
	return nil
}

// Subscribe delivers payloads for the topic until cancelled. Slow consumers
// drop messages rather than block the MQTT callback.
func (b *MQTTBus) Subscribe(topic string) (<-chan string, func(), error) {
	ch := make(chan string, 16)
	var once sync.Once
	token := b.client.Subscribe(topic, 0, func(_ mqtt.Client, msg mqtt.Message) {
		select {
		case ch <- string(msg.Payload()):
		default:
		}
	})
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, nil, fmt.Errorf("mqtt subscribe %s: %w", topic, err)
	}
	cancel := func() {
		once.Do(func() {
			b.client.Unsubscribe(topic).Wait()
			close(ch)
		})
	}
	return ch, cancel, nil
}

// Disconnect closes the broker connection.
func (b *MQTTBus) Disconnect() {
	b.client.Disconnect(250)
}

// MemoryBus is an in-process Bus.
type MemoryBus struct {
	mu   sync.Mutex
	subs map[string]map[int]chan string
	next int
}

// NewMemoryBus creates an in-process bus.
func NewMemoryBus() *MemoryBus {
	return &MemoryBus{subs: make(map[string]map[int]chan string)}
}

// Publish delivers the payload to every current subscriber of the topic.
func (b *MemoryBus) Publish(topic, payload string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, ch := range b.subs[topic] {
		select {
		case ch <- payload:
		default:
		}
	}
	return nil
}

// Subscribe registers a subscriber for the topic.
func (b *MemoryBus) Subscribe(topic string) (<-chan string, func(), error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subs[topic] == nil {
		b.subs[topic] = make(map[int]chan string)
	}
	id := b.next
	b.next++
	ch := make(chan string, 16)
	b.subs[topic][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			delete(b.subs[topic], id)
			b.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel, nil
}
