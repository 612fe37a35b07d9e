package acf

import (
	"fmt"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// DefaultSubscribeTopic receives raw .acf payloads. The final topic segment
// names the aircraft and becomes the SDF model name.
const DefaultSubscribeTopic = "acf2sdf/aircraft/+"

// AircraftHandler is called for every raw .acf payload received in service
// mode. name is the last topic segment.
type AircraftHandler func(name string, payload []byte)

// MQTTClient manages the broker connection for service mode: it subscribes
// to the aircraft topic and hands each payload to the conversion handler.
type MQTTClient struct {
	client      mqtt.Client
	config      *Config
	handler     AircraftHandler
	isConnected bool
	mu          sync.RWMutex
}

// InitMQTT initializes the MQTT client. The broker comes from the config,
// overridable via MQTT_BROKER. Returns nil (no error) when MQTT is not
// configured, so callers can treat service mode as disabled.
func InitMQTT(config *Config, handler AircraftHandler) (*MQTTClient, error) {
	broker := os.Getenv("MQTT_BROKER")
	if broker == "" && config != nil {
		broker = config.MQTT.Broker
	}
	if broker == "" {
		log.Println("MQTT disabled: no broker configured")
		return nil, nil
	}
	if handler == nil {
		return nil, fmt.Errorf("MQTT enabled but no aircraft handler provided")
	}

	c := &MQTTClient{config: config, handler: handler}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(broker)

	clientID := config.MQTT.ClientID
	if clientID == "" {
		clientID = "acf2sdf"
	}
	opts.SetClientID(clientID)

	if config.MQTT.Username != "" {
		opts.SetUsername(config.MQTT.Username)
		opts.SetPassword(config.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetCleanSession(false) // keep the aircraft subscription across reconnects

	opts.SetOnConnectHandler(c.onConnect)
	opts.SetConnectionLostHandler(c.onConnectionLost)

	c.client = mqtt.NewClient(opts)

	go c.connectWithRetry()

	return c, nil
}

// connectWithRetry connects with exponential backoff.
func (c *MQTTClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("Connecting to MQTT broker...")

		token := c.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				c.setConnected(true)
				return
			}
			log.Printf("MQTT connection failed: %v", token.Error())
		} else {
			log.Println("MQTT connection timeout")
		}

		log.Printf("Retrying MQTT connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (c *MQTTClient) subscribeTopic() string {
	if c.config != nil && c.config.MQTT.SubscribeTopic != "" {
		return c.config.MQTT.SubscribeTopic
	}
	return DefaultSubscribeTopic
}

// onConnect subscribes to the aircraft topic every time the connection is
// (re)established.
func (c *MQTTClient) onConnect(client mqtt.Client) {
	c.setConnected(true)

	topic := c.subscribeTopic()
	log.Printf("MQTT connected, subscribing to %s", topic)

	token := client.Subscribe(topic, 1, c.onAircraftMessage)
	if token.WaitTimeout(5*time.Second) && token.Error() != nil {
		log.Printf("Error subscribing to %s: %v", topic, token.Error())
	}
}

func (c *MQTTClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection interrupted (%v), auto-reconnect will retry", err)
	c.setConnected(false)
}

// onAircraftMessage hands one raw .acf payload to the conversion handler.
func (c *MQTTClient) onAircraftMessage(client mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	name := aircraftName(msg.Topic())
	log.Printf("Received aircraft %s (topic: %s, size: %d bytes)", name, msg.Topic(), len(payload))
	c.handler(name, payload)
}

// aircraftName derives the model name from the last topic segment.
func aircraftName(topic string) string {
	segments := strings.Split(topic, "/")
	name := segments[len(segments)-1]
	if name == "" {
		return "aircraft"
	}
	return name
}

// setConnected updates the connection state in a thread-safe manner.
func (c *MQTTClient) setConnected(connected bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.isConnected = connected
}

// IsConnected reports whether the broker connection is up.
func (c *MQTTClient) IsConnected() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.isConnected && c.client != nil && c.client.IsConnected()
}

// Client exposes the underlying paho client, mainly for wiring a Publisher.
func (c *MQTTClient) Client() mqtt.Client {
	return c.client
}

// Disconnect cleanly shuts down the broker connection.
func (c *MQTTClient) Disconnect() {
	if c.client != nil && c.client.IsConnected() {
		c.client.Disconnect(250)
		log.Println("MQTT disconnected")
	}
	c.setConnected(false)
}
