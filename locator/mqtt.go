package locator

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// MeasurementBatch is the wire format a station publishes: a set of ray
// observations taken in one sensing pass.
type MeasurementBatch struct {
	StationID    string        `json:"stationId"`
	Measurements []Measurement `json:"measurements"`
}

// BatchHandler is invoked whenever a station's measurement batch arrives.
type BatchHandler func(stationID string, batch []Measurement)

// IngestClient manages the MQTT connection and per-station subscriptions
// that feed the measurement pool. One-shot batches only: each message is a
// complete set of observations for that sensing pass, not a streaming feed
// (finding targets re-runs FindTargets over the accumulated pool rather
// than updating positions incrementally).
type IngestClient struct {
	client      mqtt.Client
	stations    []Station
	handler     BatchHandler
	isConnected bool
	mu          sync.RWMutex
}

// NewIngestClient connects to the broker described by cfg.MQTT and
// subscribes to every configured station's topic. The handler is invoked
// on the MQTT library's own goroutine for each decoded batch.
func NewIngestClient(cfg *Config, handler BatchHandler) (*IngestClient, error) {
	if err := cfg.RequireMQTT(); err != nil {
		return nil, err
	}
	if len(cfg.Stations) == 0 {
		return nil, fmt.Errorf("MQTT ingestion enabled but no stations configured")
	}

	ic := &IngestClient{
		stations: cfg.ToStations(),
		handler:  handler,
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.MQTT.Broker)

	clientID := cfg.MQTT.ClientID
	if clientID == "" {
		clientID = "raylocate"
	}
	opts.SetClientID(clientID)

	if cfg.MQTT.Username != "" {
		opts.SetUsername(cfg.MQTT.Username)
		opts.SetPassword(cfg.MQTT.Password)
	}

	opts.SetAutoReconnect(true)
	opts.SetConnectRetry(true)
	opts.SetConnectRetryInterval(5 * time.Second)
	opts.SetMaxReconnectInterval(60 * time.Second)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetPingTimeout(10 * time.Second)
	opts.SetCleanSession(false)
	opts.SetOrderMatters(false)

	opts.SetOnConnectHandler(ic.onConnect)
	opts.SetConnectionLostHandler(ic.onConnectionLost)

	ic.client = mqtt.NewClient(opts)

	go ic.connectWithRetry()

	return ic, nil
}

func (ic *IngestClient) connectWithRetry() {
	retryDelay := 1 * time.Second
	maxRetryDelay := 60 * time.Second

	for {
		log.Println("connecting to MQTT broker...")
		token := ic.client.Connect()
		if token.WaitTimeout(10 * time.Second) {
			if token.Error() == nil {
				log.Println("connected to MQTT broker")
				ic.setConnected(true)
				return
			}
			log.Printf("MQTT connection failed: %v", token.Error())
		} else {
			log.Println("MQTT connection timeout")
		}

		log.Printf("retrying MQTT connection in %v...", retryDelay)
		time.Sleep(retryDelay)
		retryDelay *= 2
		if retryDelay > maxRetryDelay {
			retryDelay = maxRetryDelay
		}
	}
}

func (ic *IngestClient) onConnect(client mqtt.Client) {
	log.Println("MQTT connected, subscribing to station topics...")
	ic.setConnected(true)

	for _, st := range ic.stations {
		if st.Topic == "" {
			log.Printf("warning: station %s has no topic configured", st.ID)
			continue
		}
		log.Printf("subscribing to %s for station %s", st.Topic, st.ID)
		token := client.Subscribe(st.Topic, 0, ic.createHandler(st.ID))
		if token.WaitTimeout(5*time.Second) && token.Error() != nil {
			log.Printf("error subscribing to %s: %v", st.Topic, token.Error())
		}
	}
}

func (ic *IngestClient) onConnectionLost(client mqtt.Client, err error) {
	log.Printf("MQTT connection interrupted (%v), auto-reconnect will retry", err)
	ic.setConnected(false)
}

func (ic *IngestClient) createHandler(stationID string) mqtt.MessageHandler {
	return func(client mqtt.Client, msg mqtt.Message) {
		payload := msg.Payload()
		log.Printf("received measurement batch for %s (topic: %s, size: %d bytes)",
			stationID, msg.Topic(), len(payload))

		var batch MeasurementBatch
		if err := json.Unmarshal(payload, &batch); err != nil {
			log.Printf("error decoding measurement batch for %s: %v", stationID, err)
			return
		}

		if ic.handler != nil {
			ic.handler(stationID, batch.Measurements)
		}
	}
}

// IsConnected reports whether the client currently holds a live connection.
func (ic *IngestClient) IsConnected() bool {
	ic.mu.RLock()
	defer ic.mu.RUnlock()
	return ic.isConnected
}

func (ic *IngestClient) setConnected(connected bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.isConnected = connected
}

// Disconnect closes the MQTT connection.
func (ic *IngestClient) Disconnect() {
	if ic.client != nil && ic.client.IsConnected() {
		log.Println("disconnecting from MQTT broker...")
		ic.client.Disconnect(250)
		ic.setConnected(false)
	}
}

// newIngestClientWithMock builds an IngestClient around a provided
// mqtt.Client, for tests that supply a mock transport.
func newIngestClientWithMock(client mqtt.Client, stations []Station, handler BatchHandler) *IngestClient {
	return &IngestClient{client: client, stations: stations, handler: handler}
}
