package mqtt

import (
	"context"
	"crypto/tls"
	"crypto/x509"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/mikey-austin/dlnactl/internal/ports"
)

// DefaultTopicBase prefixes every event topic.
const DefaultTopicBase = "dlnactl"

// Options configures the MQTT event sink.
type Options struct {
	BrokerURL string
	ClientID  string
	Username  string
	Password  string
	TLSCA     string
	TLSCert   string
	TLSKey    string
	TopicBase string
	QoS       byte
	Retain    bool
	Timeout   time.Duration
}

type publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) paho.Token
	Disconnect(quiesce uint)
}

// Sink publishes command outcome events as JSON.
type Sink struct {
	client    publisher
	log       *zap.Logger
	topicBase string
	qos       byte
	retain    bool
	timeout   time.Duration
}

// NewSink creates and connects an MQTT event sink.
func NewSink(log *zap.Logger, opts Options) (*Sink, error) {
	if strings.TrimSpace(opts.BrokerURL) == "" {
		return nil, errors.New("mqtt broker url required")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	if opts.ClientID == "" {
		opts.ClientID = fmt.Sprintf("dlnactl-%d", os.Getpid())
	}

	clientOpts := paho.NewClientOptions().AddBroker(opts.BrokerURL)
	clientOpts.SetClientID(opts.ClientID)
	clientOpts.SetConnectTimeout(opts.Timeout)
	clientOpts.SetAutoReconnect(false)
	clientOpts.SetCleanSession(true)
	clientOpts.SetConnectionLostHandler(func(_ paho.Client, err error) {
		log.Warn("mqtt connection lost", zap.Error(err))
	})

	if opts.Username != "" {
		clientOpts.SetUsername(opts.Username)
		clientOpts.SetPassword(opts.Password)
	}

	tlsConfig, err := buildTLSConfig(opts.TLSCA, opts.TLSCert, opts.TLSKey)
	if err != nil {
		return nil, err
	}
	if tlsConfig != nil {
		clientOpts.SetTLSConfig(tlsConfig)
	}

	client := paho.NewClient(clientOpts)
	if token := client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("mqtt connect %s: %w", opts.BrokerURL, token.Error())
	}
	log.Debug("mqtt connected", zap.String("broker", opts.BrokerURL), zap.String("client_id", opts.ClientID))
	return newSink(client, log, opts), nil
}

func newSink(client publisher, log *zap.Logger, opts Options) *Sink {
	if log == nil {
		log = zap.NewNop()
	}
	if opts.TopicBase == "" {
		opts.TopicBase = DefaultTopicBase
	}
	if opts.Timeout == 0 {
		opts.Timeout = 2 * time.Second
	}
	return &Sink{
		client:    client,
		log:       log,
		topicBase: opts.TopicBase,
		qos:       opts.QoS,
		retain:    opts.Retain,
		timeout:   opts.Timeout,
	}
}

// Emit publishes ev to <base>/events/<udn>/<command> and waits for the broker
// to acknowledge it.
func (s *Sink) Emit(ctx context.Context, ev ports.Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	topic := EventTopic(s.topicBase, ev.DeviceUDN, ev.Command)
	token := s.client.Publish(topic, s.qos, s.retain, payload)

	timer := time.NewTimer(s.timeout)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return fmt.Errorf("publish %s: timeout", topic)
	case <-token.Done():
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", topic, err)
	}
	s.log.Debug("event published", zap.String("topic", topic), zap.Int("bytes", len(payload)))
	return nil
}

// Close disconnects from the broker.
func (s *Sink) Close() {
	s.client.Disconnect(250)
}

// EventTopic builds the event topic. MQTT wildcard and separator characters
// in the UDN are replaced.
func EventTopic(base, udn, command string) string {
	if base == "" {
		base = DefaultTopicBase
	}
	udn = strings.TrimPrefix(udn, "uuid:")
	udn = strings.NewReplacer("/", "_", "+", "_", "#", "_").Replace(udn)
	if udn == "" {
		udn = "unknown"
	}
	return strings.TrimRight(base, "/") + "/events/" + udn + "/" + command
}

func buildTLSConfig(caPath, certPath, keyPath string) (*tls.Config, error) {
	if caPath == "" && certPath == "" && keyPath == "" {
		return nil, nil
	}

	config := &tls.Config{}
	if caPath != "" {
		pem, err := os.ReadFile(caPath)
		if err != nil {
			return nil, err
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, errors.New("failed to parse CA bundle")
		}
		config.RootCAs = pool
	}

	if certPath != "" || keyPath != "" {
		if certPath == "" || keyPath == "" {
			return nil, errors.New("both tls cert and key are required")
		}
		cert, err := tls.LoadX509KeyPair(certPath, keyPath)
		if err != nil {
			return nil, err
		}
		config.Certificates = []tls.Certificate{cert}
	}

	return config, nil
}
