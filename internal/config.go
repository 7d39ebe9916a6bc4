package internal

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"village-chat/domain"

	"github.com/Netflix/go-env"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/samber/lo"
)

const (
	TransportLibp2p = "libp2p"
	TransportQuic   = "quic"
	TransportWebRTC = "webrtc"
)

// Config is read from the environment. MAX_MESSAGE_LENGTH is capped so a message
// always fits one frame (65535 bytes of UTF-8).
type Config struct {
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	Nickname          string        `env:"NICKNAME"`
	Transport         string        `env:"TRANSPORT,default=libp2p" validate:"oneof=libp2p quic webrtc"`
	Mode              string        `env:"MODE,default=both" validate:"oneof=host join both"`
	BufferSize        int           `env:"BUFFER_SIZE,default=256" validate:"min=1"`
	SinkTimeout       time.Duration `env:"SINK_TIMEOUT,default=2s" validate:"gt=0"`
	RestartInterval   time.Duration `env:"RESTART_INTERVAL,default=200ms" validate:"gt=0"`
	HeartbeatInterval time.Duration `env:"HEARTBEAT_INTERVAL,default=5s" validate:"gt=0"`
	MaxMessageLength  int           `env:"MAX_MESSAGE_LENGTH,default=4096" validate:"min=1,max=16383"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/identity" validate:"required"`
	HTTPAddr          string        `env:"HTTP_ADDR,default=127.0.0.1:8080" validate:"omitempty,hostname_port"`
	Interactive       bool          `env:"INTERACTIVE,default=true"`
	HistoryFile       string        `env:"HISTORY_FILE"`
	Libp2pListen      string        `env:"LIBP2P_LISTEN,default=/ip4/0.0.0.0/tcp/0"`
	Libp2pPeers       string        `env:"LIBP2P_PEERS"`
	MdnsServiceTag    string        `env:"MDNS_SERVICE_TAG,default=village-chat" validate:"required"`
	QuicListen        string        `env:"QUIC_LISTEN,default=0.0.0.0:4242" validate:"hostname_port"`
	QuicAdvertiseAddr string        `env:"QUIC_ADVERTISE_ADDR" validate:"omitempty,hostname_port"`
	QuicPeers         string        `env:"QUIC_PEERS"`
	StunURLs          string        `env:"STUN_URLS,default=stun:stun.l.google.com:19302"`
	WebRTCLoopback    bool          `env:"WEBRTC_LOOPBACK,default=false"`
}

// LoadConfig reads an optional .env file, then the environment, then validates.
func LoadConfig() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.Transport == TransportQuic {
		for _, peer := range c.QuicPeerAddrs() {
			if err := validator.New().Var(peer, "hostname_port"); err != nil {
				return fmt.Errorf("invalid QUIC_PEERS entry %q: %w", peer, err)
			}
		}
	}
	return nil
}

func (c Config) DomainMode() domain.Mode { return domain.Mode(c.Mode) }

func (c Config) Libp2pListenAddrs() []string { return splitList(c.Libp2pListen) }

func (c Config) Libp2pPeerAddrs() []string { return splitList(c.Libp2pPeers) }

func (c Config) QuicPeerAddrs() []string { return splitList(c.QuicPeers) }

func (c Config) StunServers() []string { return splitList(c.StunURLs) }

func splitList(s string) []string {
	return lo.Compact(lo.Map(strings.Split(s, ","), func(item string, _ int) string {
		return strings.TrimSpace(item)
	}))
}
