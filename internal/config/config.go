// Package config builds the process-wide network clients and logger.
// Clients are constructed once and injected into the executors; they are
// never rebuilt per call.
package config

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strconv"
	"time"

	"github.com/gorilla/websocket"
	"github.com/joho/godotenv"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	// RequestTimeout bounds a full request/response exchange.
	RequestTimeout = 30 * time.Second
	// HandshakeTimeout bounds the WebSocket opening handshake.
	HandshakeTimeout = 45 * time.Second
	// IdleConnTimeout closes pooled connections after inactivity.
	IdleConnTimeout = 90 * time.Second
)

// TLSConfig holds optional TLS/mTLS settings applied to every client.
type TLSConfig struct {
	InsecureSkipVerify bool   `json:"insecureSkipVerify,omitempty" yaml:"insecureSkipVerify,omitempty"`
	CertFile           string `json:"certFile,omitempty" yaml:"certFile,omitempty"`
	KeyFile            string `json:"keyFile,omitempty" yaml:"keyFile,omitempty"`
	CAFile             string `json:"caFile,omitempty" yaml:"caFile,omitempty"`
}

// Config holds engine configuration loaded from the environment.
type Config struct {
	TLS      *TLSConfig
	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and an optional .env
// file. A missing .env file is not an error.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", envFile, err)
		}
	} else if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{
		LogLevel: getEnvOrDefault("RESTENGINE_LOG_LEVEL", "info"),
		LogFile:  getEnvOrDefault("RESTENGINE_LOG_FILE", ""),
	}

	if getEnvBoolOrDefault("RESTENGINE_TLS_INSECURE", false) ||
		os.Getenv("RESTENGINE_TLS_CERT_FILE") != "" ||
		os.Getenv("RESTENGINE_TLS_CA_FILE") != "" {
		cfg.TLS = &TLSConfig{
			InsecureSkipVerify: getEnvBoolOrDefault("RESTENGINE_TLS_INSECURE", false),
			CertFile:           os.Getenv("RESTENGINE_TLS_CERT_FILE"),
			KeyFile:            os.Getenv("RESTENGINE_TLS_KEY_FILE"),
			CAFile:             os.Getenv("RESTENGINE_TLS_CA_FILE"),
		}
	}

	return cfg, nil
}

// Clients bundles the shared pooled network clients handed to the executors.
type Clients struct {
	// HTTP performs request/response exchanges with an overall timeout.
	HTTP *http.Client
	// Stream has no client-level timeout; streaming reads are bounded by
	// per-request deadlines instead.
	Stream *http.Client
	// Dialer opens WebSocket connections.
	Dialer *websocket.Dialer
}

// BuildClients constructs the process-scoped clients with optional TLS.
func BuildClients(tlsConfig *TLSConfig) (*Clients, error) {
	tlsCfg, err := buildTLSConfig(tlsConfig)
	if err != nil {
		return nil, err
	}

	transport := &http.Transport{
		Proxy:           http.ProxyFromEnvironment,
		IdleConnTimeout: IdleConnTimeout,
		TLSClientConfig: tlsCfg,
	}
	streamTransport := transport.Clone()

	return &Clients{
		HTTP: &http.Client{
			Timeout:   RequestTimeout,
			Transport: transport,
		},
		Stream: &http.Client{
			Transport: streamTransport,
		},
		Dialer: &websocket.Dialer{
			Proxy:            http.ProxyFromEnvironment,
			HandshakeTimeout: HandshakeTimeout,
			TLSClientConfig:  tlsCfg,
		},
	}, nil
}

// buildTLSConfig creates a TLS configuration shared by the HTTP transports
// and the WebSocket dialer. Returns nil when no TLS options are set.
func buildTLSConfig(tlsConfig *TLSConfig) (*tls.Config, error) {
	if tlsConfig == nil {
		return nil, nil
	}

	cfg := &tls.Config{
		InsecureSkipVerify: tlsConfig.InsecureSkipVerify,
	}

	// Client certificate for mTLS
	if tlsConfig.CertFile != "" && tlsConfig.KeyFile != "" {
		cert, err := tls.LoadX509KeyPair(tlsConfig.CertFile, tlsConfig.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load client certificate: %w", err)
		}
		cfg.Certificates = []tls.Certificate{cert}
	}

	// CA certificate for server verification
	if tlsConfig.CAFile != "" {
		caCert, err := os.ReadFile(tlsConfig.CAFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read CA certificate: %w", err)
		}
		caCertPool := x509.NewCertPool()
		if !caCertPool.AppendCertsFromPEM(caCert) {
			return nil, fmt.Errorf("failed to parse CA certificate")
		}
		cfg.RootCAs = caCertPool
	}

	return cfg, nil
}

// SetupLogger configures the process logger. With a log file set, output is
// rotated via lumberjack; otherwise it goes to stderr.
func SetupLogger(level, file string) error {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}

	var out io.Writer = os.Stderr
	if file != "" {
		out = &lumberjack.Logger{
			Filename:   file,
			MaxSize:    20, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
		}
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: lvl})))
	return nil
}

func getEnvOrDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBoolOrDefault(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
