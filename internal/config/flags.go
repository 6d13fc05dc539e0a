package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// ParseFlags parses the process command line.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-g gateway kind (rest, postgres, memory)
//	-u gateway REST base URL
//	-realtime-url gateway websocket change feed URL
//	-api-key gateway API key
//	-d gateway PostgreSQL DSN
//	-kv local key-value store SQLite path
//	-c/-config json file path with configs
//	-jwt-secret session token secret
//	-log-level log level
//	-gateway-timeout gateway request timeout (e.g., "15s")
//	-request-timeout HTTP request timeout (e.g., "30s", "1m")
//	-shutdown-timeout synchronizer shutdown timeout
func ParseFlags() (*StructuredConfig, error) {
	return parseFlags(os.Args[1:])
}

func parseFlags(args []string) (*StructuredConfig, error) {
	fs := flag.NewFlagSet("dashboard", flag.ContinueOnError)

	var serverAddress NetAddress
	var gatewayKind, gatewayURL, realtimeURL, apiKey, gatewayDSN string
	var kvDSN, jsonConfigPath, jwtSecret, logLevel string
	var gatewayTimeout, requestTimeout, shutdownTimeout time.Duration

	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.StringVar(&gatewayKind, "g", "", "Gateway kind: rest, postgres or memory")
	fs.StringVar(&gatewayURL, "u", "", "Gateway REST base URL")
	fs.StringVar(&realtimeURL, "realtime-url", "", "Gateway websocket change feed URL")
	fs.StringVar(&apiKey, "api-key", "", "Gateway API key")
	fs.StringVar(&gatewayDSN, "d", "", "Gateway PostgreSQL DSN")
	fs.StringVar(&kvDSN, "kv", "", "Local key-value store SQLite path")
	fs.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	fs.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&jwtSecret, "jwt-secret", "", "Session token secret")
	fs.StringVar(&logLevel, "log-level", "", "Log level")
	fs.DurationVar(&gatewayTimeout, "gateway-timeout", 0, "Gateway request timeout (e.g., 15s)")
	fs.DurationVar(&requestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.DurationVar(&shutdownTimeout, "shutdown-timeout", 0, "Synchronizer shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}

	return &StructuredConfig{
		App: App{
			LogLevel:  logLevel,
			JWTSecret: jwtSecret,
		},
		Gateway: Gateway{
			Kind:           gatewayKind,
			URL:            gatewayURL,
			RealtimeURL:    realtimeURL,
			APIKey:         apiKey,
			DSN:            gatewayDSN,
			RequestTimeout: gatewayTimeout,
		},
		Storage: Storage{
			KV: KV{DSN: kvDSN},
		},
		Server: Server{
			HTTPAddress:    serverAddress.String(),
			RequestTimeout: requestTimeout,
		},
		Workers: Workers{
			ShutdownTimeout: shutdownTimeout,
		},
		JSONFilePath: jsonConfigPath,
	}, nil
}

// String returns a canonical host:port string for a NetAddress, or an empty
// string when neither part is set.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range and checks IP correctness unless host is
// "localhost".
func (a *NetAddress) Set(s string) error {
	hostAndPort := strings.Split(s, ":")
	if len(hostAndPort) != 2 {
		return errors.New("need address in a form `host:port`")
	}

	host := hostAndPort[0]
	port, err := strconv.Atoi(hostAndPort[1])
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number is a positive integer up to 65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}
