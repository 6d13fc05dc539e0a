package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// StructuredJSONConfig is the on-disk JSON layout of [StructuredConfig].
type StructuredJSONConfig struct {
	App struct {
		Name      string `json:"name"`
		LogLevel  string `json:"log_level"`
		JWTSecret string `json:"jwt_secret"`
		Version   string `json:"version"`
	} `json:"app,omitempty"`

	Gateway struct {
		Kind           string   `json:"kind"`
		URL            string   `json:"url"`
		RealtimeURL    string   `json:"realtime_url"`
		APIKey         string   `json:"api_key"`
		DSN            string   `json:"dsn"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"gateway,omitempty"`

	Storage struct {
		KV struct {
			DSN string `json:"dsn"`
		} `json:"kv,omitempty"`
	} `json:"storage,omitempty"`

	Server struct {
		HTTPAddress    string   `json:"http_address"`
		RequestTimeout Duration `json:"request_timeout"`
	} `json:"server,omitempty"`

	Workers struct {
		ShutdownTimeout Duration `json:"shutdown_timeout"`
	} `json:"workers,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		App: App{
			Name:      jsonCfg.App.Name,
			LogLevel:  jsonCfg.App.LogLevel,
			JWTSecret: jsonCfg.App.JWTSecret,
			Version:   jsonCfg.App.Version,
		},
		Gateway: Gateway{
			Kind:           jsonCfg.Gateway.Kind,
			URL:            jsonCfg.Gateway.URL,
			RealtimeURL:    jsonCfg.Gateway.RealtimeURL,
			APIKey:         jsonCfg.Gateway.APIKey,
			DSN:            jsonCfg.Gateway.DSN,
			RequestTimeout: time.Duration(jsonCfg.Gateway.RequestTimeout),
		},
		Storage: Storage{
			KV: KV{DSN: jsonCfg.Storage.KV.DSN},
		},
		Server: Server{
			HTTPAddress:    jsonCfg.Server.HTTPAddress,
			RequestTimeout: time.Duration(jsonCfg.Server.RequestTimeout),
		},
		Workers: Workers{
			ShutdownTimeout: time.Duration(jsonCfg.Workers.ShutdownTimeout),
		},
	}

	return cfg, nil
}

// Duration is a wrapper around time.Duration that supports JSON unmarshaling
// from strings like "1h", "30s" as well as plain nanosecond numbers.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}

	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
		return nil
	case string:
		tmp, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(tmp)
		return nil
	default:
		return fmt.Errorf("invalid duration: %s", string(b))
	}
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(time.Duration(d).String())
}
