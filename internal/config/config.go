package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultControllerPort = 5000
	DefaultTimeoutSec     = 10
	DefaultLogPath        = "hostwatch.log"
)

// ErrNotFound means the configuration record does not exist on disk.
var ErrNotFound = errors.New("config not found")

// ErrInvalid means the record parsed but required fields are missing.
var ErrInvalid = errors.New("config invalid")

// Record is the persisted agent configuration. JSON is the native format;
// YAML is accepted when the file extension says so.
type Record struct {
	ControllerAddress string   `json:"controller_address" yaml:"controller_address"`
	TargetURL         string   `json:"target_url" yaml:"target_url"`
	DeviceHostname    string   `json:"device_hostname,omitempty" yaml:"device_hostname,omitempty"`
	InitiateAttack    bool     `json:"initiate_attack" yaml:"initiate_attack"`
	ControllerPort    int      `json:"controller_port,omitempty" yaml:"controller_port,omitempty"`
	AuthToken         string   `json:"auth_token,omitempty" yaml:"auth_token,omitempty"`
	STUNServers       []string `json:"stun_servers,omitempty" yaml:"stun_servers,omitempty"`
	LogPath           string   `json:"log_path,omitempty" yaml:"log_path,omitempty"`
	HistoryPath       string   `json:"history_path,omitempty" yaml:"history_path,omitempty"`
	TimeoutSec        int      `json:"timeout_sec,omitempty" yaml:"timeout_sec,omitempty"`
}

// Load reads and parses the record at path and applies defaults.
func Load(path string) (Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Record{}, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return Record{}, err
	}

	var rec Record
	switch filepath.Ext(path) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &rec)
	default:
		err = json.Unmarshal(data, &rec)
	}
	if err != nil {
		return Record{}, fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	ApplyDefaults(&rec)
	return rec, nil
}

// ApplyDefaults fills in default values when empty.
func ApplyDefaults(rec *Record) {
	if rec.ControllerPort == 0 {
		rec.ControllerPort = DefaultControllerPort
	}
	if rec.TimeoutSec <= 0 {
		rec.TimeoutSec = DefaultTimeoutSec
	}
	if rec.LogPath == "" {
		rec.LogPath = DefaultLogPath
	}
}

// ApplyEnv overrides record fields from the environment. A .env file, if
// present, is expected to have been loaded by the caller already.
func ApplyEnv(rec *Record) {
	if v := os.Getenv("HOSTWATCH_CONTROLLER_ADDRESS"); v != "" {
		rec.ControllerAddress = v
	}
	if v := os.Getenv("HOSTWATCH_TARGET_URL"); v != "" {
		rec.TargetURL = v
	}
	if v := os.Getenv("HOSTWATCH_AUTH_TOKEN"); v != "" {
		rec.AuthToken = v
	}
	if v := os.Getenv("HOSTWATCH_DEVICE_HOSTNAME"); v != "" {
		rec.DeviceHostname = v
	}
}

// Validate checks required fields.
func Validate(rec Record) error {
	if rec.ControllerAddress == "" {
		return fmt.Errorf("%w: controller_address is required", ErrInvalid)
	}
	if rec.TargetURL == "" {
		return fmt.Errorf("%w: target_url is required", ErrInvalid)
	}
	return nil
}

// Hostname returns the configured device hostname, falling back to the
// OS-reported one.
func (r Record) Hostname() string {
	if r.DeviceHostname != "" {
		return r.DeviceHostname
	}
	h, err := os.Hostname()
	if err != nil {
		return "unknown"
	}
	return h
}
