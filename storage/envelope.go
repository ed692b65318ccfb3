package storage

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"
)

// SchemaVersion is the envelope version written by this build.
const SchemaVersion = 1

// envelope wraps every persisted value.
type envelope struct {
	Version int             `json:"version"`
	SavedAt time.Time       `json:"savedAt"`
	Data    json.RawMessage `json:"data"`
}

// LoadStatus describes what Load found under a key.
type LoadStatus int

const (
	StatusMissing LoadStatus = iota
	StatusLoaded
	// StatusLegacy means a bare value without envelope was read and accepted.
	StatusLegacy
	// StatusCorrupt means the blob did not parse; the caller starts from defaults.
	StatusCorrupt
	// StatusUnknownVersion means the envelope is newer than this build understands.
	StatusUnknownVersion
)

func (s LoadStatus) String() string {
	switch s {
	case StatusMissing:
		return "missing"
	case StatusLoaded:
		return "loaded"
	case StatusLegacy:
		return "legacy"
	case StatusCorrupt:
		return "corrupt"
	case StatusUnknownVersion:
		return "unknown_version"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

// Usable reports whether v was populated.
func (s LoadStatus) Usable() bool { return s == StatusLoaded || s == StatusLegacy }

// Load reads key and decodes it into v. Only adapter failures are returned as
// errors; malformed content is reported through the status and leaves v untouched.
func Load(ctx context.Context, a Adapter, key string, v any) (LoadStatus, error) {
	raw, err := a.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return StatusMissing, nil
	}
	if err != nil {
		return StatusMissing, err
	}
	data, status := unwrap(raw)
	if !status.Usable() {
		return status, nil
	}
	if err := decodeInto(data, v); err != nil {
		return StatusCorrupt, nil
	}
	return status, nil
}

// LoadString reads a plain string value. The browser build stored plan dates
// unquoted, so non-JSON text is accepted as a legacy value.
func LoadString(ctx context.Context, a Adapter, key string) (string, LoadStatus, error) {
	raw, err := a.Read(ctx, key)
	if errors.Is(err, ErrNotFound) {
		return "", StatusMissing, nil
	}
	if err != nil {
		return "", StatusMissing, err
	}
	data, status := unwrap(raw)
	switch status {
	case StatusLoaded, StatusLegacy:
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return "", StatusCorrupt, nil
		}
		return s, status, nil
	case StatusCorrupt:
		return string(bytes.TrimSpace(raw)), StatusLegacy, nil
	}
	return "", status, nil
}

// Save encodes v inside a versioned envelope and writes it under key.
func Save(ctx context.Context, a Adapter, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	b, err := json.Marshal(envelope{Version: SchemaVersion, SavedAt: time.Now().UTC(), Data: data})
	if err != nil {
		return fmt.Errorf("encode %s envelope: %w", key, err)
	}
	return a.Write(ctx, key, b)
}

func unwrap(raw []byte) (json.RawMessage, LoadStatus) {
	if !json.Valid(raw) {
		return nil, StatusCorrupt
	}
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err == nil {
		_, hasVersion := probe["version"]
		_, hasData := probe["data"]
		if hasVersion && hasData {
			var env envelope
			if err := json.Unmarshal(raw, &env); err != nil {
				return nil, StatusCorrupt
			}
			if env.Version < 1 || env.Version > SchemaVersion {
				return nil, StatusUnknownVersion
			}
			return env.Data, StatusLoaded
		}
	}
	return raw, StatusLegacy
}

func decodeInto(data []byte, v any) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errors.New("null value")
	}
	return json.Unmarshal(data, v)
}
