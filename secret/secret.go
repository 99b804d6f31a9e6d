// Package secret masks sensitive configuration values, e.g. database passwords,
// so they are not exposed accidentally in logs, JSON or the status endpoint.
package secret

import (
	"encoding/json"
	"log/slog"
)

const mask = "******"

func New(secret string) Secret {
	return Secret{secret: &secret}
}

// Secret prevents accidentally exposing
// any data you did not want to expose by masking it.
// The zero value is an empty secret.
type Secret struct {
	// secret being a pointer does make it harder to access the value.
	secret *string
}

var (
	_ slog.LogValuer   = Secret{}
	_ json.Marshaler   = Secret{}
	_ json.Unmarshaler = (*Secret)(nil)
)

// Secret returns the actual value of the Secret.
func (s Secret) Secret() string {
	if s.secret == nil {
		return ""
	}

	return *s.secret
}

func (s Secret) String() string {
	return mask
}

func (s Secret) LogValue() slog.Value {
	return slog.StringValue(mask)
}

func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(mask) //nolint:wrapcheck // export the underlying error
}

func (s *Secret) UnmarshalJSON(data []byte) error {
	var des string
	if err := json.Unmarshal(data, &des); err != nil {
		return err //nolint:wrapcheck // export the underlying error
	}

	s.secret = &des

	return nil
}

func (s Secret) MarshalText() ([]byte, error) {
	return []byte(mask), nil
}

// UnmarshalText makes Secret usable with mapstructure.TextUnmarshallerHookFunc, e.g. for the configuration.
func (s *Secret) UnmarshalText(data []byte) error {
	text := string(data)
	s.secret = &text

	return nil
}
