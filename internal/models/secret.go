package models

import "encoding/json"

// Secret wraps a credential (basic-auth password, GitHub token) so that
// accidental logging or serialization never leaks it, per spec §9 Design
// Notes ("Secrets ... carried in a wrapper type whose debug/serialisation
// redacts the content; never logged").
type Secret struct {
	value string
}

// NewSecret wraps a plaintext value.
func NewSecret(value string) Secret { return Secret{value: value} }

// Value returns the unredacted plaintext. Callers should only call this at
// the point of use (e.g. building an Authorization header), never before
// logging or serializing.
func (s Secret) Value() string { return s.value }

// IsSet reports whether a non-empty secret was configured.
func (s Secret) IsSet() bool { return s.value != "" }

// String implements fmt.Stringer with redaction.
func (s Secret) String() string {
	if s.value == "" {
		return ""
	}
	return "***"
}

// MarshalJSON implements json.Marshaler with redaction.
func (s Secret) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts a plain string value.
func (s *Secret) UnmarshalJSON(data []byte) error {
	var v string
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	s.value = v
	return nil
}
