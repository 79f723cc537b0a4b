package semlog

import (
	"errors"
	"fmt"
)

var ErrInvalidConfig = errors.New("invalid config")

// Config selects which relations an Engine publishes.
type Config struct {
	// ListenForContacts publishes ContactBegin and ContactEnd events.
	ListenForContacts bool `yaml:"listen_for_contacts" env:"SEMLOG_LISTEN_FOR_CONTACTS"`

	// ListenForSupport classifies contacts and publishes SupportBegin and SupportEnd events.
	// Contacts are tracked even if ListenForContacts is false, as support episodes are
	// nested inside them.
	ListenForSupport bool `yaml:"listen_for_support" env:"SEMLOG_LISTEN_FOR_SUPPORT"`
}

func DefaultConfig() Config {
	return Config{
		ListenForContacts: true,
		ListenForSupport:  true,
	}
}

func (c Config) Validate() error {
	if !c.ListenForContacts && !c.ListenForSupport {
		return fmt.Errorf("%w: neither contact nor support events are enabled", ErrInvalidConfig)
	}

	return nil
}
