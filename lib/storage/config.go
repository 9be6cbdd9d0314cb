package storage

import (
	"net/url"
	"strings"

	"boscoin.io/congress/lib/errors"
)

// Config is a storage endpoint, `memory://` or `file:///path/to/db`.
type Config struct {
	Scheme string
	Path   string
}

func NewConfigFromString(s string) (*Config, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, errors.InvalidConfig.Clone().SetData("storage", s)
	}

	switch u.Scheme {
	case "memory":
		return &Config{Scheme: "memory"}, nil
	case "file":
		path := u.Path
		if len(u.Host) > 0 {
			path = u.Host + path
		}
		if len(strings.TrimSpace(path)) < 1 {
			return nil, errors.InvalidConfig.Clone().SetData("storage", s)
		}
		return &Config{Scheme: "file", Path: path}, nil
	default:
		return nil, errors.InvalidConfig.Clone().SetData("storage", s)
	}
}

func (c Config) String() string {
	return c.Scheme + "://" + c.Path
}
