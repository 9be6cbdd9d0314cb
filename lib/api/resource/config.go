package resource

import (
	"github.com/nvellon/hal"

	"boscoin.io/congress/lib/congress"
)

type Config struct {
	config congress.Config
}

func NewConfig(config congress.Config) *Config {
	return &Config{config: config}
}

func (c Config) GetMap() hal.Entry {
	return toEntry(c.config)
}

func (c Config) Resource() *hal.Resource {
	return hal.NewResource(c, c.LinkSelf())
}

func (c Config) LinkSelf() string {
	return URLConfig
}
