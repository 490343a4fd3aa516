package config

import (
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
)

func DefaultConfig() map[string]interface{} {
	return map[string]interface{}{
		"database": map[string]interface{}{
			"path": "~/.remindd/remindd.db",
		},
		"history": map[string]interface{}{
			"retention_days": 90,
			"backfill_days":  30,
		},
		"scheduler": map[string]interface{}{
			"buffer": 64,
		},
		"log": map[string]interface{}{
			"path": "",
		},
	}
}

func NewDefaultProvider() koanf.Provider {
	return confmap.Provider(DefaultConfig(), ".")
}
