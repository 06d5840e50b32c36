package config

import (
	"io"

	"github.com/apex/log"
	"github.com/apex/log/handlers/json"
	"github.com/apex/log/handlers/text"
)

// Setup installs the apex/log handler and level described by l.
func (l LogConfig) Setup(w io.Writer) {
	if l.Format == "json" {
		log.SetHandler(json.New(w))
	} else {
		log.SetHandler(text.New(w))
	}

	level, err := log.ParseLevel(l.Level)
	if err != nil {
		log.SetLevel(log.InfoLevel)
		log.Warnf("unknown log level %q; using info", l.Level)
		return
	}
	log.SetLevel(level)
}
