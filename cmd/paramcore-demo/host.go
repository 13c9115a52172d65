package main

import (
	"github.com/charmbracelet/log"
	"github.com/russellmcc/brinicle/descriptor"
)

// loggingHost is a HostInterface that logs every grab/ungrab/update-host
// edge it observes. Grab and ungrab are logged at Info level; update_host
// fires on every audio buffer and is logged at Debug level, which the
// demo's default Info-level logger does not print, so the full
// grab -> update -> ungrab ordering from spec.md §4.5/§5 is visible only
// with the logger set to Debug.
type loggingHost struct {
	logger *log.Logger
}

func (h *loggingHost) UpdateHost() {
	h.logger.Debug("update_host")
}

func (h *loggingHost) Grab(addr descriptor.Address) {
	h.logger.Info("grab", "address", addr)
}

func (h *loggingHost) Ungrab(addr descriptor.Address) {
	h.logger.Info("ungrab", "address", addr)
}
