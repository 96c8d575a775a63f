// SPDX-License-Identifier: MIT
package transport

import (
	applog "github.com/escanorganic/music-viz1/internal/log"
)

// LoggingTransport implements the Transport interface by logging snapshots
// at debug level. Used when no websocket clients are wanted but publish
// activity should still be observable.
type LoggingTransport struct{}

// NewLoggingTransport creates a new LoggingTransport instance.
func NewLoggingTransport() *LoggingTransport {
	applog.Infof("Transport: using logging transport")
	return &LoggingTransport{}
}

// Send logs the received snapshot at debug level. Never fails.
func (lt *LoggingTransport) Send(data any) error {
	applog.Debugf("Transport: %+v", data)
	return nil
}

// Close is a no-op for LoggingTransport.
func (lt *LoggingTransport) Close() error {
	return nil
}

var _ Transport = (*LoggingTransport)(nil)
