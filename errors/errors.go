package errors

import (
	"errors"
	"fmt"
)

var (
	ErrWorkerPanic          = fmt.Errorf("worker panic")
	ErrUnknownPeer          = fmt.Errorf("unknown peer")
	ErrDiscoveryFailed      = fmt.Errorf("discovery failed")
	ErrConnectionFailed     = fmt.Errorf("connection failed")
	ErrSendFailed           = fmt.Errorf("send failed")
	ErrDecodeFailed         = fmt.Errorf("payload is not valid UTF-8")
	ErrInvalidTransition    = fmt.Errorf("invalid session transition")
	ErrBlankMessage         = fmt.Errorf("message is blank")
	ErrMessageTooLong       = fmt.Errorf("message is too long")
	ErrSignalingUnsupported = fmt.Errorf("transport does not support manual signaling")
	ErrFrameTooLarge        = fmt.Errorf("frame payload too large")
	ErrUnexpectedFrame      = fmt.Errorf("unexpected frame type")
	ErrNotConnected         = fmt.Errorf("endpoint not connected")
	ErrTransportClosed      = fmt.Errorf("transport closed")
	ErrAlreadyStarted       = fmt.Errorf("orchestrator already started")
)

// Is lets callers match sentinels without importing both errors packages.
func Is(err, target error) bool { return errors.Is(err, target) }
