package domain

import "fmt"

const (
	StatusReady       = "Ready"
	StatusAdvertising = "Waiting for neighbours…"
	StatusDiscovering = "Searching for neighbours…"
	StatusStopped     = "Stopped"
)

func StatusAdvertisingError(err error) string {
	return fmt.Sprintf("Advertising error: %v", err)
}

func StatusDiscoveryError(err error) string {
	return fmt.Sprintf("Discovery error: %v", err)
}

func StatusConnectedTo(name string) string {
	return fmt.Sprintf("Connected to %s", name)
}

func SystemConnectedTo(name string) string {
	return fmt.Sprintf("Connected to %s", name)
}

func SystemConnectionFailed(name string) string {
	return fmt.Sprintf("Connection to %s failed", name)
}

func SystemDisconnectedFrom(name string) string {
	return fmt.Sprintf("Disconnected from %s", name)
}
