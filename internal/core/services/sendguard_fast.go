//go:build txcfast

package services

// The txcfast build trusts the Sender contract and the caller's threading
// discipline; the guards compile to nothing.

func (h *handle) markDelivery()   {}
func (h *handle) unmarkDelivery() {}

func (h *handle) onDeliveryGoroutine() bool { return false }

func checkCommand([]byte) error { return nil }
