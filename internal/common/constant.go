// Package common contains shared constants, sentinel errors and small helpers
// used across seedkeeper components.
package common

// Storage slot keys. A single installation holds exactly one wallet, so the
// slot names are fixed.
const (
	CredentialKey = "credential"
	AddressKey    = "address"
)
