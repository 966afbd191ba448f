package entities

import "time"

// AdminConfig is the singleton administrative record: who holds the gate,
// whether mutations are paused, and the identities of the two external
// collaborators. The claim-registry identity doubles as the submission
// authority allowed to initiate rounds.
type AdminConfig struct {
	AdminID         string
	Paused          bool
	ValueLedgerID   string
	ClaimRegistryID string
	UpdatedAt       time.Time
}
