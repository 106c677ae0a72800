package domain

import "time"

type Speaker string

const (
	SpeakerDetective Speaker = "detective"
	SpeakerSuspect   Speaker = "suspect"
)

type ClaimType string

const (
	ClaimAssertion     ClaimType = "assertion"
	ClaimDenial        ClaimType = "denial"
	ClaimQualification ClaimType = "qualification"
	ClaimAdmission     ClaimType = "admission"
)

func ValidClaimType(t string) bool {
	switch ClaimType(t) {
	case ClaimAssertion, ClaimDenial, ClaimQualification, ClaimAdmission:
		return true
	}
	return false
}

// LedgerEntry is one recorded claim. Entries are append-only and never
// mutated after creation.
type LedgerEntry struct {
	ID                int       `json:"id"`
	Turn              int       `json:"turn"`
	Speaker           Speaker   `json:"speaker"`
	Claim             string    `json:"claim"`
	Pillar            Pillar    `json:"pillar"`
	Type              ClaimType `json:"type"`
	StressAtUtterance float64   `json:"stress_at_utterance"`
	CreatedAt         time.Time `json:"created_at"`
}

type ContradictionKind string

const (
	ContradictionDirect       ContradictionKind = "direct"
	ContradictionTemporal     ContradictionKind = "temporal"
	ContradictionQuantitative ContradictionKind = "quantitative"
	ContradictionIdentity     ContradictionKind = "identity"
)

// Contradiction pairs a new ledger entry with the prior entry it
// conflicts with.
type Contradiction struct {
	EarlierEntryID int               `json:"earlier_entry_id"`
	LaterEntryID   int               `json:"later_entry_id"`
	Pillar         Pillar            `json:"pillar"`
	Kind           ContradictionKind `json:"kind"`
	Detail         string            `json:"detail,omitempty"`
}
