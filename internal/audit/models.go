package audit

import "time"

// Event is emitted from domain logic to capture key actions. Keep it
// transport-agnostic so stores and sinks can fan out.
type Event struct {
	Timestamp     time.Time `json:"timestamp"`
	CertificateID string    `json:"certificateId"`
	Actor         string    `json:"actor"`
	Action        Action    `json:"action"`
	Outcome       string    `json:"outcome"`
	Reason        string    `json:"reason,omitempty"`
	Client        string    `json:"client,omitempty"`
}

// Action identifies the kind of certificate operation being audited.
type Action string

const (
	ActionIssued   Action = "certificate_issued"
	ActionVerified Action = "certificate_verified"
	ActionRevoked  Action = "certificate_revoked"
	ActionShared   Action = "certificate_shared"
	ActionAccessed Action = "certificate_accessed"
)

// Outcomes recorded on audit events.
const (
	OutcomeSuccess = "success"
	OutcomeFailure = "failure"
	OutcomeDenied  = "denied"
)
