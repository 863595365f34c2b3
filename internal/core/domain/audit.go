package domain

import "time"

// AuditAction identifies the kind of security-relevant event being recorded.
type AuditAction string

const (
	AuditRegister      AuditAction = "register"
	AuditLogin         AuditAction = "login"
	AuditLogout        AuditAction = "logout"
	AuditTokenRejected AuditAction = "token_rejected"
	AuditAccessDenied  AuditAction = "access_denied"
)

// AuditEvent records the outcome of one authentication or authorization
// decision. Events are persisted asynchronously; losing one under load is
// acceptable, blocking a request to write one is not.
type AuditEvent struct {
	ID        string      `json:"id"`
	Subject   string      `json:"subject"`
	Action    AuditAction `json:"action"`
	Outcome   string      `json:"outcome"`
	Reason    string      `json:"reason,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

const (
	AuditOutcomeSuccess = "success"
	AuditOutcomeFailure = "failure"
)
