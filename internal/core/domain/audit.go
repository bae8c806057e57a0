package domain

import "time"

// AuditAction names a state change applied to a user record.
type AuditAction string

const (
	AuditBan            AuditAction = "ban"
	AuditUnban          AuditAction = "unban"
	AuditGrantPermanent AuditAction = "grant_permanent"
	AuditGrantTemporary AuditAction = "grant_temporary"
	AuditDemote         AuditAction = "demote"
)

// AuditEntry records one action taken against a user.
type AuditEntry struct {
	ID        string
	UID       string
	Action    AuditAction
	ExpiresAt *time.Time // temporary grants only
	At        time.Time
}
