package models

// AuditAction names an audited operation.
type AuditAction string

const (
	ActionLogin            AuditAction = "LOGIN"
	ActionLogout           AuditAction = "LOGOUT"
	ActionCreateUser       AuditAction = "CREATE_USER"
	ActionCreateInvestment AuditAction = "CREATE_INVESTMENT"
	ActionUpdateInvestment AuditAction = "UPDATE_INVESTMENT"
	ActionDeleteInvestment AuditAction = "DELETE_INVESTMENT"
	ActionAddTransaction   AuditAction = "ADD_TRANSACTION"
)

// AuditResource is the kind of record an audit entry refers to.
type AuditResource string

const (
	ResourceUser       AuditResource = "user"
	ResourceInvestment AuditResource = "investment"
)

// AuditLog is one row of the append-only trail of who changed what.
type AuditLog struct {
	Base
	UserID       string        `gorm:"type:uuid;not null;index" json:"user_id"`
	Action       AuditAction   `gorm:"not null" json:"action"`
	ResourceType AuditResource `gorm:"not null;index:idx_audit_resource" json:"resource_type"`
	ResourceID   string        `gorm:"index:idx_audit_resource" json:"resource_id"`
	IPAddress    string        `json:"ip_address"`
	Changes      string        `json:"changes,omitempty"`
}
