package domain

import "time"

// VisitStatus represents the status of a visit request
type VisitStatus string

const (
	StatusPending    VisitStatus = "pending"
	StatusApproved   VisitStatus = "approved"
	StatusRejected   VisitStatus = "rejected"
	StatusVisited    VisitStatus = "visited"
	StatusNotVisited VisitStatus = "not_visited"
)

// VisitRequest represents a scheduled property viewing
// Заявка никогда не удаляется физически: отмена это переход статуса
type VisitRequest struct {
	ID          int64
	PropertyID  int64
	RequesterID int64 // покупатель, создавший заявку
	RecipientID int64 // агент (или создатель объекта), подтверждающий визит
	ScheduledAt time.Time
	Note        *string
	Status      VisitStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsTerminal returns true if no further status transition is possible
func (v *VisitRequest) IsTerminal() bool {
	return v.Status == StatusRejected || v.Status == StatusVisited || v.Status == StatusNotVisited
}

// CanBeDecided returns true if the recipient may approve or reject the request
func (v *VisitRequest) CanBeDecided() bool {
	return v.Status == StatusPending
}

// CanSetAttendance returns true if the recipient may record visited/not_visited
func (v *VisitRequest) CanSetAttendance() bool {
	return v.Status == StatusApproved
}

// CanBeRescheduled returns true if the requester may move the visit back to pending
func (v *VisitRequest) CanBeRescheduled() bool {
	return v.Status == StatusApproved
}

// CanBeCancelled returns true if the requester may still cancel
func (v *VisitRequest) CanBeCancelled() bool {
	return !v.IsTerminal()
}

// IsDecisionStatus returns true for statuses a recipient may set on a pending request
func IsDecisionStatus(s VisitStatus) bool {
	return s == StatusApproved || s == StatusRejected
}

// IsAttendanceStatus returns true for statuses recording whether the visit happened
func IsAttendanceStatus(s VisitStatus) bool {
	return s == StatusVisited || s == StatusNotVisited
}

// Role represents the caller's role as resolved by the identity provider
// Сервис доверяет роли как есть и проверяет только полномочия
type Role string

const (
	RoleBuyer Role = "buyer"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// CanManageSlots returns true for roles allowed to create slots and blackout dates
func (r Role) CanManageSlots() bool {
	return r == RoleAgent || r == RoleAdmin
}
