package auth

import "github.com/google/uuid"

// Role is the actor's role. Roles are mutually exclusive and fixed for the
// lifetime of a session.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// Known reports whether r is one of the recognized roles.
func (r Role) Known() bool {
	switch r {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Actor is an authenticated principal.
type Actor struct {
	ID   uuid.UUID
	Role Role
}

// Operation names a protected action on patient data.
type Operation string

const (
	OpViewPatientRecord    Operation = "patient:view"
	OpListPatients         Operation = "patient:list"
	OpDeletePatient        Operation = "patient:delete"
	OpCreatePatientProfile Operation = "patient:create_profile"
	OpUpdatePatientRecord  Operation = "patient:update"
)

// Target identifies the resource an operation acts on. OwnerUserID is the
// user account that owns the record; it is the zero UUID for collection-level
// operations that have no single owner.
type Target struct {
	OwnerUserID uuid.UUID
}

// Decision is the outcome of an authorization check.
type Decision int

const (
	Deny Decision = iota
	Allow
)

// Authorize decides whether the actor may perform op on target. It is pure:
// no I/O, no caching, every call re-evaluates from its arguments. Anything
// unrecognized (role, operation) and any missing identity denies.
func Authorize(actor Actor, op Operation, target Target) Decision {
	if actor.ID == uuid.Nil || !actor.Role.Known() {
		return Deny
	}
	if actor.Role == RoleAdmin {
		switch op {
		case OpViewPatientRecord, OpListPatients, OpDeletePatient,
			OpCreatePatientProfile, OpUpdatePatientRecord:
			return Allow
		}
		return Deny
	}

	switch op {
	case OpViewPatientRecord, OpUpdatePatientRecord:
		if actor.Role == RoleDoctor {
			return Allow
		}
		return ownerMatch(actor, target)
	case OpListPatients, OpDeletePatient:
		if actor.Role == RoleDoctor {
			return Allow
		}
		return Deny
	case OpCreatePatientProfile:
		if actor.Role != RolePatient {
			return Allow
		}
		return ownerMatch(actor, target)
	}
	return Deny
}

// ownerMatch allows only when the target names an owner and it is the actor.
// A target with no owner fails closed.
func ownerMatch(actor Actor, target Target) Decision {
	if target.OwnerUserID == uuid.Nil {
		return Deny
	}
	if target.OwnerUserID == actor.ID {
		return Allow
	}
	return Deny
}
