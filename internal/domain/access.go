package domain

import "fmt"

// ActorRole closed set of roles an operation can be performed as
type ActorRole string

const (
	RoleClient ActorRole = "client"
	RoleExpert ActorRole = "expert"
	RoleAdmin  ActorRole = "admin"
	RoleSystem ActorRole = "system"
)

// IsValid returns true for a known role
func (r ActorRole) IsValid() bool {
	switch r {
	case RoleClient, RoleExpert, RoleAdmin, RoleSystem:
		return true
	}
	return false
}

// Capability action on a session or an expert profile
type Capability string

const (
	CapView           Capability = "view"
	CapConfirm        Capability = "confirm"
	CapAccept         Capability = "accept"
	CapComplete       Capability = "complete"
	CapCancel         Capability = "cancel"
	CapRate           Capability = "rate"
	CapRefund         Capability = "refund"
	CapManageSchedule Capability = "manage_schedule"
)

// Actor who performs the operation
type Actor struct {
	ID   int64
	Role ActorRole
}

// SystemActor actor for periodic jobs and payment callbacks
var SystemActor = Actor{Role: RoleSystem}

// Parties participants of a session. For expert profile operations ClientID is zero.
type Parties struct {
	ClientID int64
	ExpertID int64
}

var capabilities = map[ActorRole]map[Capability]bool{
	RoleClient: {
		CapView:   true,
		CapCancel: true,
		CapRate:   true,
	},
	RoleExpert: {
		CapView:           true,
		CapAccept:         true,
		CapComplete:       true,
		CapCancel:         true,
		CapManageSchedule: true,
	},
	RoleAdmin: {
		CapView:           true,
		CapAccept:         true,
		CapComplete:       true,
		CapCancel:         true,
		CapRefund:         true,
		CapManageSchedule: true,
	},
	RoleSystem: {
		CapView:     true,
		CapConfirm:  true,
		CapComplete: true,
		CapRefund:   true,
	},
}

// EffectiveRole role of the actor relative to the parties.
// Admin and system act by role. Everyone else acts by relation: a user is the
// client or the expert of the session regardless of the role header, so an
// expert booking another expert is treated as a client. Returns "" for a stranger.
func EffectiveRole(actor Actor, parties Parties) ActorRole {
	switch actor.Role {
	case RoleAdmin, RoleSystem:
		return actor.Role
	}
	if actor.ID == 0 {
		return ""
	}
	if parties.ClientID != 0 && actor.ID == parties.ClientID {
		return RoleClient
	}
	if parties.ExpertID != 0 && actor.ID == parties.ExpertID {
		return RoleExpert
	}
	return ""
}

// Authorize checks that the actor holds the capability for the parties
func Authorize(actor Actor, parties Parties, capability Capability) error {
	role := EffectiveRole(actor, parties)
	if role == "" || !capabilities[role][capability] {
		return fmt.Errorf("%w: %s actor id=%d cannot %s", ErrForbidden, actor.Role, actor.ID, capability)
	}
	return nil
}
