package rbac

import "strings"

type Role string

const (
	RoleAdmin      Role = "Admin"
	RoleSupervisor Role = "Supervisor"
	RoleTeamLead   Role = "TeamLead"
	RoleEmployee   Role = "Employee"
)

// SubjectOwner is the policy subject matched by ownership instead of role.
const SubjectOwner = "owner"

// ParseRole normalizes role labels coming from the identity provider.
// Anything unrecognised is an Employee.
func ParseRole(v string) Role {
	key := strings.ToLower(strings.NewReplacer("_", "", "-", "", " ", "").Replace(v))
	switch key {
	case "admin":
		return RoleAdmin
	case "supervisor":
		return RoleSupervisor
	case "teamlead":
		return RoleTeamLead
	default:
		return RoleEmployee
	}
}

type Action string

const (
	ActionApprove       Action = "approve"
	ActionReject        Action = "reject"
	ActionRequestCancel Action = "request_cancel"
	ActionApproveCancel Action = "approve_cancel"
	ActionRejectCancel  Action = "reject_cancel"
	ActionWithdraw      Action = "withdraw"
	ActionReadAll       Action = "read_all"
	ActionSubmitForAny  Action = "submit_for_any"
	ActionReconcile     Action = "reconcile"
)

// Subject is who attempts an action and whether they own the target request.
type Subject struct {
	Role    Role
	IsOwner bool
}

// DefaultPolicies is the fixed capability table for leave and overtime requests.
func DefaultPolicies() [][]string {
	return [][]string{
		{string(RoleAdmin), string(ActionApprove)},
		{string(RoleSupervisor), string(ActionApprove)},
		{string(RoleTeamLead), string(ActionApprove)},

		{string(RoleAdmin), string(ActionReject)},
		{string(RoleSupervisor), string(ActionReject)},
		{string(RoleTeamLead), string(ActionReject)},

		{SubjectOwner, string(ActionRequestCancel)},
		{string(RoleAdmin), string(ActionRequestCancel)},
		{string(RoleSupervisor), string(ActionRequestCancel)},

		{string(RoleAdmin), string(ActionApproveCancel)},
		{string(RoleSupervisor), string(ActionApproveCancel)},

		{string(RoleAdmin), string(ActionRejectCancel)},
		{string(RoleSupervisor), string(ActionRejectCancel)},

		{SubjectOwner, string(ActionWithdraw)},
		{string(RoleAdmin), string(ActionWithdraw)},

		{string(RoleAdmin), string(ActionReadAll)},
		{string(RoleSupervisor), string(ActionReadAll)},
		{string(RoleTeamLead), string(ActionReadAll)},

		{string(RoleAdmin), string(ActionSubmitForAny)},
		{string(RoleSupervisor), string(ActionSubmitForAny)},

		{string(RoleAdmin), string(ActionReconcile)},
	}
}
