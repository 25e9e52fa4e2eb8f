package entitlement

// Action is a board-scoped operation subject to the role policy.
type Action string

const (
	ActionCreateEpic Action = "create_epic"
	ActionUpdateEpic Action = "update_epic"
	ActionDeleteEpic Action = "delete_epic"

	ActionCreateTask Action = "create_task"
	ActionUpdateTask Action = "update_task"
	ActionDeleteTask Action = "delete_task"

	// ActionCompleteTask covers flipping a task's completion flag either
	// way. The policy states the role half of the rule only; epic
	// participants may complete tasks regardless of role, which the
	// operation layer checks against the epic's participant set.
	ActionCompleteTask Action = "complete_task"

	ActionUpdateBoard      Action = "update_board"
	ActionDeleteBoard      Action = "delete_board"
	ActionInviteUser       Action = "invite_user"
	ActionIssueEntitlement Action = "issue_entitlement"

	// ActionCreateComment requires membership only; any entitlement on the
	// board suffices. Authors always manage their own comments without a
	// policy check.
	ActionCreateComment Action = "create_comment"

	// ActionDeleteAnyComment is deleting someone else's comment.
	ActionDeleteAnyComment Action = "delete_any_comment"
)

// minRoleFor is the weakest role permitted each action. Every stronger role
// is permitted too, which keeps CanPerform monotone in role strength.
var minRoleFor = map[Action]Role{
	ActionCreateEpic: RoleEditor,
	ActionUpdateEpic: RoleEditor,
	ActionDeleteEpic: RoleEditor,

	ActionCreateTask:   RoleEditor,
	ActionUpdateTask:   RoleEditor,
	ActionDeleteTask:   RoleEditor,
	ActionCompleteTask: RoleEditor,

	ActionUpdateBoard:      RoleOwner,
	ActionDeleteBoard:      RoleOwner,
	ActionInviteUser:       RoleOwner,
	ActionIssueEntitlement: RoleAdmin,

	ActionCreateComment:    RoleUser,
	ActionDeleteAnyComment: RoleAdmin,
}

// CanPerform reports whether a role is sufficient for the action. It is a
// pure decision function: it never mutates state and never consults anything
// beyond its arguments. Unknown actions are denied for every role.
func CanPerform(role Role, action Action) bool {
	min, ok := minRoleFor[action]
	if !ok {
		return false
	}
	return role.AtLeast(min)
}

// CanReassign reports whether an actor holding actorRole may change a target
// member's role from targetCurrent to grant. Three rules apply on top of the
// ActionIssueEntitlement minimum:
//
//   - only an OWNER may grant OWNER (an ADMIN may issue any weaker role);
//   - a target who already holds OWNER is never reassigned;
//   - the granted role must be valid.
func CanReassign(actorRole, grant, targetCurrent Role) bool {
	if !CanPerform(actorRole, ActionIssueEntitlement) {
		return false
	}
	if !grant.IsValid() {
		return false
	}
	if grant == RoleOwner && actorRole != RoleOwner {
		return false
	}
	if targetCurrent == RoleOwner {
		return false
	}
	return true
}
