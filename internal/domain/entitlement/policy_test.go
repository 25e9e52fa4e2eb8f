package entitlement

import "testing"

func TestCanPerform(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		role   Role
		action Action
		want   bool
	}{
		{name: "user cannot create epic", role: RoleUser, action: ActionCreateEpic, want: false},
		{name: "editor creates epic", role: RoleEditor, action: ActionCreateEpic, want: true},
		{name: "admin updates epic", role: RoleAdmin, action: ActionUpdateEpic, want: true},
		{name: "owner deletes epic", role: RoleOwner, action: ActionDeleteEpic, want: true},

		{name: "user cannot create task", role: RoleUser, action: ActionCreateTask, want: false},
		{name: "editor deletes task", role: RoleEditor, action: ActionDeleteTask, want: true},
		{name: "user cannot complete task by role alone", role: RoleUser, action: ActionCompleteTask, want: false},
		{name: "editor completes task", role: RoleEditor, action: ActionCompleteTask, want: true},

		{name: "admin cannot update board", role: RoleAdmin, action: ActionUpdateBoard, want: false},
		{name: "owner updates board", role: RoleOwner, action: ActionUpdateBoard, want: true},
		{name: "admin cannot delete board", role: RoleAdmin, action: ActionDeleteBoard, want: false},
		{name: "owner deletes board", role: RoleOwner, action: ActionDeleteBoard, want: true},
		{name: "admin cannot invite", role: RoleAdmin, action: ActionInviteUser, want: false},
		{name: "owner invites", role: RoleOwner, action: ActionInviteUser, want: true},

		{name: "editor cannot issue entitlements", role: RoleEditor, action: ActionIssueEntitlement, want: false},
		{name: "admin issues entitlements", role: RoleAdmin, action: ActionIssueEntitlement, want: true},

		{name: "user comments", role: RoleUser, action: ActionCreateComment, want: true},
		{name: "editor cannot delete others comments", role: RoleEditor, action: ActionDeleteAnyComment, want: false},
		{name: "admin deletes others comments", role: RoleAdmin, action: ActionDeleteAnyComment, want: true},

		{name: "unknown action denied for owner", role: RoleOwner, action: Action("transfer_board"), want: false},
		{name: "invalid role denied", role: Role("GUEST"), action: ActionCreateComment, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanPerform(tt.role, tt.action); got != tt.want {
				t.Errorf("CanPerform(%s, %s) = %v, want %v", tt.role, tt.action, got, tt.want)
			}
		})
	}
}

// A permission granted to a role must be granted to every stronger role.
func TestCanPerformMonotoneInRole(t *testing.T) {
	t.Parallel()

	ordered := []Role{RoleUser, RoleEditor, RoleAdmin, RoleOwner}
	for action := range minRoleFor {
		for i, weaker := range ordered {
			if !CanPerform(weaker, action) {
				continue
			}
			for _, stronger := range ordered[i+1:] {
				if !CanPerform(stronger, action) {
					t.Errorf("%s allows %s but denies stronger role %s", action, weaker, stronger)
				}
			}
		}
	}
}

func TestCanReassign(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name          string
		actorRole     Role
		grant         Role
		targetCurrent Role
		want          bool
	}{
		{name: "admin promotes user to editor", actorRole: RoleAdmin, grant: RoleEditor, targetCurrent: RoleUser, want: true},
		{name: "admin promotes editor to admin", actorRole: RoleAdmin, grant: RoleAdmin, targetCurrent: RoleEditor, want: true},
		{name: "admin demotes editor to user", actorRole: RoleAdmin, grant: RoleUser, targetCurrent: RoleEditor, want: true},
		{name: "owner grants owner", actorRole: RoleOwner, grant: RoleOwner, targetCurrent: RoleAdmin, want: true},

		{name: "admin cannot grant owner", actorRole: RoleAdmin, grant: RoleOwner, targetCurrent: RoleUser, want: false},
		{name: "editor cannot reassign at all", actorRole: RoleEditor, grant: RoleUser, targetCurrent: RoleUser, want: false},
		{name: "user cannot reassign at all", actorRole: RoleUser, grant: RoleEditor, targetCurrent: RoleUser, want: false},
		{name: "owner target is immutable", actorRole: RoleOwner, grant: RoleAdmin, targetCurrent: RoleOwner, want: false},
		{name: "owner target immutable even for owner grant", actorRole: RoleOwner, grant: RoleOwner, targetCurrent: RoleOwner, want: false},
		{name: "invalid grant rejected", actorRole: RoleOwner, grant: Role("ROOT"), targetCurrent: RoleUser, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := CanReassign(tt.actorRole, tt.grant, tt.targetCurrent); got != tt.want {
				t.Errorf("CanReassign(%s, %s, %s) = %v, want %v",
					tt.actorRole, tt.grant, tt.targetCurrent, got, tt.want)
			}
		})
	}
}
