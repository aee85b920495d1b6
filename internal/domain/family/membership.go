package family

type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleMember Role = "MEMBER"
)

type Capability string

const (
	CapabilityCreateTasks Capability = "create_tasks"
	CapabilityManageTasks Capability = "manage_tasks"
	CapabilityCreateGoals Capability = "create_goals"
)

var roleCapabilities = map[Role]map[Capability]bool{
	RoleOwner: {
		CapabilityCreateTasks: true,
		CapabilityManageTasks: true,
		CapabilityCreateGoals: true,
	},
	RoleMember: {
		CapabilityCreateTasks: true,
		CapabilityCreateGoals: true,
	},
}

// Membership is the acting user's resolved position inside their family.
type Membership struct {
	UserID string
	Family Family
	Role   Role
}

func NewMembership(userID string, family Family) Membership {
	return Membership{
		UserID: userID,
		Family: family,
		Role:   RoleFor(&family, userID),
	}
}

func (m Membership) FamilyID() string {
	return m.Family.ID
}

func (m Membership) IsOwner() bool {
	return m.Role == RoleOwner
}

func (m Membership) Can(capability Capability) bool {
	return roleCapabilities[m.Role][capability]
}

func RoleFor(family *Family, userID string) Role {
	if family != nil && family.OwnerID == userID {
		return RoleOwner
	}
	return RoleMember
}
