package domain

// Role is an open set: new roles only need an entry in a Policy.
type Role string

const (
	RoleStudent Role = "student"
	RoleTutor   Role = "tutor"
)

// Principal is the verified caller of an operation.
type Principal struct {
	ID   string
	Role Role
}

type Capability string

const (
	CapCreateQuestion Capability = "create_question"
	CapClaimQuestion  Capability = "claim_question"
	CapListOwn        Capability = "list_own"
	CapListAssigned   Capability = "list_assigned"
	CapListAvailable  Capability = "list_available"
)

// Policy maps roles to the capabilities they hold. Relationship checks
// (owning student, assigned tutor) are identity based and live on Question.
type Policy struct {
	grants map[Role]map[Capability]struct{}
}

func NewPolicy(grants map[Role][]Capability) Policy {
	p := Policy{grants: make(map[Role]map[Capability]struct{}, len(grants))}

	for role, caps := range grants {
		set := make(map[Capability]struct{}, len(caps))
		for _, c := range caps {
			set[c] = struct{}{}
		}

		p.grants[role] = set
	}

	return p
}

// DefaultPolicy grants the student/tutor split of the tutoring desk.
func DefaultPolicy() Policy {
	return NewPolicy(map[Role][]Capability{
		RoleStudent: {CapCreateQuestion, CapListOwn},
		RoleTutor:   {CapClaimQuestion, CapListAssigned, CapListAvailable},
	})
}

func (p Policy) Allows(role Role, c Capability) bool {
	_, ok := p.grants[role][c]
	return ok
}

// Can is a shorthand for Allows on the principal's role.
func (p Policy) Can(pr Principal, c Capability) bool {
	return p.Allows(pr.Role, c)
}
