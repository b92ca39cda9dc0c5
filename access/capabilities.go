package access

import (
	"sharehub/models"
)

// Capabilities summarize, for one principal and one object, which
// operations the gate would currently allow. They are recomputed on every
// call and go stale the moment anyone mutates the grant graph; treat them
// as UI hints, not as authorization.

type ResourceCapabilities struct {
	Read     bool `json:"read"`
	Write    bool `json:"write"`
	Share    bool `json:"share"`
	Invite   bool `json:"invite"`
	SetFlags bool `json:"set_flags"`
	Retract  bool `json:"retract"`
}

type GroupCapabilities struct {
	Read     bool `json:"read"`
	Write    bool `json:"write"`
	Share    bool `json:"share"`
	Invite   bool `json:"invite"`
	SetFlags bool `json:"set_flags"`
	Retract  bool `json:"retract"`
}

// GetResourceCapabilities reports what the user could do to the resource
// right now.
func (e *Engine) GetResourceCapabilities(userUUID, resourceUUID string) (ResourceCapabilities, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return ResourceCapabilities{}, err
	}
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return ResourceCapabilities{}, err
	}
	if !u.Active {
		return ResourceCapabilities{}, nil
	}
	held, err := cumulativeResourcePrivilege(e.db, u, r)
	if err != nil {
		return ResourceCapabilities{}, err
	}
	owned, err := isResourceOwner(e.db, u.ID, r.ID)
	if err != nil {
		return ResourceCapabilities{}, err
	}
	canRW := held.AtLeast(models.PrivilegeRW)
	canRO := held.AtLeast(models.PrivilegeRO)
	return ResourceCapabilities{
		Read:     u.Admin || canRO,
		Write:    (u.Admin || canRW) && !r.Immutable,
		Share:    u.Admin || owned || (r.Shareable && canRO),
		Invite:   u.Admin || canRW,
		SetFlags: u.Admin || owned,
		Retract:  u.Admin || owned,
	}, nil
}

// GetGroupCapabilities reports what the user could do to the group right
// now.
func (e *Engine) GetGroupCapabilities(userUUID, groupUUID string) (GroupCapabilities, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return GroupCapabilities{}, err
	}
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return GroupCapabilities{}, err
	}
	if !u.Active {
		return GroupCapabilities{}, nil
	}
	held, err := cumulativeGroupPrivilege(e.db, u, g)
	if err != nil {
		return GroupCapabilities{}, err
	}
	owned, err := isGroupOwner(e.db, u.ID, g.ID)
	if err != nil {
		return GroupCapabilities{}, err
	}
	canRW := held.AtLeast(models.PrivilegeRW)
	canRO := held.AtLeast(models.PrivilegeRO)
	return GroupCapabilities{
		Read:     u.Admin || canRO,
		Write:    u.Admin || canRW,
		Share:    u.Admin || owned || (g.Shareable && canRW),
		Invite:   u.Admin || canRW,
		SetFlags: u.Admin || owned,
		Retract:  u.Admin || owned,
	}, nil
}
