package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

// Invitations are two-phase sharing: the inviter records an offer, the
// invited user accepts or refuses it. An offer grants nothing until it is
// accepted, and acceptance goes through the same floor checks as a direct
// share.

type GroupInvitationInfo struct {
	GroupUUID     string           `json:"group_uuid"`
	GroupName     string           `json:"group_name"`
	UserUUID      string           `json:"user_uuid"`
	InviterUUID   string           `json:"inviter_uuid"`
	Privilege     models.Privilege `json:"-"`
	PrivilegeCode string           `json:"privilege"`
	AssertionTime int64            `json:"assertion_time"`
}

type ResourceInvitationInfo struct {
	ResourceUUID  string           `json:"resource_uuid"`
	ResourceTitle string           `json:"resource_title"`
	UserUUID      string           `json:"user_uuid"`
	InviterUUID   string           `json:"inviter_uuid"`
	Privilege     models.Privilege `json:"-"`
	PrivilegeCode string           `json:"privilege"`
	AssertionTime int64            `json:"assertion_time"`
}

// InviteUserToGroup records a pending membership offer. The inviter needs
// rw or better over the group and may not offer more than they hold.
// Re-inviting the same user rewrites the pending level.
func (e *Engine) InviteUserToGroup(principalUUID, groupUUID, userUUID string, level models.Privilege) error {
	if !level.Grantable() {
		return detail(ErrBadArgument, "cannot offer privilege %q", level.Code())
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		target, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		if target.ID == p.ID {
			return detail(ErrSelfInvite, "group %s", groupUUID)
		}
		if !p.Admin {
			held, err := cumulativeGroupPrivilege(tx, p, g)
			if err != nil {
				return err
			}
			if !held.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "inviting to group %s needs rw", groupUUID)
			}
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned && !g.Shareable {
				return detail(ErrNotShareable, "group %s", groupUUID)
			}
			if level.MorePermissive(held) {
				return detail(ErrInsufficientPrivilege, "cannot offer %q while holding %q", level.Code(), held.Code())
			}
		}
		var inv models.GroupInvitation
		err = tx.Where("user_id = ? AND group_id = ? AND assertion_user_id = ?", target.ID, g.ID, p.ID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inv = models.GroupInvitation{
				UserID:          target.ID,
				GroupID:         g.ID,
				Privilege:       level,
				AssertionUserID: p.ID,
			}
			return storeErr(tx.Create(&inv).Error)
		}
		if err != nil {
			return storeErr(err)
		}
		return storeErr(tx.Model(&inv).Update("privilege", level).Error)
	})
}

// UninviteUserToGroup withdraws a pending offer. The inviter withdraws their
// own; administrators withdraw anyone's.
func (e *Engine) UninviteUserToGroup(principalUUID, groupUUID, userUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		target, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		q := tx.Where("user_id = ? AND group_id = ?", target.ID, g.ID)
		if !p.Admin {
			q = q.Where("assertion_user_id = ?", p.ID)
		}
		res := q.Delete(&models.GroupInvitation{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNoInvitation, "group %s, user %s", groupUUID, userUUID)
		}
		return nil
	})
}

// AcceptGroupInvitation turns the offer from inviterUUID into a membership
// grant and deletes the invitation, in one transaction.
func (e *Engine) AcceptGroupInvitation(principalUUID, groupUUID, inviterUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		inviter, err := userByUUID(tx, inviterUUID)
		if err != nil {
			return err
		}
		var inv models.GroupInvitation
		err = tx.Where("user_id = ? AND group_id = ? AND assertion_user_id = ?", p.ID, g.ID, inviter.ID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrNoInvitation, "group %s, inviter %s", groupUUID, inviterUUID)
		}
		if err != nil {
			return storeErr(err)
		}
		if err := checkGroupOwnerFloor(tx, g.ID, p.ID, inv.Privilege); err != nil {
			return err
		}
		if err := upsertUserGroupAccess(tx, inviter.ID, p.ID, g.ID, inv.Privilege); err != nil {
			return err
		}
		return storeErr(tx.Delete(&inv).Error)
	})
}

// RefuseGroupInvitation discards the offer without granting anything.
func (e *Engine) RefuseGroupInvitation(principalUUID, groupUUID, inviterUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		inviter, err := userByUUID(tx, inviterUUID)
		if err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND group_id = ? AND assertion_user_id = ?", p.ID, g.ID, inviter.ID).
			Delete(&models.GroupInvitation{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNoInvitation, "group %s, inviter %s", groupUUID, inviterUUID)
		}
		return nil
	})
}

// InviteUserToResource records a pending resource offer, under the same
// inviter rules as groups but measured against the resource.
func (e *Engine) InviteUserToResource(principalUUID, resourceUUID, userUUID string, level models.Privilege) error {
	if !level.Grantable() {
		return detail(ErrBadArgument, "cannot offer privilege %q", level.Code())
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		target, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		if target.ID == p.ID {
			return detail(ErrSelfInvite, "resource %s", resourceUUID)
		}
		if !p.Admin {
			held, err := cumulativeResourcePrivilege(tx, p, r)
			if err != nil {
				return err
			}
			if !held.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "inviting to resource %s needs rw", resourceUUID)
			}
			owned, err := isResourceOwner(tx, p.ID, r.ID)
			if err != nil {
				return err
			}
			if !owned && !r.Shareable {
				return detail(ErrNotShareable, "resource %s", resourceUUID)
			}
			if level.MorePermissive(held) {
				return detail(ErrInsufficientPrivilege, "cannot offer %q while holding %q", level.Code(), held.Code())
			}
		}
		var inv models.ResourceInvitation
		err = tx.Where("user_id = ? AND resource_id = ? AND assertion_user_id = ?", target.ID, r.ID, p.ID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			inv = models.ResourceInvitation{
				UserID:          target.ID,
				ResourceID:      r.ID,
				Privilege:       level,
				AssertionUserID: p.ID,
			}
			return storeErr(tx.Create(&inv).Error)
		}
		if err != nil {
			return storeErr(err)
		}
		return storeErr(tx.Model(&inv).Update("privilege", level).Error)
	})
}

func (e *Engine) UninviteUserToResource(principalUUID, resourceUUID, userUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		target, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		q := tx.Where("user_id = ? AND resource_id = ?", target.ID, r.ID)
		if !p.Admin {
			q = q.Where("assertion_user_id = ?", p.ID)
		}
		res := q.Delete(&models.ResourceInvitation{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNoInvitation, "resource %s, user %s", resourceUUID, userUUID)
		}
		return nil
	})
}

func (e *Engine) AcceptResourceInvitation(principalUUID, resourceUUID, inviterUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		inviter, err := userByUUID(tx, inviterUUID)
		if err != nil {
			return err
		}
		var inv models.ResourceInvitation
		err = tx.Where("user_id = ? AND resource_id = ? AND assertion_user_id = ?", p.ID, r.ID, inviter.ID).
			First(&inv).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return detail(ErrNoInvitation, "resource %s, inviter %s", resourceUUID, inviterUUID)
		}
		if err != nil {
			return storeErr(err)
		}
		if err := checkResourceOwnerFloor(tx, r.ID, p.ID, inv.Privilege); err != nil {
			return err
		}
		if err := upsertUserResourceAccess(tx, inviter.ID, p.ID, r.ID, inv.Privilege); err != nil {
			return err
		}
		return storeErr(tx.Delete(&inv).Error)
	})
}

func (e *Engine) RefuseResourceInvitation(principalUUID, resourceUUID, inviterUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		inviter, err := userByUUID(tx, inviterUUID)
		if err != nil {
			return err
		}
		res := tx.Where("user_id = ? AND resource_id = ? AND assertion_user_id = ?", p.ID, r.ID, inviter.ID).
			Delete(&models.ResourceInvitation{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNoInvitation, "resource %s, inviter %s", resourceUUID, inviterUUID)
		}
		return nil
	})
}

// GetGroupInvitationsForUser lists offers waiting on the user.
func (e *Engine) GetGroupInvitationsForUser(userUUID string) ([]GroupInvitationInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	return e.groupInvitations("group_invitations.user_id = ?", u.ID)
}

// GetGroupInvitationsSentByUser lists offers the user has made that are
// still pending.
func (e *Engine) GetGroupInvitationsSentByUser(userUUID string) ([]GroupInvitationInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	return e.groupInvitations("group_invitations.assertion_user_id = ?", u.ID)
}

func (e *Engine) groupInvitations(cond string, arg interface{}) ([]GroupInvitationInfo, error) {
	var rows []models.GroupInvitation
	err := e.db.Preload("User").Preload("Group").Where(cond, arg).
		Order("group_invitations.assertion_time").Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]GroupInvitationInfo, 0, len(rows))
	for _, inv := range rows {
		inviter, err := userByID(e.db, inv.AssertionUserID)
		if err != nil {
			return nil, err
		}
		result = append(result, GroupInvitationInfo{
			GroupUUID:     inv.Group.UUID,
			GroupName:     inv.Group.Name,
			UserUUID:      inv.User.UUID,
			InviterUUID:   inviter.UUID,
			Privilege:     inv.Privilege,
			PrivilegeCode: inv.Privilege.Code(),
			AssertionTime: inv.AssertionTime,
		})
	}
	return result, nil
}

func (e *Engine) GetResourceInvitationsForUser(userUUID string) ([]ResourceInvitationInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	return e.resourceInvitations("resource_invitations.user_id = ?", u.ID)
}

func (e *Engine) GetResourceInvitationsSentByUser(userUUID string) ([]ResourceInvitationInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	return e.resourceInvitations("resource_invitations.assertion_user_id = ?", u.ID)
}

func (e *Engine) resourceInvitations(cond string, arg interface{}) ([]ResourceInvitationInfo, error) {
	var rows []models.ResourceInvitation
	err := e.db.Preload("User").Preload("Resource").Where(cond, arg).
		Order("resource_invitations.assertion_time").Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]ResourceInvitationInfo, 0, len(rows))
	for _, inv := range rows {
		inviter, err := userByID(e.db, inv.AssertionUserID)
		if err != nil {
			return nil, err
		}
		result = append(result, ResourceInvitationInfo{
			ResourceUUID:  inv.Resource.UUID,
			ResourceTitle: inv.Resource.Title,
			UserUUID:      inv.User.UUID,
			InviterUUID:   inviter.UUID,
			Privilege:     inv.Privilege,
			PrivilegeCode: inv.Privilege.Code(),
			AssertionTime: inv.AssertionTime,
		})
	}
	return result, nil
}
