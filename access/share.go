package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

// The gate. Every sharing mutation resolves the principal's current
// privilege, applies the per-operation policy and performs the write inside
// one transaction, so the last-owner count and the owner-removing write can
// never be split by a concurrent revoke.
//
// Administrators bypass the privilege policy but never the ownership floor.

// ShareResourceWithUser grants or updates level for a user over a resource.
func (e *Engine) ShareResourceWithUser(principalUUID, resourceUUID, userUUID string, level models.Privilege) error {
	if !level.Grantable() {
		return detail(ErrBadArgument, "cannot grant privilege %q", level.Code())
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
		if !p.Admin {
			owned, err := isResourceOwner(tx, p.ID, r.ID)
			if err != nil {
				return err
			}
			if !owned && !r.Shareable {
				return detail(ErrNotShareable, "resource %s", resourceUUID)
			}
			held, err := cumulativeResourcePrivilege(tx, p, r)
			if err != nil {
				return err
			}
			if !held.AtLeast(models.PrivilegeRO) {
				return detail(ErrNoPrivilege, "resource %s", resourceUUID)
			}
			if level.MorePermissive(held) {
				return detail(ErrInsufficientPrivilege, "cannot grant %q while holding %q", level.Code(), held.Code())
			}
		}
		if err := checkResourceOwnerFloor(tx, r.ID, target.ID, level); err != nil {
			return err
		}
		return upsertUserResourceAccess(tx, p.ID, target.ID, r.ID, level)
	})
}

// ShareResourceWithGroup grants or updates a group's level over a resource.
// Groups can never own resources.
func (e *Engine) ShareResourceWithGroup(principalUUID, resourceUUID, groupUUID string, level models.Privilege) error {
	if level == models.PrivilegeOwn {
		return detail(ErrGroupCannotOwn, "resource %s", resourceUUID)
	}
	if !level.Grantable() {
		return detail(ErrBadArgument, "cannot grant privilege %q", level.Code())
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
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		if !p.Admin {
			membership, err := directGroupPrivilege(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !membership.Grantable() {
				return detail(ErrNotMember, "group %s", groupUUID)
			}
			if !membership.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "sharing into group %s needs rw membership", groupUUID)
			}
			owned, err := isResourceOwner(tx, p.ID, r.ID)
			if err != nil {
				return err
			}
			if !owned && !r.Shareable {
				return detail(ErrNotShareable, "resource %s", resourceUUID)
			}
			held, err := cumulativeResourcePrivilege(tx, p, r)
			if err != nil {
				return err
			}
			if level.MorePermissive(held) {
				return detail(ErrInsufficientPrivilege, "cannot grant %q while holding %q", level.Code(), held.Code())
			}
		}
		return upsertGroupResourceAccess(tx, p.ID, g.ID, r.ID, level)
	})
}

// UnshareResourceWithUser revokes a user's direct grant. Allowed for the
// user themself, an owner, an rw holder, or an administrator; refused when
// it would strip the last owner.
func (e *Engine) UnshareResourceWithUser(principalUUID, resourceUUID, userUUID string) error {
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
		if !p.Admin && p.ID != target.ID {
			held, err := cumulativeResourcePrivilege(tx, p, r)
			if err != nil {
				return err
			}
			if !held.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "unsharing resource %s needs rw or ownership", resourceUUID)
			}
		}
		if err := checkResourceOwnerFloor(tx, r.ID, target.ID, models.PrivilegeNone); err != nil {
			return err
		}
		err = tx.Where("user_id = ? AND resource_id = ?", target.ID, r.ID).
			Delete(&models.UserResourceAccess{}).Error
		return storeErr(err)
	})
}

// UnshareResourceWithGroup revokes a group's grant. Resource owner or
// administrator only.
func (e *Engine) UnshareResourceWithGroup(principalUUID, resourceUUID, groupUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		if !p.Admin {
			owned, err := isResourceOwner(tx, p.ID, r.ID)
			if err != nil {
				return err
			}
			if !owned {
				return detail(ErrNotOwner, "resource %s", resourceUUID)
			}
		}
		err = tx.Where("group_id = ? AND resource_id = ?", g.ID, r.ID).
			Delete(&models.GroupResourceAccess{}).Error
		return storeErr(err)
	})
}

// ShareGroupWithUser grants or updates group membership at a level. The
// principal needs rw or better over the group, and the group must be
// shareable unless the principal owns it.
func (e *Engine) ShareGroupWithUser(principalUUID, groupUUID, userUUID string, level models.Privilege) error {
	if !level.Grantable() {
		return detail(ErrBadArgument, "cannot grant privilege %q", level.Code())
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
		if !p.Admin {
			held, err := cumulativeGroupPrivilege(tx, p, g)
			if err != nil {
				return err
			}
			if !held.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "extending group %s needs rw", groupUUID)
			}
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned && !g.Shareable {
				return detail(ErrNotShareable, "group %s", groupUUID)
			}
			if level.MorePermissive(held) {
				return detail(ErrInsufficientPrivilege, "cannot grant %q while holding %q", level.Code(), held.Code())
			}
		}
		if err := checkGroupOwnerFloor(tx, g.ID, target.ID, level); err != nil {
			return err
		}
		return upsertUserGroupAccess(tx, p.ID, target.ID, g.ID, level)
	})
}

// AssertUserInGroup adds a user to a group at read-only if not already a
// member; an existing membership is left untouched.
func (e *Engine) AssertUserInGroup(principalUUID, groupUUID, userUUID string) error {
	member, err := e.UserInGroup(userUUID, groupUUID)
	if err != nil {
		return err
	}
	if member {
		return nil
	}
	return e.ShareGroupWithUser(principalUUID, groupUUID, userUUID, models.PrivilegeRO)
}

// UnshareGroupWithUser removes a membership. Allowed for the member
// themself, a group owner, or an administrator; refused when it would strip
// the last owner.
func (e *Engine) UnshareGroupWithUser(principalUUID, groupUUID, userUUID string) error {
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
		if !p.Admin && p.ID != target.ID {
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned {
				return detail(ErrNotOwner, "group %s", groupUUID)
			}
		}
		if err := checkGroupOwnerFloor(tx, g.ID, target.ID, models.PrivilegeNone); err != nil {
			return err
		}
		err = tx.Where("user_id = ? AND group_id = ?", target.ID, g.ID).
			Delete(&models.UserGroupAccess{}).Error
		return storeErr(err)
	})
}

// checkResourceOwnerFloor refuses a write that would leave the resource
// with no owner: the target currently holds the only own grant and the new
// level is anything weaker.
func checkResourceOwnerFloor(tx *gorm.DB, resourceID, targetUserID uint64, newLevel models.Privilege) error {
	if newLevel == models.PrivilegeOwn {
		return nil
	}
	current, err := directResourcePrivilege(tx, targetUserID, resourceID)
	if err != nil {
		return err
	}
	if current != models.PrivilegeOwn {
		return nil
	}
	owners, err := countResourceOwners(tx, resourceID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return detail(ErrLastOwner, "resource owner floor")
	}
	return nil
}

func checkGroupOwnerFloor(tx *gorm.DB, groupID, targetUserID uint64, newLevel models.Privilege) error {
	if newLevel == models.PrivilegeOwn {
		return nil
	}
	current, err := directGroupPrivilege(tx, targetUserID, groupID)
	if err != nil {
		return err
	}
	if current != models.PrivilegeOwn {
		return nil
	}
	owners, err := countGroupOwners(tx, groupID)
	if err != nil {
		return err
	}
	if owners <= 1 {
		return detail(ErrLastOwner, "group owner floor")
	}
	return nil
}

// upsert helpers: one row per (subject, object); re-asserting rewrites
// privilege and provenance in place.

func upsertUserResourceAccess(tx *gorm.DB, grantorID, userID, resourceID uint64, level models.Privilege) error {
	var row models.UserResourceAccess
	err := tx.Where("user_id = ? AND resource_id = ?", userID, resourceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.UserResourceAccess{
			UserID:          userID,
			ResourceID:      resourceID,
			Privilege:       level,
			AssertionUserID: grantorID,
		}
		return storeErr(tx.Create(&row).Error)
	}
	if err != nil {
		return storeErr(err)
	}
	return storeErr(tx.Model(&row).Updates(map[string]interface{}{
		"privilege":         level,
		"assertion_user_id": grantorID,
	}).Error)
}

func upsertGroupResourceAccess(tx *gorm.DB, grantorID, groupID, resourceID uint64, level models.Privilege) error {
	var row models.GroupResourceAccess
	err := tx.Where("group_id = ? AND resource_id = ?", groupID, resourceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.GroupResourceAccess{
			GroupID:         groupID,
			ResourceID:      resourceID,
			Privilege:       level,
			AssertionUserID: grantorID,
		}
		return storeErr(tx.Create(&row).Error)
	}
	if err != nil {
		return storeErr(err)
	}
	return storeErr(tx.Model(&row).Updates(map[string]interface{}{
		"privilege":         level,
		"assertion_user_id": grantorID,
	}).Error)
}

func upsertUserGroupAccess(tx *gorm.DB, grantorID, userID, groupID uint64, level models.Privilege) error {
	var row models.UserGroupAccess
	err := tx.Where("user_id = ? AND group_id = ?", userID, groupID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		row = models.UserGroupAccess{
			UserID:          userID,
			GroupID:         groupID,
			Privilege:       level,
			AssertionUserID: grantorID,
		}
		return storeErr(tx.Create(&row).Error)
	}
	if err != nil {
		return storeErr(err)
	}
	return storeErr(tx.Model(&row).Updates(map[string]interface{}{
		"privilege":         level,
		"assertion_user_id": grantorID,
	}).Error)
}
