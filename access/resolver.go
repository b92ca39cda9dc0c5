package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

// The resolver reports the true grant graph. Administrators get no special
// treatment here; their bypass happens at the gate, so privilege queries
// about an admin reflect what is actually granted.

func directResourcePrivilege(tx *gorm.DB, userID, resourceID uint64) (models.Privilege, error) {
	var row models.UserResourceAccess
	err := tx.Where("user_id = ? AND resource_id = ?", userID, resourceID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PrivilegeNone, nil
	}
	if err != nil {
		return models.PrivilegeNone, storeErr(err)
	}
	return row.Privilege, nil
}

// groupDerivedResourcePrivilege folds every group path: the contribution of
// one group is the weaker of the membership level and the group's grant on
// the resource; the result is the best contribution across groups.
func groupDerivedResourcePrivilege(tx *gorm.DB, userID, resourceID uint64) (models.Privilege, error) {
	rows, err := tx.Table("user_access_to_group").
		Joins("join group_access_to_resource on group_access_to_resource.group_id = user_access_to_group.group_id").
		Select("user_access_to_group.privilege, group_access_to_resource.privilege").
		Where("user_access_to_group.user_id = ? AND group_access_to_resource.resource_id = ?", userID, resourceID).
		Rows()
	if err != nil {
		return models.PrivilegeNone, storeErr(err)
	}
	defer rows.Close()
	result := models.PrivilegeNone
	for rows.Next() {
		var membership, grant models.Privilege
		if err = rows.Scan(&membership, &grant); err != nil {
			return models.PrivilegeNone, storeErr(err)
		}
		result = models.BestPrivilege(result, models.WeakestPrivilege(membership, grant))
	}
	return result, nil
}

func cumulativeResourcePrivilege(tx *gorm.DB, user models.User, res models.Resource) (models.Privilege, error) {
	direct, err := directResourcePrivilege(tx, user.ID, res.ID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	derived, err := groupDerivedResourcePrivilege(tx, user.ID, res.ID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	p := models.BestPrivilege(direct, derived)
	if res.Public && user.Active {
		p = models.BestPrivilege(p, models.PrivilegeRO)
	}
	return p, nil
}

func directGroupPrivilege(tx *gorm.DB, userID, groupID uint64) (models.Privilege, error) {
	var row models.UserGroupAccess
	err := tx.Where("user_id = ? AND group_id = ?", userID, groupID).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.PrivilegeNone, nil
	}
	if err != nil {
		return models.PrivilegeNone, storeErr(err)
	}
	return row.Privilege, nil
}

func cumulativeGroupPrivilege(tx *gorm.DB, user models.User, group models.Group) (models.Privilege, error) {
	p, err := directGroupPrivilege(tx, user.ID, group.ID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	if group.Public && user.Active {
		p = models.BestPrivilege(p, models.PrivilegeRO)
	}
	return p, nil
}

func isResourceOwner(tx *gorm.DB, userID, resourceID uint64) (bool, error) {
	p, err := directResourcePrivilege(tx, userID, resourceID)
	if err != nil {
		return false, err
	}
	return p == models.PrivilegeOwn, nil
}

func isGroupOwner(tx *gorm.DB, userID, groupID uint64) (bool, error) {
	p, err := directGroupPrivilege(tx, userID, groupID)
	if err != nil {
		return false, err
	}
	return p == models.PrivilegeOwn, nil
}

func countResourceOwners(tx *gorm.DB, resourceID uint64) (int64, error) {
	var n int64
	err := tx.Model(&models.UserResourceAccess{}).
		Where("resource_id = ? AND privilege = ?", resourceID, models.PrivilegeOwn).
		Count(&n).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func countGroupOwners(tx *gorm.DB, groupID uint64) (int64, error) {
	var n int64
	err := tx.Model(&models.UserGroupAccess{}).
		Where("group_id = ? AND privilege = ?", groupID, models.PrivilegeOwn).
		Count(&n).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

// GetUserPrivilegeOverResource returns the direct grant only.
func (e *Engine) GetUserPrivilegeOverResource(userUUID, resourceUUID string) (models.Privilege, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	return directResourcePrivilege(e.db, u.ID, r.ID)
}

// GetCumulativeUserPrivilegeOverResource returns the most permissive level
// reachable via the direct grant, any group path, or the public floor.
func (e *Engine) GetCumulativeUserPrivilegeOverResource(userUUID, resourceUUID string) (models.Privilege, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	return cumulativeResourcePrivilege(e.db, u, r)
}

func (e *Engine) GetUserPrivilegeOverGroup(userUUID, groupUUID string) (models.Privilege, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	return directGroupPrivilege(e.db, u.ID, g.ID)
}

func (e *Engine) GetCumulativeUserPrivilegeOverGroup(userUUID, groupUUID string) (models.Privilege, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return models.PrivilegeNone, err
	}
	return cumulativeGroupPrivilege(e.db, u, g)
}

// UserInGroup is a membership test on the stored relation; the public flag
// of a group never makes anyone a member.
func (e *Engine) UserInGroup(userUUID, groupUUID string) (bool, error) {
	p, err := e.GetUserPrivilegeOverGroup(userUUID, groupUUID)
	if err != nil {
		return false, err
	}
	return p.Grantable(), nil
}

func (e *Engine) ResourceIsOwned(userUUID, resourceUUID string) (bool, error) {
	p, err := e.GetUserPrivilegeOverResource(userUUID, resourceUUID)
	if err != nil {
		return false, err
	}
	return p == models.PrivilegeOwn, nil
}

func (e *Engine) ResourceIsWritable(userUUID, resourceUUID string) (bool, error) {
	p, err := e.GetCumulativeUserPrivilegeOverResource(userUUID, resourceUUID)
	if err != nil {
		return false, err
	}
	return p.AtLeast(models.PrivilegeRW), nil
}

func (e *Engine) ResourceIsReadable(userUUID, resourceUUID string) (bool, error) {
	p, err := e.GetCumulativeUserPrivilegeOverResource(userUUID, resourceUUID)
	if err != nil {
		return false, err
	}
	return p.AtLeast(models.PrivilegeRO), nil
}

func (e *Engine) GroupIsOwned(userUUID, groupUUID string) (bool, error) {
	p, err := e.GetUserPrivilegeOverGroup(userUUID, groupUUID)
	if err != nil {
		return false, err
	}
	return p == models.PrivilegeOwn, nil
}

func (e *Engine) GroupIsWritable(userUUID, groupUUID string) (bool, error) {
	p, err := e.GetCumulativeUserPrivilegeOverGroup(userUUID, groupUUID)
	if err != nil {
		return false, err
	}
	return p.AtLeast(models.PrivilegeRW), nil
}

func (e *Engine) GroupIsReadable(userUUID, groupUUID string) (bool, error) {
	p, err := e.GetCumulativeUserPrivilegeOverGroup(userUUID, groupUUID)
	if err != nil {
		return false, err
	}
	return p.AtLeast(models.PrivilegeRO), nil
}
