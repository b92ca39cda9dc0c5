package access

import (
	"sharehub/models"
)

// Listings answer "what can this user see and at what level". Every call
// recomputes from the store; results are snapshots, not live views.

type UserInfo struct {
	UUID          string           `json:"uuid"`
	Login         string           `json:"login"`
	Name          string           `json:"name"`
	Privilege     models.Privilege `json:"-"`
	PrivilegeCode string           `json:"privilege,omitempty"`
}

type GroupInfo struct {
	UUID          string           `json:"uuid"`
	Name          string           `json:"name"`
	Privilege     models.Privilege `json:"-"`
	PrivilegeCode string           `json:"privilege,omitempty"`
}

type ResourceInfo struct {
	UUID          string           `json:"uuid"`
	Path          string           `json:"path"`
	Title         string           `json:"title"`
	Privilege     models.Privilege `json:"-"`
	PrivilegeCode string           `json:"privilege,omitempty"`
}

// GetUsers lists every registered user, active or not.
func (e *Engine) GetUsers() ([]UserInfo, error) {
	var users []models.User
	if err := e.db.Order("login").Find(&users).Error; err != nil {
		return nil, storeErr(err)
	}
	result := make([]UserInfo, 0, len(users))
	for _, u := range users {
		result = append(result, UserInfo{UUID: u.UUID, Login: u.Login, Name: u.Name})
	}
	return result, nil
}

// GetGroups lists every group.
func (e *Engine) GetGroups() ([]GroupInfo, error) {
	var groups []models.Group
	if err := e.db.Order("name").Find(&groups).Error; err != nil {
		return nil, storeErr(err)
	}
	result := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		result = append(result, GroupInfo{UUID: g.UUID, Name: g.Name})
	}
	return result, nil
}

// GetGroupsForUser lists the groups the user is a member of, with the
// membership level.
func (e *Engine) GetGroupsForUser(userUUID string) ([]GroupInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	var rows []models.UserGroupAccess
	err = e.db.Preload("Group").Where("user_id = ?", u.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]GroupInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, GroupInfo{
			UUID:          row.Group.UUID,
			Name:          row.Group.Name,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetPublicGroups lists groups anyone may read.
func (e *Engine) GetPublicGroups() ([]GroupInfo, error) {
	return e.groupsWhere("public = ?", true)
}

// GetDiscoverableGroups lists groups that show up in listings: discoverable
// or public. Public ones are readable; merely discoverable ones are not.
func (e *Engine) GetDiscoverableGroups() ([]GroupInfo, error) {
	return e.groupsWhere("discoverable = ? OR public = ?", true, true)
}

func (e *Engine) groupsWhere(cond string, args ...interface{}) ([]GroupInfo, error) {
	var groups []models.Group
	if err := e.db.Where(cond, args...).Order("name").Find(&groups).Error; err != nil {
		return nil, storeErr(err)
	}
	result := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		level := models.PrivilegeNone
		if g.Public {
			level = models.PrivilegeRO
		}
		result = append(result, GroupInfo{
			UUID:          g.UUID,
			Name:          g.Name,
			Privilege:     level,
			PrivilegeCode: level.Code(),
		})
	}
	return result, nil
}

// GetGroupMembers lists members with their membership level. The caller
// must be able to read the group.
func (e *Engine) GetGroupMembers(principalUUID, groupUUID string) ([]UserInfo, error) {
	p, err := userByUUID(e.db, principalUUID)
	if err != nil {
		return nil, err
	}
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return nil, err
	}
	if !p.Admin {
		held, err := cumulativeGroupPrivilege(e.db, p, g)
		if err != nil {
			return nil, err
		}
		if !held.AtLeast(models.PrivilegeRO) {
			return nil, detail(ErrNoPrivilege, "group %s", groupUUID)
		}
	}
	var rows []models.UserGroupAccess
	err = e.db.Preload("User").Where("group_id = ?", g.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]UserInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, UserInfo{
			UUID:          row.User.UUID,
			Login:         row.User.Login,
			Name:          row.User.Name,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetResourcesHeldByUser lists resources the user holds a direct grant on.
func (e *Engine) GetResourcesHeldByUser(userUUID string) ([]ResourceInfo, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return nil, err
	}
	var rows []models.UserResourceAccess
	err = e.db.Preload("Resource").Where("user_id = ?", u.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]ResourceInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, ResourceInfo{
			UUID:          row.Resource.UUID,
			Path:          row.Resource.Path,
			Title:         row.Resource.Title,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetUsersHoldingResource lists users with direct grants on the resource.
func (e *Engine) GetUsersHoldingResource(resourceUUID string) ([]UserInfo, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return nil, err
	}
	var rows []models.UserResourceAccess
	err = e.db.Preload("User").Where("resource_id = ?", r.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]UserInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, UserInfo{
			UUID:          row.User.UUID,
			Login:         row.User.Login,
			Name:          row.User.Name,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetResourcesHeldByGroup lists resources the group has been granted.
func (e *Engine) GetResourcesHeldByGroup(groupUUID string) ([]ResourceInfo, error) {
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return nil, err
	}
	var rows []models.GroupResourceAccess
	err = e.db.Preload("Resource").Where("group_id = ?", g.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]ResourceInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, ResourceInfo{
			UUID:          row.Resource.UUID,
			Path:          row.Resource.Path,
			Title:         row.Resource.Title,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetGroupsHoldingResource lists groups holding a grant on the resource.
func (e *Engine) GetGroupsHoldingResource(resourceUUID string) ([]GroupInfo, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return nil, err
	}
	var rows []models.GroupResourceAccess
	err = e.db.Preload("Group").Where("resource_id = ?", r.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]GroupInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, GroupInfo{
			UUID:          row.Group.UUID,
			Name:          row.Group.Name,
			Privilege:     row.Privilege,
			PrivilegeCode: row.Privilege.Code(),
		})
	}
	return result, nil
}

// GetPublicResources lists resources anyone may read.
func (e *Engine) GetPublicResources() ([]ResourceInfo, error) {
	return e.resourcesWhere("public = ?", true)
}

// GetDiscoverableResources lists resources that show up in listings:
// discoverable or public.
func (e *Engine) GetDiscoverableResources() ([]ResourceInfo, error) {
	return e.resourcesWhere("discoverable = ? OR public = ?", true, true)
}

func (e *Engine) resourcesWhere(cond string, args ...interface{}) ([]ResourceInfo, error) {
	var resources []models.Resource
	if err := e.db.Where(cond, args...).Order("title").Find(&resources).Error; err != nil {
		return nil, storeErr(err)
	}
	result := make([]ResourceInfo, 0, len(resources))
	for _, r := range resources {
		level := models.PrivilegeNone
		if r.Public {
			level = models.PrivilegeRO
		}
		result = append(result, ResourceInfo{
			UUID:          r.UUID,
			Path:          r.Path,
			Title:         r.Title,
			Privilege:     level,
			PrivilegeCode: level.Code(),
		})
	}
	return result, nil
}

// Counters.

func (e *Engine) NumberOfResourceOwners(resourceUUID string) (int64, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return 0, err
	}
	return countResourceOwners(e.db, r.ID)
}

func (e *Engine) NumberOfGroupOwners(groupUUID string) (int64, error) {
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return 0, err
	}
	return countGroupOwners(e.db, g.ID)
}

func (e *Engine) NumberOfResourcesOwnedByUser(userUUID string) (int64, error) {
	return e.countUserResourceRows(userUUID, "user_id = ? AND privilege = ?", models.PrivilegeOwn)
}

func (e *Engine) NumberOfResourcesHeldByUser(userUUID string) (int64, error) {
	return e.countUserResourceRows(userUUID, "user_id = ?")
}

func (e *Engine) countUserResourceRows(userUUID, cond string, extra ...interface{}) (int64, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return 0, err
	}
	args := append([]interface{}{u.ID}, extra...)
	var n int64
	err = e.db.Model(&models.UserResourceAccess{}).Where(cond, args...).Count(&n).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}

func (e *Engine) NumberOfGroupsOwnedByUser(userUUID string) (int64, error) {
	return e.countUserGroupRows(userUUID, "user_id = ? AND privilege = ?", models.PrivilegeOwn)
}

func (e *Engine) NumberOfGroupsOfUser(userUUID string) (int64, error) {
	return e.countUserGroupRows(userUUID, "user_id = ?")
}

func (e *Engine) countUserGroupRows(userUUID, cond string, extra ...interface{}) (int64, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return 0, err
	}
	args := append([]interface{}{u.ID}, extra...)
	var n int64
	err = e.db.Model(&models.UserGroupAccess{}).Where(cond, args...).Count(&n).Error
	if err != nil {
		return 0, storeErr(err)
	}
	return n, nil
}
