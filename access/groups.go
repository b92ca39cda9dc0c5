package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

type GroupMetadata struct {
	UUID          string `json:"uuid"`
	Name          string `json:"name"`
	Description   string `json:"description"`
	Active        bool   `json:"active"`
	Shareable     bool   `json:"shareable"`
	Discoverable  bool   `json:"discoverable"`
	Public        bool   `json:"public"`
	AssertionTime int64  `json:"assertion_time"`
}

// GroupAssertion is the full create-or-update form.
type GroupAssertion struct {
	UUID         string
	Name         string
	Description  string
	Active       bool
	Shareable    bool
	Discoverable bool
	Public       bool
}

// AssertGroup registers or updates a group. Any active user may create one
// and becomes its owner in the same transaction. Updates require the owner
// or an administrator.
func (e *Engine) AssertGroup(principalUUID string, a GroupAssertion) (string, error) {
	if a.Name == "" {
		return "", detail(ErrBadArgument, "group name is empty")
	}
	var resultUUID string
	err := e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		groupUUID := a.UUID
		if groupUUID == "" {
			groupUUID = newUUID()
		}
		var g models.Group
		err = tx.First(&g, "uuid = ?", groupUUID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			g = models.Group{
				UUID:            groupUUID,
				Name:            a.Name,
				Description:     a.Description,
				Active:          a.Active,
				Shareable:       a.Shareable,
				Discoverable:    a.Discoverable,
				Public:          a.Public,
				AssertionUserID: p.ID,
			}
			if err := tx.Create(&g).Error; err != nil {
				return storeErr(err)
			}
			// The founding user owns the group. This write bypasses the
			// sharing gate: there is no owner yet to authorize it.
			owner := models.UserGroupAccess{
				UserID:          p.ID,
				GroupID:         g.ID,
				Privilege:       models.PrivilegeOwn,
				AssertionUserID: p.ID,
			}
			if err := tx.Create(&owner).Error; err != nil {
				return storeErr(err)
			}
			resultUUID = groupUUID
			return nil
		}
		if err != nil {
			return storeErr(err)
		}
		if !p.Admin {
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned {
				return detail(ErrNotOwner, "group %s", groupUUID)
			}
		}
		err = tx.Model(&g).Updates(map[string]interface{}{
			"name":              a.Name,
			"description":       a.Description,
			"active":            a.Active,
			"shareable":         a.Shareable,
			"discoverable":      a.Discoverable,
			"public":            a.Public,
			"assertion_user_id": p.ID,
		}).Error
		if err != nil {
			return storeErr(err)
		}
		resultUUID = groupUUID
		return nil
	})
	if err != nil {
		return "", err
	}
	return resultUUID, nil
}

// RetractGroup deletes a group and cascades through every grant and
// invitation referencing it, in one transaction. Owner or administrator.
func (e *Engine) RetractGroup(principalUUID, groupUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		if !p.Admin {
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned {
				return detail(ErrNotOwner, "group %s", groupUUID)
			}
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&models.UserGroupAccess{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&models.GroupResourceAccess{}).Error; err != nil {
			return storeErr(err)
		}
		if err := tx.Where("group_id = ?", g.ID).Delete(&models.GroupInvitation{}).Error; err != nil {
			return storeErr(err)
		}
		return storeErr(tx.Delete(&g).Error)
	})
}

func (e *Engine) SetGroupActive(principalUUID, groupUUID string, v bool) error {
	return e.setGroupFlag(principalUUID, groupUUID, "active", v)
}

func (e *Engine) SetGroupShareable(principalUUID, groupUUID string, v bool) error {
	return e.setGroupFlag(principalUUID, groupUUID, "shareable", v)
}

func (e *Engine) SetGroupDiscoverable(principalUUID, groupUUID string, v bool) error {
	return e.setGroupFlag(principalUUID, groupUUID, "discoverable", v)
}

func (e *Engine) SetGroupPublic(principalUUID, groupUUID string, v bool) error {
	return e.setGroupFlag(principalUUID, groupUUID, "public", v)
}

func (e *Engine) setGroupFlag(principalUUID, groupUUID, column string, value bool) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		g, err := groupByUUID(tx, groupUUID)
		if err != nil {
			return err
		}
		if !p.Admin {
			owned, err := isGroupOwner(tx, p.ID, g.ID)
			if err != nil {
				return err
			}
			if !owned {
				return detail(ErrNotOwner, "group %s", groupUUID)
			}
		}
		current := map[string]bool{
			"active":       g.Active,
			"shareable":    g.Shareable,
			"discoverable": g.Discoverable,
			"public":       g.Public,
		}[column]
		if current == value {
			return nil // idempotent
		}
		err = tx.Model(&g).Updates(map[string]interface{}{
			column:              value,
			"assertion_user_id": p.ID,
		}).Error
		return storeErr(err)
	})
}

func (e *Engine) GroupExists(groupUUID string) (bool, error) {
	_, err := groupByUUID(e.db, groupUUID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) GroupIsActive(groupUUID string) (bool, error) {
	g, err := groupByUUID(e.db, groupUUID)
	return g.Active, err
}

func (e *Engine) GroupIsShareable(groupUUID string) (bool, error) {
	g, err := groupByUUID(e.db, groupUUID)
	return g.Shareable, err
}

func (e *Engine) GroupIsDiscoverable(groupUUID string) (bool, error) {
	g, err := groupByUUID(e.db, groupUUID)
	return g.Discoverable, err
}

func (e *Engine) GroupIsPublic(groupUUID string) (bool, error) {
	g, err := groupByUUID(e.db, groupUUID)
	return g.Public, err
}

func (e *Engine) GetGroupMetadata(groupUUID string) (GroupMetadata, error) {
	g, err := groupByUUID(e.db, groupUUID)
	if err != nil {
		return GroupMetadata{}, err
	}
	return GroupMetadata{
		UUID:          g.UUID,
		Name:          g.Name,
		Description:   g.Description,
		Active:        g.Active,
		Shareable:     g.Shareable,
		Discoverable:  g.Discoverable,
		Public:        g.Public,
		AssertionTime: g.AssertionTime,
	}, nil
}
