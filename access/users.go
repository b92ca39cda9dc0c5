package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

type UserMetadata struct {
	UUID          string `json:"uuid"`
	Login         string `json:"login"`
	Name          string `json:"name"`
	Active        bool   `json:"active"`
	Admin         bool   `json:"admin"`
	AssertionTime int64  `json:"assertion_time"`
}

// AssertUser registers or updates a user. Creation requires an administrator
// principal. On update, a regular user may change only their own login and
// display name; the active and admin flags always require an administrator,
// and nobody changes their own (use SetUserActive/SetUserAdmin for single
// flags, same rules).
//
// userUUID selects the record to update; when empty the login is tried as a
// natural key and a fresh UUID is minted if it is unknown.
func (e *Engine) AssertUser(principalUUID, login, name string, active, admin bool, userUUID string) (string, error) {
	if login == "" {
		return "", detail(ErrBadArgument, "login is empty")
	}
	if name == "" {
		return "", detail(ErrBadArgument, "name is empty")
	}
	var resultUUID string
	err := e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		if userUUID == "" {
			var existing models.User
			err := tx.First(&existing, "login = ?", login).Error
			switch {
			case err == nil:
				userUUID = existing.UUID
			case errors.Is(err, gorm.ErrRecordNotFound):
				userUUID = newUUID()
			default:
				return storeErr(err)
			}
		}
		var u models.User
		err = tx.First(&u, "uuid = ?", userUUID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if !p.Admin {
				return detail(ErrNotAdmin, "only administrators register users")
			}
			u = models.User{
				UUID:            userUUID,
				Login:           login,
				Name:            name,
				Active:          active,
				Admin:           admin,
				AssertionUserID: p.ID,
			}
			if err := tx.Create(&u).Error; err != nil {
				return storeErr(err)
			}
			resultUUID = userUUID
			return nil
		}
		if err != nil {
			return storeErr(err)
		}
		flagChange := active != u.Active || admin != u.Admin
		if flagChange {
			if u.ID == p.ID {
				return detail(ErrSelfModification, "user %s", userUUID)
			}
			if !p.Admin {
				return detail(ErrNotAdmin, "only administrators change active/admin flags")
			}
		}
		if u.ID != p.ID && !p.Admin {
			return detail(ErrNotAdmin, "only administrators update other users")
		}
		updates := map[string]interface{}{
			"login":             login,
			"name":              name,
			"active":            active,
			"admin":             admin,
			"assertion_user_id": p.ID,
		}
		if err := tx.Model(&u).Updates(updates).Error; err != nil {
			return storeErr(err)
		}
		resultUUID = userUUID
		return nil
	})
	if err != nil {
		return "", err
	}
	return resultUUID, nil
}

// SetUserActive flips the active flag. Administrator only, never on self.
func (e *Engine) SetUserActive(principalUUID, userUUID string, active bool) error {
	return e.setUserFlag(principalUUID, userUUID, "active", active)
}

// SetUserAdmin flips the admin flag. Administrator only, never on self.
func (e *Engine) SetUserAdmin(principalUUID, userUUID string, admin bool) error {
	return e.setUserFlag(principalUUID, userUUID, "admin", admin)
}

func (e *Engine) setUserFlag(principalUUID, userUUID, column string, value bool) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		u, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		if u.ID == p.ID {
			return detail(ErrSelfModification, "user %s", userUUID)
		}
		if !p.Admin {
			return detail(ErrNotAdmin, "only administrators change user flags")
		}
		current := u.Active
		if column == "admin" {
			current = u.Admin
		}
		if current == value {
			return nil // idempotent
		}
		err = tx.Model(&u).Updates(map[string]interface{}{
			column:              value,
			"assertion_user_id": p.ID,
		}).Error
		return storeErr(err)
	})
}

// RetractUser deletes a user and cascades through grants, invitations in
// both directions, and folders and tags. Administrator only, never on self.
// Refused while the user is the sole owner of any resource or group;
// ownership must be handed over first.
func (e *Engine) RetractUser(principalUUID, userUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		u, err := userByUUID(tx, userUUID)
		if err != nil {
			return err
		}
		if u.ID == p.ID {
			return detail(ErrSelfModification, "user %s", userUUID)
		}
		if !p.Admin {
			return detail(ErrNotAdmin, "only administrators retract users")
		}
		if err := checkNoSoleOwnerships(tx, u.ID); err != nil {
			return err
		}
		for _, m := range []interface{}{
			&models.UserResourceAccess{},
			&models.UserGroupAccess{},
			&models.FolderResource{},
			&models.Folder{},
			&models.TagResource{},
			&models.Tag{},
		} {
			if err := tx.Where("user_id = ?", u.ID).Delete(m).Error; err != nil {
				return storeErr(err)
			}
		}
		for _, m := range []interface{}{
			&models.GroupInvitation{},
			&models.ResourceInvitation{},
		} {
			if err := tx.Where("user_id = ? OR assertion_user_id = ?", u.ID, u.ID).Delete(m).Error; err != nil {
				return storeErr(err)
			}
		}
		return storeErr(tx.Delete(&u).Error)
	})
}

// checkNoSoleOwnerships refuses retraction while the user is the only owner
// of anything.
func checkNoSoleOwnerships(tx *gorm.DB, userID uint64) error {
	var owned []models.UserResourceAccess
	err := tx.Where("user_id = ? AND privilege = ?", userID, models.PrivilegeOwn).Find(&owned).Error
	if err != nil {
		return storeErr(err)
	}
	for _, row := range owned {
		n, err := countResourceOwners(tx, row.ResourceID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return detail(ErrLastOwner, "user is the sole owner of a resource")
		}
	}
	var member []models.UserGroupAccess
	err = tx.Where("user_id = ? AND privilege = ?", userID, models.PrivilegeOwn).Find(&member).Error
	if err != nil {
		return storeErr(err)
	}
	for _, row := range member {
		n, err := countGroupOwners(tx, row.GroupID)
		if err != nil {
			return err
		}
		if n <= 1 {
			return detail(ErrLastOwner, "user is the sole owner of a group")
		}
	}
	return nil
}

func (e *Engine) UserExists(userUUID string) (bool, error) {
	_, err := userByUUID(e.db, userUUID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) UserIsActive(userUUID string) (bool, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return false, err
	}
	return u.Active, nil
}

func (e *Engine) UserIsAdmin(userUUID string) (bool, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return false, err
	}
	return u.Admin, nil
}

func (e *Engine) GetUserMetadata(userUUID string) (UserMetadata, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return UserMetadata{}, err
	}
	return UserMetadata{
		UUID:          u.UUID,
		Login:         u.Login,
		Name:          u.Name,
		Active:        u.Active,
		Admin:         u.Admin,
		AssertionTime: u.AssertionTime,
	}, nil
}

func (e *Engine) UserUUIDFromLogin(login string) (string, error) {
	if login == "" {
		return "", detail(ErrBadArgument, "login is empty")
	}
	var u models.User
	if err := e.db.First(&u, "login = ?", login).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", detail(ErrNotFound, "login %s", login)
		}
		return "", storeErr(err)
	}
	return u.UUID, nil
}

func (e *Engine) UserLoginFromUUID(userUUID string) (string, error) {
	u, err := userByUUID(e.db, userUUID)
	if err != nil {
		return "", err
	}
	return u.Login, nil
}
