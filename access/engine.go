// Package access implements the privilege engine: users, groups and
// resources, grant tables, cumulative privilege resolution, the policy gate
// in front of every mutation, and the invitation subsystem.
//
// Callers authenticate elsewhere and present the acting principal's UUID on
// every call. No privilege is cached between calls; every decision is
// recomputed from the store, and each mutation runs its precondition check
// and write in one transaction.
package access

import (
	"errors"

	"sharehub/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Engine struct {
	db *gorm.DB
}

// NewEngine wraps an open store handle. The engine owns no other state.
func NewEngine(db *gorm.DB) *Engine {
	return &Engine{db: db}
}

// EnsureAdmin creates the initial administrator if no user with the login
// exists, and returns its UUID. The row asserts itself: there is nobody else
// around yet to vouch for it.
func (e *Engine) EnsureAdmin(login, name string) (string, error) {
	var admin models.User
	err := e.db.First(&admin, "login = ?", login).Error
	if err == nil {
		return admin.UUID, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storeErr(err)
	}
	admin = models.User{
		UUID:   newUUID(),
		Login:  login,
		Name:   name,
		Active: true,
		Admin:  true,
	}
	if err := e.db.Create(&admin).Error; err != nil {
		return "", storeErr(err)
	}
	if err := e.db.Model(&admin).Update("assertion_user_id", admin.ID).Error; err != nil {
		return "", storeErr(err)
	}
	return admin.UUID, nil
}

func newUUID() string {
	return uuid.New().String()
}

// principal loads the acting user and refuses inactive ones. Mutating
// operations must go through this.
func principal(tx *gorm.DB, userUUID string) (models.User, error) {
	u, err := userByUUID(tx, userUUID)
	if err != nil {
		return models.User{}, err
	}
	if !u.Active {
		return models.User{}, detail(ErrInactiveUser, "user %s", userUUID)
	}
	return u, nil
}

func userByUUID(tx *gorm.DB, userUUID string) (models.User, error) {
	if userUUID == "" {
		return models.User{}, detail(ErrBadArgument, "user uuid is empty")
	}
	var u models.User
	if err := tx.First(&u, "uuid = ?", userUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, detail(ErrNotFound, "user %s", userUUID)
		}
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func userByID(tx *gorm.DB, id uint64) (models.User, error) {
	var u models.User
	if err := tx.First(&u, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, detail(ErrNotFound, "user #%d", id)
		}
		return models.User{}, storeErr(err)
	}
	return u, nil
}

func groupByUUID(tx *gorm.DB, groupUUID string) (models.Group, error) {
	if groupUUID == "" {
		return models.Group{}, detail(ErrBadArgument, "group uuid is empty")
	}
	var g models.Group
	if err := tx.First(&g, "uuid = ?", groupUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Group{}, detail(ErrNotFound, "group %s", groupUUID)
		}
		return models.Group{}, storeErr(err)
	}
	return g, nil
}

func resourceByUUID(tx *gorm.DB, resourceUUID string) (models.Resource, error) {
	if resourceUUID == "" {
		return models.Resource{}, detail(ErrBadArgument, "resource uuid is empty")
	}
	var r models.Resource
	if err := tx.First(&r, "uuid = ?", resourceUUID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Resource{}, detail(ErrNotFound, "resource %s", resourceUUID)
		}
		return models.Resource{}, storeErr(err)
	}
	return r, nil
}
