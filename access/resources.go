package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

type ResourceMetadata struct {
	UUID          string `json:"uuid"`
	Path          string `json:"path"`
	Title         string `json:"title"`
	Immutable     bool   `json:"immutable"`
	Published     bool   `json:"published"`
	Discoverable  bool   `json:"discoverable"`
	Public        bool   `json:"public"`
	Shareable     bool   `json:"shareable"`
	AssertionTime int64  `json:"assertion_time"`
}

// ResourceAssertion is the full create-or-update form. The zero value of
// Shareable is not the registration default; use RegisterResource for that.
type ResourceAssertion struct {
	UUID         string
	Path         string
	Title        string
	Immutable    bool
	Published    bool
	Discoverable bool
	Public       bool
	Shareable    bool
}

// RegisterResource creates (or updates) a resource with the default
// protection flags: shareable, and nothing else.
func (e *Engine) RegisterResource(principalUUID, path, title string) (string, error) {
	return e.AssertResource(principalUUID, ResourceAssertion{
		Path:      path,
		Title:     title,
		Shareable: true,
	})
}

// AssertResource registers or updates a resource. Any active user may
// create one and becomes its owner in the same transaction. On update:
//
//   - a title change needs rw or better,
//   - a protection-flag change needs the owner (or an administrator),
//   - a path change needs an administrator,
//   - an immutable resource rejects every change except the owner clearing
//     the immutable flag itself.
func (e *Engine) AssertResource(principalUUID string, a ResourceAssertion) (string, error) {
	if a.Path == "" {
		return "", detail(ErrBadArgument, "resource path is empty")
	}
	if a.Title == "" {
		return "", detail(ErrBadArgument, "resource title is empty")
	}
	var resultUUID string
	err := e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		resourceUUID := a.UUID
		if resourceUUID == "" {
			var existing models.Resource
			err := tx.First(&existing, "path = ?", a.Path).Error
			switch {
			case err == nil:
				resourceUUID = existing.UUID
			case errors.Is(err, gorm.ErrRecordNotFound):
				resourceUUID = newUUID()
			default:
				return storeErr(err)
			}
		}
		var r models.Resource
		err = tx.First(&r, "uuid = ?", resourceUUID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			r = models.Resource{
				UUID:            resourceUUID,
				Path:            a.Path,
				Title:           a.Title,
				Immutable:       a.Immutable,
				Published:       a.Published,
				Discoverable:    a.Discoverable,
				Public:          a.Public,
				Shareable:       a.Shareable,
				AssertionUserID: p.ID,
			}
			if err := tx.Create(&r).Error; err != nil {
				return storeErr(err)
			}
			// Registration grants own to the creator, bypassing the gate.
			owner := models.UserResourceAccess{
				UserID:          p.ID,
				ResourceID:      r.ID,
				Privilege:       models.PrivilegeOwn,
				AssertionUserID: p.ID,
			}
			if err := tx.Create(&owner).Error; err != nil {
				return storeErr(err)
			}
			resultUUID = resourceUUID
			return nil
		}
		if err != nil {
			return storeErr(err)
		}

		flagChange := a.Immutable != r.Immutable ||
			a.Published != r.Published ||
			a.Discoverable != r.Discoverable ||
			a.Public != r.Public ||
			a.Shareable != r.Shareable
		pathChange := a.Path != r.Path
		titleChange := a.Title != r.Title

		if !flagChange && !pathChange && !titleChange {
			resultUUID = resourceUUID
			return nil // idempotent
		}
		owned, err := isResourceOwner(tx, p.ID, r.ID)
		if err != nil {
			return err
		}
		if r.Immutable {
			onlyUnsetsImmutable := !a.Immutable && !flagChangeBesidesImmutable(a, r) && !pathChange && !titleChange
			if !onlyUnsetsImmutable {
				return detail(ErrImmutable, "resource %s", resourceUUID)
			}
			if !owned && !p.Admin {
				return detail(ErrNotOwner, "resource %s", resourceUUID)
			}
		}
		if pathChange && !p.Admin {
			return detail(ErrNotAdmin, "resource path is administrator-only")
		}
		if flagChange && !owned && !p.Admin {
			return detail(ErrNotOwner, "resource %s", resourceUUID)
		}
		if titleChange && !owned && !p.Admin {
			cum, err := cumulativeResourcePrivilege(tx, p, r)
			if err != nil {
				return err
			}
			if !cum.AtLeast(models.PrivilegeRW) {
				return detail(ErrInsufficientPrivilege, "title change needs rw over resource %s", resourceUUID)
			}
		}
		err = tx.Model(&r).Updates(map[string]interface{}{
			"path":              a.Path,
			"title":             a.Title,
			"immutable":         a.Immutable,
			"published":         a.Published,
			"discoverable":      a.Discoverable,
			"public":            a.Public,
			"shareable":         a.Shareable,
			"assertion_user_id": p.ID,
		}).Error
		if err != nil {
			return storeErr(err)
		}
		resultUUID = resourceUUID
		return nil
	})
	if err != nil {
		return "", err
	}
	return resultUUID, nil
}

func flagChangeBesidesImmutable(a ResourceAssertion, r models.Resource) bool {
	return a.Published != r.Published ||
		a.Discoverable != r.Discoverable ||
		a.Public != r.Public ||
		a.Shareable != r.Shareable
}

// RetractResource deletes a resource and cascades through grants,
// invitations and folder/tag references, in one transaction. Owner or
// administrator.
func (e *Engine) RetractResource(principalUUID, resourceUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
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
		for _, m := range []interface{}{
			&models.UserResourceAccess{},
			&models.GroupResourceAccess{},
			&models.ResourceInvitation{},
			&models.FolderResource{},
			&models.TagResource{},
		} {
			if err := tx.Where("resource_id = ?", r.ID).Delete(m).Error; err != nil {
				return storeErr(err)
			}
		}
		return storeErr(tx.Delete(&r).Error)
	})
}

// SetResourcePublished flips the published flag. Both directions are
// allowed for an owner; whether unpublishing should be permitted is a
// policy decision left to the integrating product.
func (e *Engine) SetResourcePublished(principalUUID, resourceUUID string, v bool) error {
	return e.setResourceFlag(principalUUID, resourceUUID, "published", v)
}

func (e *Engine) SetResourceImmutable(principalUUID, resourceUUID string, v bool) error {
	return e.setResourceFlag(principalUUID, resourceUUID, "immutable", v)
}

func (e *Engine) SetResourceDiscoverable(principalUUID, resourceUUID string, v bool) error {
	return e.setResourceFlag(principalUUID, resourceUUID, "discoverable", v)
}

func (e *Engine) SetResourcePublic(principalUUID, resourceUUID string, v bool) error {
	return e.setResourceFlag(principalUUID, resourceUUID, "public", v)
}

func (e *Engine) SetResourceShareable(principalUUID, resourceUUID string, v bool) error {
	return e.setResourceFlag(principalUUID, resourceUUID, "shareable", v)
}

func (e *Engine) setResourceFlag(principalUUID, resourceUUID, column string, value bool) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
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
		current := map[string]bool{
			"immutable":    r.Immutable,
			"published":    r.Published,
			"discoverable": r.Discoverable,
			"public":       r.Public,
			"shareable":    r.Shareable,
		}[column]
		if current == value {
			return nil // idempotent
		}
		// An immutable resource accepts exactly one change: clearing the
		// immutable flag. Ownership survives immutability, so the owner
		// can always find the way back out.
		if r.Immutable && !(column == "immutable" && !value) {
			return detail(ErrImmutable, "resource %s", resourceUUID)
		}
		err = tx.Model(&r).Updates(map[string]interface{}{
			column:              value,
			"assertion_user_id": p.ID,
		}).Error
		return storeErr(err)
	})
}

func (e *Engine) ResourceExists(resourceUUID string) (bool, error) {
	_, err := resourceByUUID(e.db, resourceUUID)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (e *Engine) ResourceIsImmutable(resourceUUID string) (bool, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	return r.Immutable, err
}

func (e *Engine) ResourceIsPublished(resourceUUID string) (bool, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	return r.Published, err
}

func (e *Engine) ResourceIsDiscoverable(resourceUUID string) (bool, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	return r.Discoverable, err
}

func (e *Engine) ResourceIsPublic(resourceUUID string) (bool, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	return r.Public, err
}

func (e *Engine) ResourceIsShareable(resourceUUID string) (bool, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	return r.Shareable, err
}

func (e *Engine) GetResourceMetadata(resourceUUID string) (ResourceMetadata, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return ResourceMetadata{}, err
	}
	return ResourceMetadata{
		UUID:          r.UUID,
		Path:          r.Path,
		Title:         r.Title,
		Immutable:     r.Immutable,
		Published:     r.Published,
		Discoverable:  r.Discoverable,
		Public:        r.Public,
		Shareable:     r.Shareable,
		AssertionTime: r.AssertionTime,
	}, nil
}

func (e *Engine) ResourceUUIDFromPath(path string) (string, error) {
	if path == "" {
		return "", detail(ErrBadArgument, "path is empty")
	}
	var r models.Resource
	if err := e.db.First(&r, "path = ?", path).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", detail(ErrNotFound, "path %s", path)
		}
		return "", storeErr(err)
	}
	return r.UUID, nil
}

func (e *Engine) ResourcePathFromUUID(resourceUUID string) (string, error) {
	r, err := resourceByUUID(e.db, resourceUUID)
	if err != nil {
		return "", err
	}
	return r.Path, nil
}
