package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

// Tags work exactly like folders, except a resource can carry any number of
// a user's tags.

func (e *Engine) AssertTag(principalUUID, name string) error {
	if name == "" {
		return detail(ErrBadArgument, "tag name is empty")
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		var existing models.Tag
		err = tx.Where("user_id = ? AND name = ?", p.ID, name).First(&existing).Error
		if err == nil {
			return detail(ErrAlreadyExists, "tag %q", name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr(err)
		}
		t := models.Tag{UserID: p.ID, Name: name}
		return storeErr(tx.Create(&t).Error)
	})
}

func (e *Engine) RetractTag(principalUUID, name string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		t, err := tagOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		if err := tx.Where("tag_id = ?", t.ID).Delete(&models.TagResource{}).Error; err != nil {
			return storeErr(err)
		}
		return storeErr(tx.Delete(&t).Error)
	})
}

func (e *Engine) AssertResourceHasTag(principalUUID, name, resourceUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		t, err := tagOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		var existing models.TagResource
		err = tx.Where("tag_id = ? AND resource_id = ?", t.ID, r.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr(err)
		}
		row := models.TagResource{UserID: p.ID, TagID: t.ID, ResourceID: r.ID}
		return storeErr(tx.Create(&row).Error)
	})
}

func (e *Engine) RetractResourceHasTag(principalUUID, name, resourceUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		t, err := tagOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		res := tx.Where("tag_id = ? AND resource_id = ?", t.ID, r.ID).
			Delete(&models.TagResource{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNotFound, "resource %s under tag %q", resourceUUID, name)
		}
		return nil
	})
}

func (e *Engine) GetTags(principalUUID string) ([]string, error) {
	p, err := userByUUID(e.db, principalUUID)
	if err != nil {
		return nil, err
	}
	var tags []models.Tag
	if err := e.db.Where("user_id = ?", p.ID).Order("name").Find(&tags).Error; err != nil {
		return nil, storeErr(err)
	}
	names := make([]string, 0, len(tags))
	for _, t := range tags {
		names = append(names, t.Name)
	}
	return names, nil
}

func (e *Engine) GetResourcesByTag(principalUUID, name string) ([]ResourceInfo, error) {
	p, err := userByUUID(e.db, principalUUID)
	if err != nil {
		return nil, err
	}
	t, err := tagOf(e.db, p.ID, name)
	if err != nil {
		return nil, err
	}
	var rows []models.TagResource
	err = e.db.Preload("Resource").Where("tag_id = ?", t.ID).Find(&rows).Error
	if err != nil {
		return nil, storeErr(err)
	}
	result := make([]ResourceInfo, 0, len(rows))
	for _, row := range rows {
		result = append(result, ResourceInfo{
			UUID:  row.Resource.UUID,
			Path:  row.Resource.Path,
			Title: row.Resource.Title,
		})
	}
	return result, nil
}

func tagOf(tx *gorm.DB, userID uint64, name string) (models.Tag, error) {
	if name == "" {
		return models.Tag{}, detail(ErrBadArgument, "tag name is empty")
	}
	var t models.Tag
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&t).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Tag{}, detail(ErrNotFound, "tag %q", name)
	}
	if err != nil {
		return models.Tag{}, storeErr(err)
	}
	return t, nil
}
