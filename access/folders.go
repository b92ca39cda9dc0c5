package access

import (
	"errors"

	"sharehub/models"

	"gorm.io/gorm"
)

// Folders organize a user's own view of resources. They carry no privilege:
// filing a resource changes nothing about who can access it, and a resource
// stays filed even after the user loses access.

// AssertFolder creates a folder for the principal. The name is unique per
// user; creating it twice is an error.
func (e *Engine) AssertFolder(principalUUID, name string) error {
	if name == "" {
		return detail(ErrBadArgument, "folder name is empty")
	}
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		var existing models.Folder
		err = tx.Where("user_id = ? AND name = ?", p.ID, name).First(&existing).Error
		if err == nil {
			return detail(ErrAlreadyExists, "folder %q", name)
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr(err)
		}
		f := models.Folder{UserID: p.ID, Name: name}
		return storeErr(tx.Create(&f).Error)
	})
}

// RetractFolder removes a folder and every filing in it.
func (e *Engine) RetractFolder(principalUUID, name string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		f, err := folderOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		if err := tx.Where("folder_id = ?", f.ID).Delete(&models.FolderResource{}).Error; err != nil {
			return storeErr(err)
		}
		return storeErr(tx.Delete(&f).Error)
	})
}

// AssertResourceInFolder files a resource. Filing twice is a no-op.
func (e *Engine) AssertResourceInFolder(principalUUID, name, resourceUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		f, err := folderOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		var existing models.FolderResource
		err = tx.Where("folder_id = ? AND resource_id = ?", f.ID, r.ID).First(&existing).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return storeErr(err)
		}
		row := models.FolderResource{UserID: p.ID, FolderID: f.ID, ResourceID: r.ID}
		return storeErr(tx.Create(&row).Error)
	})
}

// RetractResourceInFolder removes a filing.
func (e *Engine) RetractResourceInFolder(principalUUID, name, resourceUUID string) error {
	return e.db.Transaction(func(tx *gorm.DB) error {
		p, err := principal(tx, principalUUID)
		if err != nil {
			return err
		}
		f, err := folderOf(tx, p.ID, name)
		if err != nil {
			return err
		}
		r, err := resourceByUUID(tx, resourceUUID)
		if err != nil {
			return err
		}
		res := tx.Where("folder_id = ? AND resource_id = ?", f.ID, r.ID).
			Delete(&models.FolderResource{})
		if res.Error != nil {
			return storeErr(res.Error)
		}
		if res.RowsAffected == 0 {
			return detail(ErrNotFound, "resource %s in folder %q", resourceUUID, name)
		}
		return nil
	})
}

// GetFolders lists the principal's folder names.
func (e *Engine) GetFolders(principalUUID string) ([]string, error) {
	p, err := userByUUID(e.db, principalUUID)
	if err != nil {
		return nil, err
	}
	var folders []models.Folder
	if err := e.db.Where("user_id = ?", p.ID).Order("name").Find(&folders).Error; err != nil {
		return nil, storeErr(err)
	}
	names := make([]string, 0, len(folders))
	for _, f := range folders {
		names = append(names, f.Name)
	}
	return names, nil
}

// GetResourcesInFolder lists what the principal filed under the name.
func (e *Engine) GetResourcesInFolder(principalUUID, name string) ([]ResourceInfo, error) {
	p, err := userByUUID(e.db, principalUUID)
	if err != nil {
		return nil, err
	}
	f, err := folderOf(e.db, p.ID, name)
	if err != nil {
		return nil, err
	}
	var rows []models.FolderResource
	err = e.db.Preload("Resource").Where("folder_id = ?", f.ID).Find(&rows).Error
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

func folderOf(tx *gorm.DB, userID uint64, name string) (models.Folder, error) {
	if name == "" {
		return models.Folder{}, detail(ErrBadArgument, "folder name is empty")
	}
	var f models.Folder
	err := tx.Where("user_id = ? AND name = ?", userID, name).First(&f).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.Folder{}, detail(ErrNotFound, "folder %q", name)
	}
	if err != nil {
		return models.Folder{}, storeErr(err)
	}
	return f, nil
}
