package models

// Folders are per-user private collections of resource references. Names are
// unique per owner only.

type Folder struct {
	ID            uint64 `gorm:"primaryKey"`
	UserID        uint64 `gorm:"index:uniq_user_folder,priority:1,unique"`
	User          User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string `gorm:"type:varchar(300);index:uniq_user_folder,priority:2,unique"`
	AssertionTime int64  `gorm:"autoUpdateTime"`
}

func (Folder) TableName() string { return "user_folders" }

type FolderResource struct {
	ID            uint64   `gorm:"primaryKey"`
	UserID        uint64   `gorm:"index"`
	FolderID      uint64   `gorm:"index:uniq_folder_resource,priority:1,unique"`
	Folder        Folder   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ResourceID    uint64   `gorm:"index:uniq_folder_resource,priority:2,unique"`
	Resource      Resource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssertionTime int64    `gorm:"autoUpdateTime"`
}

func (FolderResource) TableName() string { return "user_folder_of_resource" }
