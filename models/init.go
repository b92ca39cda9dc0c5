package models

import "gorm.io/gorm"

func Init(db *gorm.DB) {
	db.AutoMigrate(&User{})
	db.AutoMigrate(&Group{})
	db.AutoMigrate(&Resource{})
	db.AutoMigrate(&UserResourceAccess{})
	db.AutoMigrate(&GroupResourceAccess{})
	db.AutoMigrate(&UserGroupAccess{})
	db.AutoMigrate(&GroupInvitation{})
	db.AutoMigrate(&ResourceInvitation{})
	db.AutoMigrate(&Folder{})
	db.AutoMigrate(&FolderResource{})
	db.AutoMigrate(&Tag{})
	db.AutoMigrate(&TagResource{})
}
