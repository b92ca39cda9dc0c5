package models

// Tags mirror folders: per-user private labels over resources.

type Tag struct {
	ID            uint64 `gorm:"primaryKey"`
	UserID        uint64 `gorm:"index:uniq_user_tag,priority:1,unique"`
	User          User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string `gorm:"type:varchar(300);index:uniq_user_tag,priority:2,unique"`
	AssertionTime int64  `gorm:"autoUpdateTime"`
}

func (Tag) TableName() string { return "user_tags" }

type TagResource struct {
	ID            uint64   `gorm:"primaryKey"`
	UserID        uint64   `gorm:"index"`
	TagID         uint64   `gorm:"index:uniq_tag_resource,priority:1,unique"`
	Tag           Tag      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ResourceID    uint64   `gorm:"index:uniq_tag_resource,priority:2,unique"`
	Resource      Resource `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	AssertionTime int64    `gorm:"autoUpdateTime"`
}

func (TagResource) TableName() string { return "user_tag_of_resource" }
