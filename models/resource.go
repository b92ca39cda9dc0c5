package models

type Resource struct {
	ID              uint64 `gorm:"primaryKey"`
	UUID            string `gorm:"type:varchar(40);index:uniq_resource_uuid,unique"`
	Path            string `gorm:"type:varchar(500);index:uniq_resource_path,unique"` // administrator-only to change
	Title           string `gorm:"type:varchar(300)"`
	Immutable       bool
	Published       bool
	Discoverable    bool
	Public          bool
	Shareable       bool
	AssertionUserID uint64
	AssertionTime   int64 `gorm:"autoUpdateTime"`
}

func (Resource) TableName() string { return "resources" }
