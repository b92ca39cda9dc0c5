package models

type Group struct {
	ID              uint64 `gorm:"primaryKey"`
	UUID            string `gorm:"type:varchar(40);index:uniq_group_uuid,unique"`
	Name            string `gorm:"type:varchar(300)"`
	Description     string `gorm:"type:varchar(1000)"`
	Active          bool
	Shareable       bool // non-owners with rw may extend membership
	Discoverable    bool
	Public          bool
	AssertionUserID uint64
	AssertionTime   int64 `gorm:"autoUpdateTime"`
}

func (Group) TableName() string { return "groups" }
