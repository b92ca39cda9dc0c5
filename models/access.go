package models

// Grant tables. Each row records who granted the privilege and when via the
// assertion_user_id/assertion_time pair. At most one row exists per
// (subject, object) pair; re-asserting updates privilege and provenance in
// place.

type UserResourceAccess struct {
	ID              uint64    `gorm:"primaryKey"`
	UserID          uint64    `gorm:"index:uniq_user_resource,priority:1,unique"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ResourceID      uint64    `gorm:"index:uniq_user_resource,priority:2,unique;index:idx_resource_user"`
	Resource        Resource  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Privilege       Privilege `gorm:"type:smallint"`
	AssertionUserID uint64
	AssertionTime   int64 `gorm:"autoUpdateTime"`
}

func (UserResourceAccess) TableName() string { return "user_access_to_resource" }

type GroupResourceAccess struct {
	ID              uint64    `gorm:"primaryKey"`
	GroupID         uint64    `gorm:"index:uniq_group_resource,priority:1,unique"`
	Group           Group     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ResourceID      uint64    `gorm:"index:uniq_group_resource,priority:2,unique;index:idx_resource_group"`
	Resource        Resource  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Privilege       Privilege `gorm:"type:smallint"` // never PrivilegeOwn
	AssertionUserID uint64
	AssertionTime   int64 `gorm:"autoUpdateTime"`
}

func (GroupResourceAccess) TableName() string { return "group_access_to_resource" }

// UserGroupAccess doubles as the membership relation: a user is a member of
// a group exactly when a row at own/rw/ro exists.
type UserGroupAccess struct {
	ID              uint64    `gorm:"primaryKey"`
	UserID          uint64    `gorm:"index:uniq_user_group,priority:1,unique"`
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID         uint64    `gorm:"index:uniq_user_group,priority:2,unique;index:idx_group_user"`
	Group           Group     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Privilege       Privilege `gorm:"type:smallint"`
	AssertionUserID uint64
	AssertionTime   int64 `gorm:"autoUpdateTime"`
}

func (UserGroupAccess) TableName() string { return "user_access_to_group" }
