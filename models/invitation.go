package models

// Pending offers of privilege. An invitation never contributes to resolved
// privilege; accepting it materializes a grant and deletes the row. The
// inviter is recorded in assertion_user_id, so distinct inviters hold
// distinct pending offers for the same user and object.

type GroupInvitation struct {
	ID              uint64    `gorm:"primaryKey"`
	UserID          uint64    `gorm:"index:uniq_group_invite,priority:1,unique"` // invited user
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	GroupID         uint64    `gorm:"index:uniq_group_invite,priority:2,unique"`
	Group           Group     `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Privilege       Privilege `gorm:"type:smallint"`
	AssertionUserID uint64    `gorm:"index:uniq_group_invite,priority:3,unique"` // inviting user
	AssertionTime   int64     `gorm:"autoUpdateTime"`
}

func (GroupInvitation) TableName() string { return "group_invitations" }

type ResourceInvitation struct {
	ID              uint64    `gorm:"primaryKey"`
	UserID          uint64    `gorm:"index:uniq_resource_invite,priority:1,unique"` // invited user
	User            User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ResourceID      uint64    `gorm:"index:uniq_resource_invite,priority:2,unique"`
	Resource        Resource  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Privilege       Privilege `gorm:"type:smallint"`
	AssertionUserID uint64    `gorm:"index:uniq_resource_invite,priority:3,unique"` // inviting user
	AssertionTime   int64     `gorm:"autoUpdateTime"`
}

func (ResourceInvitation) TableName() string { return "resource_invitations" }
