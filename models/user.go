package models

import (
	"sharehub/db"
	"sharehub/utils"
)

const saltSize = 60

type User struct {
	ID              uint64 `gorm:"primaryKey"`
	UUID            string `gorm:"type:varchar(40);index:uniq_user_uuid,unique"`
	Login           string `gorm:"type:varchar(150);index:uniq_user_login,unique"`
	Name            string `gorm:"type:varchar(100)"`
	Active          bool
	Admin           bool
	Password        string `gorm:"type:varchar(128)"`
	PassSalt        string `gorm:"type:varchar(200)"`
	AssertionUserID uint64 // who last asserted this row
	AssertionTime   int64  `gorm:"autoUpdateTime"`
}

func (User) TableName() string { return "users" }

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

// UserLogin authenticates a user for the web layer. The access engine never
// calls this; principals are presented to it as UUIDs.
func UserLogin(login, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "login = ?", login)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password == "" || u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}
