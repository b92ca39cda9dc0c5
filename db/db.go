package db

import (
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Instance is used by the web layer (sessions, login). The access engine
// receives its own handle explicitly and never reads this variable.
var Instance *gorm.DB

// Init opens the store and returns the handle. MySQL is preferred when a DSN
// is configured, otherwise the SQLite file is used.
func Init(mysqlDSN, sqliteFile string) *gorm.DB {
	var dialector gorm.Dialector
	if mysqlDSN != "" {
		dialector = mysql.Open(mysqlDSN)
	} else {
		dialector = sqlite.Open(sqliteFile)
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
	})
	if err != nil || db == nil {
		panic(err)
	}
	Instance = db
	return db
}
