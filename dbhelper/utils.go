package dbhelper

import (
	"log"

	"gorm.io/gorm"

	"roomvizapi/models"
)

func SetupCleaner(db *gorm.DB) func() {

	return func() {

		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.SavedRoomConfig{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.RoomScan{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Listing{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserPushToken{})
		db.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.UserAccount{})

	}
}

func Migrate(db *gorm.DB, model interface{}) {
	err := db.AutoMigrate(model)
	if err != nil {
		log.Printf("Error while migrating %s", model)
		log.Fatal(err)
	}
}
