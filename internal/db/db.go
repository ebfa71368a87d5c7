package db

import (
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"

	"github.com/AiSchool-Admin/AiSchool-Backend/internal/homework"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/models"
	"github.com/AiSchool-Admin/AiSchool-Backend/internal/skill"
)

func Connect(dsn string) *gorm.DB {
	gdb, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.Lesson{},
		&skill.Record{},
		&homework.Job{},
	); err != nil {
		log.Fatalf("db migrate: %v", err)
	}
	return gdb
}
