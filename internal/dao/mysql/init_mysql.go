// Package mysql initializes the database connection and the Repository layer.
package mysql

import (
	"fmt"

	"w9ayt_delivery_server/internal/config"
	"w9ayt_delivery_server/internal/dao/mysql/repository"
	"w9ayt_delivery_server/internal/model"

	"go.uber.org/zap"
	mysqldriver "gorm.io/driver/mysql"
	"gorm.io/gorm"
)

// Init connects to MySQL, migrates the schema and returns the
// Repository aggregate. Failure to connect or migrate is fatal.
func Init() *repository.Repositories {
	conf := config.GetConfig()

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		conf.MysqlConfig.User,
		conf.MysqlConfig.Password,
		conf.MysqlConfig.Host,
		conf.MysqlConfig.Port,
		conf.MysqlConfig.DatabaseName,
	)

	db, err := gorm.Open(mysqldriver.Open(dsn), &gorm.Config{})
	if err != nil {
		zap.L().Fatal("mysql connect failed", zap.Error(err))
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Company{},
		&model.Driver{},
		&model.Delivery{},
		&model.Conversation{},
		&model.Message{},
		&model.ContactMessage{},
	)
	if err != nil {
		zap.L().Fatal("mysql migrate failed", zap.Error(err))
	}

	return repository.NewRepositories(db)
}
