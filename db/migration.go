package db

import (
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"

	dbmodels "docflow-backend/models/db"
)

func AutoMigrateDB() error {
	log.Info("Запуск миграций")
	if err := DB.AutoMigrate(&dbmodels.User{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры User")
	}
	if err := DB.AutoMigrate(&dbmodels.Document{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Document")
	}
	if err := DB.AutoMigrate(&dbmodels.Approver{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Approver")
	}
	if err := DB.AutoMigrate(&dbmodels.Recipient{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Recipient")
	}
	if err := DB.AutoMigrate(&dbmodels.Attachment{}); err != nil {
		return errors.Wrap(err, "ошибка создания структуры Attachment")
	}
	log.Info("Миграция прошла успешно")
	return nil
}
