package repositories

import (
	"database/sql"

	"gorm.io/gorm"
)

// TxRunner - открытие транзакции. *gorm.DB реализует интерфейс сам.
type TxRunner interface {
	Transaction(fc func(tx *gorm.DB) error, opts ...*sql.TxOptions) error
}
