package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spark7/backoffice/internal/domain/shared/service"
	"github.com/spark7/backoffice/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormNumberGenerator reserves document numbers from the document_sequences
// table. Each reservation locks the sequence row, so numbers are unique and
// monotonic even under concurrent posting; reserving inside the caller's
// transaction keeps the number and the document atomic.
type GormNumberGenerator struct {
	db txAwareDB
}

// NewGormNumberGenerator creates a new GormNumberGenerator
func NewGormNumberGenerator(db *gorm.DB) *GormNumberGenerator {
	return &GormNumberGenerator{db: txAwareDB{db: db}}
}

// Next reserves the next number for key and renders it per format
func (g *GormNumberGenerator) Next(ctx context.Context, key string, format service.NumberFormat) (string, error) {
	session := g.db.session(ctx)

	var value int64
	err := session.Transaction(func(tx *gorm.DB) error {
		var row models.DocumentSequenceModel
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&row, "key = ?", key).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row = models.DocumentSequenceModel{Key: key, NextValue: 1, UpdatedAt: time.Now()}
			if err := tx.Create(&row).Error; err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		value = row.NextValue
		return tx.Model(&models.DocumentSequenceModel{}).
			Where("key = ?", key).
			Updates(map[string]interface{}{
				"next_value": row.NextValue + 1,
				"updated_at": time.Now(),
			}).Error
	})
	if err != nil {
		return "", err
	}
	return render(value, format), nil
}

// render formats a reserved value, e.g. RV-20260830-000042
func render(value int64, format service.NumberFormat) string {
	number := format.Prefix
	if format.DatePart {
		if number != "" {
			number += "-"
		}
		number += time.Now().Format("20060102")
	}
	pad := format.Pad
	if pad <= 0 {
		pad = 4
	}
	if number != "" {
		number += "-"
	}
	return number + fmt.Sprintf("%0*d", pad, value)
}

// Ensure GormNumberGenerator implements NumberGenerator
var _ service.NumberGenerator = (*GormNumberGenerator)(nil)
