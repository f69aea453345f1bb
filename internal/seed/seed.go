package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
	"gorm.io/gorm"
)

type feeCategorySeed struct {
	name      string
	frequency paymentdomain.Frequency
}

var defaultFeeCategories = []feeCategorySeed{
	{name: "Maintenance Fee", frequency: paymentdomain.FrequencyMonthly},
	{name: "Sinking Fund", frequency: paymentdomain.FrequencyMonthly},
	{name: "Security Fee", frequency: paymentdomain.FrequencyMonthly},
	{name: "Parking Fee", frequency: paymentdomain.FrequencyMonthly},
	{name: "Building Insurance", frequency: paymentdomain.FrequencyYearly},
	{name: "Move-In Deposit", frequency: paymentdomain.FrequencyOneTime},
}

// EnsureFeeCategories seeds the default fee categories when the table is
// empty. It returns how many rows were inserted.
func EnsureFeeCategories(db *gorm.DB) (int, error) {
	if db == nil {
		return 0, errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return 0, err
	}

	ctx := context.Background()
	inserted := 0
	err = db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&paymentdomain.FeeCategory{}).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return nil
		}

		now := time.Now().UTC()
		for _, item := range defaultFeeCategories {
			category := paymentdomain.FeeCategory{
				ID:            node.Generate(),
				Code:          slug.Make(item.name),
				Name:          item.name,
				DefaultAmount: decimal.Zero,
				Frequency:     item.frequency,
				CreatedAt:     now,
			}
			if err := tx.Create(&category).Error; err != nil {
				return err
			}
			inserted++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}
