package domain

import (
	"time"

	"github.com/shopspring/decimal"
	billingdomain "github.com/smallbiznis/estate/internal/billing/domain"
	"github.com/smallbiznis/estate/internal/config"
	paymentdomain "github.com/smallbiznis/estate/internal/payment/domain"
)

// ComputeBalance sums the amounts of payments still pending or overdue.
// It reads stored status only.
func ComputeBalance(payments []paymentdomain.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		if p.Status.Outstanding() {
			total = total.Add(p.Amount)
		}
	}
	return total
}

type AgingLine struct {
	Label  string          `json:"label"`
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
}

// AgeOutstanding groups outstanding amounts by days past due. Payments not
// yet due count as zero days. A payment matching no bucket is dropped.
func AgeOutstanding(payments []paymentdomain.Payment, today time.Time, buckets []config.AgingBucket) []AgingLine {
	lines := make([]AgingLine, len(buckets))
	for i, b := range buckets {
		lines[i] = AgingLine{Label: b.Label, Amount: decimal.Zero}
	}

	for _, p := range payments {
		if !p.Status.Outstanding() {
			continue
		}
		days := billingdomain.DaysPastDue(p.DueDate, today)
		for i, b := range buckets {
			if b.Contains(days) {
				lines[i].Amount = lines[i].Amount.Add(p.Amount)
				lines[i].Count++
				break
			}
		}
	}
	return lines
}
