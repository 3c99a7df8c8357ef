package stocktake

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/rallycommand/rallycommand-backend/pkg/db/models"
	pkgerrors "github.com/rallycommand/rallycommand-backend/pkg/errors"
)

// Summary is the one-pass partition of a line list into matched, over and
// under buckets. Over and under preserve input order.
type Summary struct {
	Matched              int                    `json:"matched"`
	Over                 []models.StocktakeLine `json:"over"`
	Under                []models.StocktakeLine `json:"under"`
	TotalItemsCounted    int                    `json:"total_items_counted"`
	TotalValueDifference decimal.Decimal        `json:"total_value_difference"`
}

// Start snapshots the inventory into counting lines, one per item in input
// order. Each line assumes no discrepancy until the user records a count.
// The source items are never touched.
func Start(items []models.InventoryItem) []models.StocktakeLine {
	lines := make([]models.StocktakeLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.StocktakeLine{
			ItemID:           item.ID,
			ItemName:         item.Name,
			Location:         item.Location,
			ExpectedQuantity: item.Quantity,
			ActualQuantity:   item.Quantity,
			Counted:          false,
			UnitPrice:        item.Price,
			Difference:       0,
			ValueDifference:  decimal.Zero,
		})
	}
	return lines
}

// RecordCount returns a copy of lines with only lines[index] replaced.
// Difference and value difference are always recomputed together from the
// new actual quantity. Negative counts are rejected.
func RecordCount(lines []models.StocktakeLine, index, actual int) ([]models.StocktakeLine, error) {
	if index < 0 || index >= len(lines) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("line index %d out of range", index))
	}
	if actual < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "counted quantity cannot be negative")
	}

	next := make([]models.StocktakeLine, len(lines))
	copy(next, lines)

	line := next[index]
	line.ActualQuantity = actual
	line.Counted = true
	line.Difference = actual - line.ExpectedQuantity
	line.ValueDifference = decimal.NewFromInt(int64(line.Difference)).Mul(line.UnitPrice)
	next[index] = line

	return next, nil
}

// Summarize partitions the lines in a single pass. Every line lands in
// exactly one bucket: matched counts zero-difference lines, over and under
// collect the positive and negative ones. The total value difference sums
// every line, zero-difference lines contributing zero.
func Summarize(lines []models.StocktakeLine) Summary {
	summary := Summary{
		TotalItemsCounted:    len(lines),
		TotalValueDifference: decimal.Zero,
	}
	for _, line := range lines {
		switch {
		case line.Difference > 0:
			summary.Over = append(summary.Over, line)
		case line.Difference < 0:
			summary.Under = append(summary.Under, line)
		default:
			summary.Matched++
		}
		summary.TotalValueDifference = summary.TotalValueDifference.Add(line.ValueDifference)
	}
	return summary
}

// CountedLines reports how many lines the user actually counted.
func CountedLines(lines []models.StocktakeLine) int {
	counted := 0
	for _, line := range lines {
		if line.Counted {
			counted++
		}
	}
	return counted
}
