package goal

import (
	"fmt"

	"github.com/christo725/family-bank-app/internal/currencyutils"
)

// Messages renders a projection as the two lines shown under the goal
// calculator.
func Messages(p Projection) (string, string) {
	date := p.GoalDate.String()
	switch p.Outcome {
	case AlreadyReached:
		return fmt.Sprintf("You have already reached your goal of %s!", currencyutils.FormatUSD(p.GoalAmount)),
			fmt.Sprintf("Current balance: %s", currencyutils.FormatUSD(p.CurrentBalance))
	case NoScheduledDeposits:
		return fmt.Sprintf("No deposits are scheduled before %s.", date),
			fmt.Sprintf("You need %s more to reach your goal.", currencyutils.FormatUSD(p.Shortfall))
	case WillReach:
		return fmt.Sprintf("You will reach your goal by %s!", date),
			fmt.Sprintf("Projected balance: %s", currencyutils.FormatUSD(p.ProjectedBalance))
	case NoAllowanceRemaining:
		return fmt.Sprintf("Projected balance on %s: %s, short by %s.", date,
				currencyutils.FormatUSD(p.ProjectedBalance), currencyutils.FormatUSD(p.Shortfall)),
			"No allowance days remain before the goal date."
	default:
		return fmt.Sprintf("Projected balance on %s: %s, short by %s.", date,
				currencyutils.FormatUSD(p.ProjectedBalance), currencyutils.FormatUSD(p.Shortfall)),
			fmt.Sprintf("Save an extra %s per week to reach your goal.", currencyutils.FormatUSD(p.WeeklyExtraNeeded))
	}
}
