package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/amurg-ai/phonebill/internal/billing"
)

func newBillCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "bill PLAN [ACTION...]",
		Short: "Calculate a phone bill against a stored price plan",
		Long: `Calculate a phone bill against a stored price plan.

Actions are "call" or "sms", given either as separate arguments or as one
comma-separated list:

  phonebill bill "Test Plan" call sms call
  phonebill bill "Test Plan" "call, sms, call"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runBill,
	}
}

func runBill(cmd *cobra.Command, args []string) error {
	planName := args[0]
	actions := strings.Join(args[1:], ",")

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	bill, err := billing.NewCalculator(s).Calculate(cmd.Context(), planName, actions)
	if errors.Is(err, billing.ErrPlanNotFound) {
		return fmt.Errorf("price plan %q not found", planName)
	}
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	line := func(label, value string) {
		_, _ = fmt.Fprintln(out, labelStyle.Render(label)+value)
	}
	line("Plan", bill.Plan.PlanName)
	line("Calls", fmt.Sprintf("%d × %s", bill.Calls, decimal.NewFromFloat(bill.Plan.CallPrice)))
	line("SMS", fmt.Sprintf("%d × %s", bill.SMS, decimal.NewFromFloat(bill.Plan.SMSPrice)))
	line("Total", totalStyle.Render(bill.FormatTotal()))
	return nil
}
