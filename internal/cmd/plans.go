package cmd

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/amurg-ai/phonebill/internal/store"
	"github.com/amurg-ai/phonebill/pkg/cli"
)

func newPlansCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plans",
		Short: "List price plans",
		Args:  cobra.NoArgs,
		RunE:  runPlansList,
	}
	cmd.AddCommand(newPlansAddCmd())
	cmd.AddCommand(newPlansUpdateCmd())
	cmd.AddCommand(newPlansRemoveCmd())
	return cmd
}

func newPlansAddCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a price plan (prompts for prices not given as flags)",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlansAdd,
	}
	cmd.Flags().String("call", "", "price per call")
	cmd.Flags().String("sms", "", "price per SMS")
	return cmd
}

func newPlansUpdateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "update NAME",
		Short: "Set the prices of every plan with the given name",
		Args:  cobra.ExactArgs(1),
		RunE:  runPlansUpdate,
	}
	cmd.Flags().String("call", "", "price per call")
	cmd.Flags().String("sms", "", "price per SMS")
	return cmd
}

func newPlansRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "rm ID",
		Aliases: []string{"delete"},
		Short:   "Delete a price plan by id",
		Args:    cobra.ExactArgs(1),
		RunE:    runPlansRemove,
	}
}

// openStore opens the configured store for a one-shot command.
func openStore(cmd *cobra.Command) (store.Store, error) {
	cfg, _, err := loadConfig(cmd, nil)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	s, err := store.New(cfg.Storage)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	return s, nil
}

func runPlansList(cmd *cobra.Command, args []string) error {
	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	plans, err := s.ListPricePlans(cmd.Context())
	if err != nil {
		return fmt.Errorf("list price plans: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(plans) == 0 {
		_, _ = fmt.Fprintln(out, dimmedStyle.Render("No price plans yet. Add one with: phonebill plans add NAME"))
		return nil
	}
	renderPlans(out, plans)
	return nil
}

func renderPlans(w io.Writer, plans []store.PricePlan) {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(borderStyle).
		Headers("ID", "PLAN", "CALL", "SMS").
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col >= 2:
				return priceCellStyle
			default:
				return cellStyle
			}
		})
	for _, p := range plans {
		t.Row(
			strconv.FormatInt(p.ID, 10),
			p.PlanName,
			decimal.NewFromFloat(p.CallPrice).String(),
			decimal.NewFromFloat(p.SMSPrice).String(),
		)
	}
	_, _ = fmt.Fprintln(w, titleStyle.Render("Price plans"))
	_, _ = fmt.Fprintln(w, t.Render())
}

// planPrices reads --call and --sms, prompting for any that were not given.
func planPrices(cmd *cobra.Command) (call, sms float64, err error) {
	p := &cli.Prompter{In: cmd.InOrStdin(), Out: cmd.OutOrStdout()}

	read := func(flag, question string) (float64, error) {
		if f := cmd.Flags().Lookup(flag); f != nil && f.Changed {
			d, err := decimal.NewFromString(f.Value.String())
			if err != nil {
				return 0, fmt.Errorf("--%s must be a number: %w", flag, err)
			}
			return d.InexactFloat64(), nil
		}
		return p.AskPrice(question, decimal.Zero).InexactFloat64(), nil
	}

	if call, err = read("call", "Call price"); err != nil {
		return 0, 0, err
	}
	if sms, err = read("sms", "SMS price"); err != nil {
		return 0, 0, err
	}
	return call, sms, nil
}

func runPlansAdd(cmd *cobra.Command, args []string) error {
	call, sms, err := planPrices(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	plan := &store.PricePlan{PlanName: args[0], CallPrice: call, SMSPrice: sms}
	if err := s.CreatePricePlan(cmd.Context(), plan); err != nil {
		return fmt.Errorf("create price plan: %w", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Created price plan %q (id %d)", plan.PlanName, plan.ID)))
	return nil
}

func runPlansUpdate(cmd *cobra.Command, args []string) error {
	call, sms, err := planPrices(cmd)
	if err != nil {
		return err
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	n, err := s.UpdatePricePlanByName(cmd.Context(), args[0], call, sms)
	if err != nil {
		return fmt.Errorf("update price plan: %w", err)
	}
	if n == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), dimmedStyle.Render(fmt.Sprintf("No price plan named %q", args[0])))
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Updated %d price plan(s) named %q", n, args[0])))
	return nil
}

func runPlansRemove(cmd *cobra.Command, args []string) error {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid id %q: must be an integer", args[0])
	}

	s, err := openStore(cmd)
	if err != nil {
		return err
	}
	defer func() { _ = s.Close() }()

	n, err := s.DeletePricePlan(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("delete price plan: %w", err)
	}
	if n == 0 {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), dimmedStyle.Render(fmt.Sprintf("No price plan with id %d", id)))
		return nil
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render(fmt.Sprintf("Deleted price plan %d", id)))
	return nil
}
