package cli

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gitify-app/gitify-cli/internal/model"
)

// paymentRequest assembles the initialize body. Amount travels as a string
// because the payment gateway behind the backend wants one.
func paymentRequest(firstName, lastName, email string, price float64, planID, userID string) model.InitializePaymentRequest {
	return model.InitializePaymentRequest{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Amount:    formatPrice(price),
		Plan:      planID,
		UserID:    userID,
	}
}

func newPaymentCmd(get func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payment",
		Short: "Plans, checkout and payment status",
	}
	cmd.AddCommand(
		newPlansCmd(get),
		newCheckoutCmd(get),
		newVerifyCmd(get),
		newOrderCmd(get),
		newSubscriptionCmd(get),
	)
	return cmd
}

func newPlansCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "plans",
		Short: "Show the pricing catalog",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			// Pricing is browsable while signed out, same as the web page.
			app.Bootstrap(cmd.Context(), "/pricing")

			plans, err := app.API.Plans(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for i, p := range plans {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintf(out, "%s — %s %s\n", heading(p.Name), formatPrice(p.Price), p.Currency)
				fmt.Fprintf(out, "  %s\n", p.Description)
				for _, f := range p.Features {
					fmt.Fprintf(out, "  %s %s\n", okStyle.Render("✓"), f)
				}
			}
			fmt.Fprintln(out)
			fmt.Fprintln(out, dimStyle.Render("Upgrade with: gitify payment checkout --plan pro"))
			return nil
		},
	}
}

func newCheckoutCmd(get func() *App) *cobra.Command {
	var (
		plan      string
		firstName string
		lastName  string
		email     string
	)
	cmd := &cobra.Command{
		Use:   "checkout",
		Short: "Start a checkout for a paid plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			ctx := cmd.Context()
			if err := app.RequireAuth(ctx, "/payment"); err != nil {
				return err
			}

			plans, err := app.API.Plans(ctx)
			if err != nil {
				return err
			}
			selected := -1
			for i, p := range plans {
				if strings.EqualFold(p.ID, plan) || strings.EqualFold(p.Name, plan) {
					selected = i
					break
				}
			}
			if selected < 0 {
				return fmt.Errorf("unknown plan %q — see `gitify payment plans`", plan)
			}
			if plans[selected].Price <= 0 {
				return fmt.Errorf("the %s plan needs no checkout", plans[selected].Name)
			}

			snap := app.Sessions.Snapshot()
			if email == "" {
				email = snap.User.Email
			}
			if firstName == "" {
				firstName = snap.User.Username
			}

			session, err := app.API.InitializePayment(ctx, paymentRequest(
				firstName, lastName, email, plans[selected].Price,
				plans[selected].ID, snap.User.ID,
			))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Open this URL in your browser to complete the payment:")
			fmt.Fprintf(out, "\n  %s\n\n", session.CheckoutURL)
			fmt.Fprintf(out, "Afterwards run: gitify payment verify %s\n", session.TxRef)
			return nil
		},
	}
	cmd.Flags().StringVar(&plan, "plan", "", "plan to buy, e.g. pro (required)")
	cmd.Flags().StringVar(&firstName, "first-name", "", "billing first name (defaults to username)")
	cmd.Flags().StringVar(&lastName, "last-name", "", "billing last name")
	cmd.Flags().StringVar(&email, "email", "", "billing email (defaults to account email)")
	cmd.MarkFlagRequired("plan")
	return cmd
}

func newVerifyCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "verify <tx-ref>",
		Short: "Verify a payment after checkout",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/payment"); err != nil {
				return err
			}

			v, err := app.API.VerifyPayment(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKV(out, "Order", v.Order.ID)
			printKV(out, "Plan", v.Order.Plan)
			printKV(out, "Amount", formatPrice(v.Order.Amount))
			if v.Payment.Status == "completed" || v.Order.Status == "completed" {
				fmt.Fprintf(out, "%s Payment confirmed — your plan is active.\n", okStyle.Render("✓"))
			} else {
				printKV(out, "Status", v.Payment.Status)
			}
			return nil
		},
	}
}

func newOrderCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "order <tx-ref>",
		Short: "Show the order behind a transaction reference",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/payment"); err != nil {
				return err
			}

			order, err := app.API.Order(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKV(out, "ID", order.ID)
			printKV(out, "Plan", order.Plan)
			printKV(out, "Amount", formatPrice(order.Amount))
			printKV(out, "Status", order.Status)
			return nil
		},
	}
}

func newSubscriptionCmd(get func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the current subscription",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app := get()
			if err := app.RequireAuth(cmd.Context(), "/payment"); err != nil {
				return err
			}

			sub, err := app.API.SubscriptionStatus(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printKV(out, "Plan", sub.Plan)
			printKV(out, "Status", sub.Status)
			if !sub.ExpiresAt.IsZero() {
				printKV(out, "Expires", sub.ExpiresAt.Format(time.RFC822))
			}
			return nil
		},
	}
}

// formatPrice trims trailing zeros: 100 not 100.00, but 99.5 stays 99.5.
func formatPrice(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64)
}
