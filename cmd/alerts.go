package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	alertParams   []string
	alertCriteria []string
	alertEmail    string
	assumeYes     bool
)

// alertsCmd groups the saved-search alert commands
var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Manage saved-search email alerts",
}

var alertsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List alerts",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		params, err := parseParams(alertParams)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		alerts, err := client.GetAlertList(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list alerts: %w", err)
		}
		return printer.Collection(alerts)
	},
}

var alertsShowCmd = &cobra.Command{
	Use:   "show <alert-id>",
	Short: "Show an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("alert id", args[0])
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		alert, err := client.GetAlertDetails(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to get alert %d: %w", id, err)
		}
		return printer.Entity(alert)
	},
}

var alertsSubscribeCmd = &cobra.Command{
	Use:   "subscribe",
	Short: "Subscribe an email address to a search",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if alertEmail == "" {
			return fmt.Errorf("--email is required")
		}
		criteria, err := parseParams(alertCriteria)
		if err != nil {
			return err
		}
		params, err := parseParams(alertParams)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := client.AlertSubscribe(ctx, alertEmail, criteria, params)
		if err != nil {
			return fmt.Errorf("failed to subscribe: %w", err)
		}
		return printResult(fmt.Sprintf("Subscribed %s", alertEmail), result)
	},
}

var alertsUpdateCmd = &cobra.Command{
	Use:   "update <alert-id>",
	Short: "Replace an alert's search criteria",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("alert id", args[0])
		if err != nil {
			return err
		}
		criteria, err := parseParams(alertCriteria)
		if err != nil {
			return err
		}
		params, err := parseParams(alertParams)
		if err != nil {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := client.AlertUpdate(ctx, id, criteria, params)
		if err != nil {
			return fmt.Errorf("failed to update alert %d: %w", id, err)
		}
		return printResult(fmt.Sprintf("Updated alert %d", id), result)
	},
}

var alertsUnsubscribeCmd = &cobra.Command{
	Use:   "unsubscribe <alert-id>",
	Short: "Delete an alert",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("alert id", args[0])
		if err != nil {
			return err
		}

		ok, err := confirm(fmt.Sprintf("Unsubscribe alert %d?", id), assumeYes)
		if err != nil {
			return err
		}
		if !ok {
			logger.Info().Int("alert_id", id).Msg("Unsubscribe cancelled")
			return nil
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := client.AlertUnsubscribe(ctx, id)
		if err != nil {
			return fmt.Errorf("failed to unsubscribe alert %d: %w", id, err)
		}
		return printResult(fmt.Sprintf("Unsubscribed alert %d", id), result)
	},
}

func init() {
	rootCmd.AddCommand(alertsCmd)
	alertsCmd.AddCommand(alertsListCmd, alertsShowCmd, alertsSubscribeCmd, alertsUpdateCmd, alertsUnsubscribeCmd)

	alertsCmd.PersistentFlags().StringArrayVarP(&alertParams, "param", "p", nil, "extra API parameter as key=value (repeatable)")

	alertsSubscribeCmd.Flags().StringVar(&alertEmail, "email", "", "email address to notify")
	for _, cmd := range []*cobra.Command{alertsSubscribeCmd, alertsUpdateCmd} {
		cmd.Flags().StringArrayVarP(&alertCriteria, "criteria", "c", nil, "search criterion as key=value (repeatable)")
	}
	alertsUnsubscribeCmd.Flags().BoolVarP(&assumeYes, "yes", "y", false, "skip confirmation prompt")
}
