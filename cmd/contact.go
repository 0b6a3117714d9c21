package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/s0up4200/listonce/listonce"
)

var (
	contactParams []string
	enquiry       listonce.Enquiry
	friendEmail   string
	subject       string
	sendYes       bool
)

// contactCmd groups the enquiry commands
var contactCmd = &cobra.Command{
	Use:   "contact",
	Short: "Send enquiries to agents and offices",
}

// enquiryTarget is one of the enquiry endpoints.
type enquiryTarget struct {
	use   string
	short string
	kind  string
	send  func(cmd *cobra.Command, id int) (any, error)
}

func enquiryTargets() []enquiryTarget {
	return []enquiryTarget{
		{
			use:   "listing <listing-id>",
			short: "Enquire about a listing",
			kind:  "listing id",
			send: func(cmd *cobra.Command, id int) (any, error) {
				ctx, cancel := commandContext(cmd)
				defer cancel()
				params, err := parseParams(contactParams)
				if err != nil {
					return nil, err
				}
				return client.ContactAgentListing(ctx, id, enquiry, params)
			},
		},
		{
			use:   "agent <listing-id>",
			short: "Contact the agent of a listing",
			kind:  "listing id",
			send: func(cmd *cobra.Command, id int) (any, error) {
				ctx, cancel := commandContext(cmd)
				defer cancel()
				params, err := parseParams(contactParams)
				if err != nil {
					return nil, err
				}
				return client.ContactAgent(ctx, id, enquiry, params)
			},
		},
		{
			use:   "office <client-id>",
			short: "Contact an office",
			kind:  "client id",
			send: func(cmd *cobra.Command, id int) (any, error) {
				ctx, cancel := commandContext(cmd)
				defer cancel()
				params, err := parseParams(contactParams)
				if err != nil {
					return nil, err
				}
				return client.ContactOffice(ctx, id, enquiry, params)
			},
		},
	}
}

// emailFriendCmd represents the email-friend command
var emailFriendCmd = &cobra.Command{
	Use:   "email-friend <listing-id>",
	Short: "Email a listing to a friend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID("listing id", args[0])
		if err != nil {
			return err
		}
		if enquiry.FromEmail == "" || friendEmail == "" {
			return fmt.Errorf("--from and --to are required")
		}
		params, err := parseParams(contactParams)
		if err != nil {
			return err
		}

		ok, err := confirm(fmt.Sprintf("Email listing %d to %s?", id, friendEmail), sendYes)
		if err != nil || !ok {
			return err
		}

		ctx, cancel := commandContext(cmd)
		defer cancel()

		result, err := client.EmailFriend(ctx, id, enquiry.FromEmail, friendEmail, subject, enquiry.Message, params)
		if err != nil {
			return fmt.Errorf("failed to email listing %d: %w", id, err)
		}
		return printResult(fmt.Sprintf("Emailed listing %d to %s", id, friendEmail), result)
	},
}

func init() {
	rootCmd.AddCommand(contactCmd)
	contactCmd.AddCommand(emailFriendCmd)

	contactCmd.PersistentFlags().StringVar(&enquiry.Name, "name", "", "your name")
	contactCmd.PersistentFlags().StringVar(&enquiry.FromEmail, "from", "", "your email address")
	contactCmd.PersistentFlags().StringVarP(&enquiry.Message, "message", "m", "", "message body")
	contactCmd.PersistentFlags().StringArrayVarP(&contactParams, "param", "p", nil, "extra API parameter as key=value (repeatable)")
	contactCmd.PersistentFlags().BoolVarP(&sendYes, "yes", "y", false, "skip confirmation prompt")

	emailFriendCmd.Flags().StringVar(&friendEmail, "to", "", "recipient email address")
	emailFriendCmd.Flags().StringVar(&subject, "subject", "", "email subject")

	for _, target := range enquiryTargets() {
		contactCmd.AddCommand(&cobra.Command{
			Use:   target.use,
			Short: target.short,
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				id, err := parseID(target.kind, args[0])
				if err != nil {
					return err
				}
				if enquiry.FromEmail == "" || enquiry.Message == "" {
					return fmt.Errorf("--from and --message are required")
				}

				ok, err := confirm(fmt.Sprintf("Send enquiry for %s %d?", target.kind, id), sendYes)
				if err != nil || !ok {
					return err
				}

				result, err := target.send(cmd, id)
				if err != nil {
					return fmt.Errorf("failed to send enquiry: %w", err)
				}
				return printResult("Enquiry sent", result)
			},
		})
	}
}
