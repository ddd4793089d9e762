package cli

import (
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/matzehuels/ridgeline/pkg/contact"
	"github.com/matzehuels/ridgeline/pkg/errors"
)

// contactCommand creates the contact command.
func (c *CLI) contactCommand() *cobra.Command {
	var (
		msg    contact.Message
		dryRun bool
	)

	cmd := &cobra.Command{
		Use:   "contact",
		Short: "Send a contact form message through EmailJS",
		Long: `Contact validates a message the way the site's form does and delivers it
through the EmailJS REST API using the [contact] credentials.

The body is read from --message, or from stdin when --message is "-".`,
		Example: `  ridgeline contact --name Ada --email ada@example.com --message "Hello"
  echo "Longer note" | ridgeline contact --name Ada --email ada@example.com --message -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if msg.Body == "-" {
				body, err := io.ReadAll(io.LimitReader(os.Stdin, contact.MaxBodyLen*4))
				if err != nil {
					return fmt.Errorf("read message: %w", err)
				}
				msg.Body = string(body)
			}
			msg = msg.Normalize()
			if err := msg.Validate(); err != nil {
				return err
			}
			if dryRun {
				printSuccess("Message is valid")
				msg.Time = time.Now()
				params := msg.TemplateParams()
				for _, k := range slices.Sorted(maps.Keys(params)) {
					printKeyValue(k, truncate(params[k], 60))
				}
				return nil
			}

			if !c.Config.ContactEnabled() {
				return errors.New(errors.ErrCodeInvalidConfig, "contact is not configured: set contact.service_id, contact.template_id and contact.public_key")
			}
			client, err := contact.NewClient(c.Config.Contact, contact.WithLogger(c.Logger))
			if err != nil {
				return err
			}

			spinner := newSpinnerWithContext(cmd.Context(), "Sending message...")
			spinner.Start()
			receipt, err := client.Send(cmd.Context(), msg)
			if err != nil {
				spinner.StopWithError("Message not sent")
				printDetail("Attempts: %d", receipt.Attempts)
				return err
			}
			spinner.StopWithSuccess("Message sent")
			printDetail("Receipt: %s (%d attempt(s))", receipt.ID, receipt.Attempts)
			return nil
		},
	}

	cmd.Flags().StringVar(&msg.Name, "name", "", "sender name")
	cmd.Flags().StringVar(&msg.Email, "email", "", "sender email")
	cmd.Flags().StringVar(&msg.Body, "message", "", "message body, - for stdin")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "validate and print template params without sending")

	return cmd
}

func truncate(s string, n int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len([]rune(s)) <= n {
		return s
	}
	return string([]rune(s)[:n-1]) + "…"
}
