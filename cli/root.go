package cli

import (
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"wordquiz/panel"
)

const defaultAPIURL = "http://localhost:8080"

type options struct {
	apiURL string
	token  string
}

func (o *options) client() *panel.Client {
	c := panel.NewClient(o.apiURL, nil)
	if o.token != "" {
		c.SetToken(o.token)
	}
	return c
}

func (o *options) panel() (*panel.Panel, *panel.Client) {
	c := o.client()
	return panel.New(c, zap.NewNop()), c
}

// RootCmd builds the questionctl command tree.
func RootCmd() *cobra.Command {
	opts := &options{}

	rootCmd := &cobra.Command{
		Use:   "questionctl",
		Short: "Manage word-game quiz questions",
		Long: `questionctl lists, adds and deletes quiz questions through the question API.
Set QUESTIONS_API_URL and QUESTIONS_API_TOKEN to avoid passing --api and --token.`,
		SilenceUsage: true,
	}

	apiURL := os.Getenv("QUESTIONS_API_URL")
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	rootCmd.PersistentFlags().StringVar(&opts.apiURL, "api", apiURL, "Question API base URL")
	rootCmd.PersistentFlags().StringVar(&opts.token, "token", os.Getenv("QUESTIONS_API_TOKEN"), "Bearer token for write operations")

	rootCmd.AddCommand(listCmd(opts))
	rootCmd.AddCommand(showCmd(opts))
	rootCmd.AddCommand(addCmd(opts))
	rootCmd.AddCommand(deleteCmd(opts))
	rootCmd.AddCommand(loginCmd(opts))

	return rootCmd
}
