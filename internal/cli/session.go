package cli

import (
	"github.com/spf13/cobra"
)

// LoginOptions holds flags for the login command.
type LoginOptions struct {
	*RootOptions
	Password string
}

// NewLoginCommand starts a session.
func NewLoginCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LoginOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "login [username]",
		Short: "Log in and remember the session",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var username string
			if len(args) == 1 {
				username = args[0]
			}
			return withApp(cmd, rootOpts, func(app *App) error {
				if _, err := app.Auth.Login(cmd.Context(), username, opts.Password); err != nil {
					return ErrReported
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&opts.Password, "password", "p", "", "account password")

	return cmd
}

// NewLogoutCommand ends the session.
func NewLogoutCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(app *App) error {
				if err := app.Auth.Logout(cmd.Context()); err != nil {
					return ErrReported
				}
				return nil
			})
		},
	}
}

// NewWhoamiCommand prints the current identity.
func NewWhoamiCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in username and wallet balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, rootOpts, func(app *App) error {
				id, err := app.Session.Current(cmd.Context())
				if err != nil {
					return err
				}
				return printIdentity(cmd.OutOrStdout(), rootOpts.Format, id)
			})
		},
	}
}
