package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/kubev2v/job-tracker/internal/client"
	"github.com/spf13/cobra"
)

type SessionOptions struct {
	GlobalOptions
}

func DefaultSessionOptions() *SessionOptions {
	return &SessionOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func newSessionCmd(use, short string, run func(o *SessionOptions, ctx context.Context) error) *cobra.Command {
	o := DefaultSessionOptions()
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return run(o, cmd.Context())
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func NewCmdLogin() *cobra.Command {
	return newSessionCmd("login", "Sign in and remember the user for later commands.", (*SessionOptions).Login)
}

func NewCmdLogout() *cobra.Command {
	return newSessionCmd("logout", "Forget the signed-in user.", (*SessionOptions).Logout)
}

func NewCmdWhoami() *cobra.Command {
	return newSessionCmd("whoami", "Show the signed-in user.", (*SessionOptions).Whoami)
}

func (o *SessionOptions) Login(ctx context.Context) error {
	c, err := o.AnonymousClient()
	if err != nil {
		return err
	}

	user, err := c.SignIn(ctx)
	if err != nil {
		return fmt.Errorf("signing in: %w", err)
	}
	if err := o.Session().Save(*user); err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	_, err = fmt.Fprintf(o.out, "Signed in as %s <%s> (%s)\n", user.Name, user.Email, user.Id)
	return err
}

func (o *SessionOptions) Logout(ctx context.Context) error {
	if err := o.Session().Clear(); err != nil {
		return fmt.Errorf("clearing session: %w", err)
	}
	_, err := fmt.Fprintln(o.out, "Signed out")
	return err
}

func (o *SessionOptions) Whoami(ctx context.Context) error {
	user, err := o.Session().User()
	if err != nil {
		if errors.Is(err, client.ErrNotSignedIn) {
			return fmt.Errorf("%w, run login first", err)
		}
		return err
	}
	_, err = fmt.Fprintf(o.out, "%s <%s> (%s)\n", user.Name, user.Email, user.Id)
	return err
}
