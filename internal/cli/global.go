package cli

import (
	"fmt"
	"io"
	"net/url"

	"github.com/kubev2v/job-tracker/internal/client"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type GlobalOptions struct {
	ServerUrl  string
	SessionDir string

	out io.Writer
}

func DefaultGlobalOptions() GlobalOptions {
	return GlobalOptions{
		ServerUrl:  "http://localhost:3000",
		SessionDir: client.DefaultSessionDir(),
	}
}

func (o *GlobalOptions) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&o.ServerUrl, "server-url", "u", o.ServerUrl, "Address of the server")
	fs.StringVar(&o.SessionDir, "session-dir", o.SessionDir, "Directory holding the signed-in user")
}

func (o *GlobalOptions) Complete(cmd *cobra.Command, args []string) error {
	if o.out == nil {
		o.out = cmd.OutOrStdout()
	}
	return nil
}

func (o *GlobalOptions) Validate(args []string) error {
	u, err := url.Parse(o.ServerUrl)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("invalid server url %q", o.ServerUrl)
	}
	if o.SessionDir == "" {
		return fmt.Errorf("session directory must be set")
	}
	return nil
}

func (o *GlobalOptions) Session() *client.Session {
	return client.NewFileSession(o.SessionDir)
}

// Client returns a client acting as the signed-in user.
func (o *GlobalOptions) Client() (*client.Client, error) {
	user, err := o.Session().User()
	if err != nil {
		return nil, err
	}
	return client.New(o.ServerUrl, client.WithUserID(user.Id))
}

// AnonymousClient is only good for signing in.
func (o *GlobalOptions) AnonymousClient() (*client.Client, error) {
	return client.New(o.ServerUrl)
}
