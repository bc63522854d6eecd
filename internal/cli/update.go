package cli

import (
	"context"
	"fmt"
	"strings"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type UpdateOptions struct {
	GlobalOptions

	CompanyName string
	JobRole     string
	JobURL      string
	Notes       string
	Status      string
	Output      string

	changed func(name string) bool
}

func DefaultUpdateOptions() *UpdateOptions {
	return &UpdateOptions{
		GlobalOptions: DefaultGlobalOptions(),
	}
}

func NewCmdUpdate() *cobra.Command {
	o := DefaultUpdateOptions()
	cmd := &cobra.Command{
		Use:   "update TYPE/ID",
		Short: "Change fields of a job. Unset flags are left as they are.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(cmd, args); err != nil {
				return err
			}
			if err := o.Validate(args); err != nil {
				return err
			}
			return o.Run(cmd.Context(), args)
		},
		SilenceUsage: true,
	}
	o.Bind(cmd.Flags())
	return cmd
}

func (o *UpdateOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.CompanyName, "company", o.CompanyName, "Company name")
	fs.StringVar(&o.JobRole, "role", o.JobRole, "Job role")
	fs.StringVar(&o.JobURL, "url", o.JobURL, "Link to the job posting")
	fs.StringVar(&o.Notes, "notes", o.Notes, "Free text notes")
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("Application status. One of: (%s).", strings.Join(statusValues(), ", ")))
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *UpdateOptions) Complete(cmd *cobra.Command, args []string) error {
	if err := o.GlobalOptions.Complete(cmd, args); err != nil {
		return err
	}
	o.changed = cmd.Flags().Changed
	return nil
}

func (o *UpdateOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if _, _, err := requireKindId(args[0]); err != nil {
		return err
	}
	if o.isChanged("status") {
		if err := validateStatus(o.Status); err != nil {
			return err
		}
	}
	return validateOutput(o.Output)
}

func (o *UpdateOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	kind, id, err := requireKindId(args[0])
	if err != nil {
		return err
	}

	job, err := c.UpdateJob(ctx, id, o.update())
	if err != nil {
		return fmt.Errorf("updating %s/%s: %w", kind, id, err)
	}

	if ok, err := printStructured(o.out, api.JobResponse{Job: *job}, o.Output); ok {
		return err
	}
	_, err = fmt.Fprintf(o.out, "%s/%s updated\n", kind, job.Id)
	return err
}

// update only carries the flags given on the command line.
func (o *UpdateOptions) update() api.JobUpdate {
	var u api.JobUpdate
	if o.isChanged("company") {
		u.CompanyName = &o.CompanyName
	}
	if o.isChanged("role") {
		u.JobRole = &o.JobRole
	}
	if o.isChanged("url") {
		u.JobUrl = &o.JobURL
	}
	if o.isChanged("notes") {
		u.Notes = &o.Notes
	}
	if o.isChanged("status") {
		s := api.JobStatus(o.Status)
		u.Status = &s
	}
	return u
}

func (o *UpdateOptions) isChanged(name string) bool {
	return o.changed != nil && o.changed(name)
}
