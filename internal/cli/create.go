package cli

import (
	"context"
	"fmt"
	"strings"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

func NewCmdCreate() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a resource",
	}
	cmd.AddCommand(NewCmdCreateJob())
	return cmd
}

type CreateJobOptions struct {
	GlobalOptions

	CompanyName string
	JobRole     string
	JobURL      string
	Notes       string
	Status      string
	Output      string
}

func DefaultCreateJobOptions() *CreateJobOptions {
	return &CreateJobOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Status:        string(api.JobStatusApplied),
	}
}

func NewCmdCreateJob() *cobra.Command {
	o := DefaultCreateJobOptions()
	cmd := &cobra.Command{
		Use:   "job",
		Short: "Record a new job application",
		Args:  cobra.NoArgs,
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

func (o *CreateJobOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVar(&o.CompanyName, "company", o.CompanyName, "Company name")
	fs.StringVar(&o.JobRole, "role", o.JobRole, "Job role")
	fs.StringVar(&o.JobURL, "url", o.JobURL, "Link to the job posting")
	fs.StringVar(&o.Notes, "notes", o.Notes, "Free text notes")
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("Application status. One of: (%s).", strings.Join(statusValues(), ", ")))
	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
}

func (o *CreateJobOptions) Complete(cmd *cobra.Command, args []string) error {
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *CreateJobOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}
	if strings.TrimSpace(o.CompanyName) == "" {
		return fmt.Errorf("--company is required")
	}
	if strings.TrimSpace(o.JobRole) == "" {
		return fmt.Errorf("--role is required")
	}
	if err := validateStatus(o.Status); err != nil {
		return err
	}
	return validateOutput(o.Output)
}

func (o *CreateJobOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	job, err := c.CreateJob(ctx, api.JobCreate{
		CompanyName: o.CompanyName,
		JobRole:     o.JobRole,
		JobUrl:      o.JobURL,
		Notes:       o.Notes,
		Status:      api.JobStatus(o.Status),
	})
	if err != nil {
		return fmt.Errorf("creating %s: %w", JobKind, err)
	}

	if ok, err := printStructured(o.out, api.JobResponse{Job: *job}, o.Output); ok {
		return err
	}
	_, err = fmt.Fprintf(o.out, "%s/%s created\n", JobKind, job.Id)
	return err
}

func statusValues() []string {
	values := make([]string, 0, len(api.JobStatuses()))
	for _, s := range api.JobStatuses() {
		values = append(values, string(s))
	}
	return values
}

func validateStatus(status string) error {
	if !api.JobStatus(status).Valid() {
		return fmt.Errorf("status must be one of %s", strings.Join(statusValues(), ", "))
	}
	return nil
}
