package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	api "github.com/kubev2v/job-tracker/api/v1alpha1"
	"github.com/kubev2v/job-tracker/internal/store/model"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/thoas/go-funk"
)

const allStatuses = "all"

type GetOptions struct {
	GlobalOptions

	Output string
	Status string
}

func DefaultGetOptions() *GetOptions {
	return &GetOptions{
		GlobalOptions: DefaultGlobalOptions(),
		Status:        allStatuses,
	}
}

func NewCmdGet() *cobra.Command {
	o := DefaultGetOptions()
	cmd := &cobra.Command{
		Use:   "get (TYPE | TYPE/ID)",
		Short: "Display one or many jobs.",
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

func (o *GetOptions) Bind(fs *pflag.FlagSet) {
	o.GlobalOptions.Bind(fs)

	fs.StringVarP(&o.Output, "output", "o", o.Output, fmt.Sprintf("Output format. One of: (%s).", strings.Join(legalOutputTypes, ", ")))
	fs.StringVar(&o.Status, "status", o.Status, fmt.Sprintf("Only show jobs with this status. One of: (%s).", strings.Join(statusFilterValues(), ", ")))
}

func (o *GetOptions) Complete(cmd *cobra.Command, args []string) error {
	return o.GlobalOptions.Complete(cmd, args)
}

func (o *GetOptions) Validate(args []string) error {
	if err := o.GlobalOptions.Validate(args); err != nil {
		return err
	}

	if _, _, err := parseAndValidateKindId(args[0]); err != nil {
		return err
	}

	if !funk.ContainsString(statusFilterValues(), o.Status) {
		return fmt.Errorf("status must be one of %s", strings.Join(statusFilterValues(), ", "))
	}

	return validateOutput(o.Output)
}

func (o *GetOptions) Run(ctx context.Context, args []string) error {
	c, err := o.Client()
	if err != nil {
		return err
	}

	kind, id, err := parseAndValidateKindId(args[0])
	if err != nil {
		return err
	}

	jobs, err := c.ListJobs(ctx)
	if err != nil {
		return fmt.Errorf("listing %s: %w", plural(kind), err)
	}

	if id != "" {
		found := funk.Filter(jobs, func(j api.Job) bool { return j.Id == id }).([]api.Job)
		if len(found) == 0 {
			return fmt.Errorf("reading %s/%s: not found", kind, id)
		}
		if ok, err := printStructured(o.out, api.JobResponse{Job: found[0]}, o.Output); ok {
			return err
		}
		return printJobsTable(o.out, found...)
	}

	jobs = filterByStatus(jobs, o.Status)
	if ok, err := printStructured(o.out, api.JobList{Jobs: jobs}, o.Output); ok {
		return err
	}
	return printJobsTable(o.out, jobs...)
}

func statusFilterValues() []string {
	values := []string{allStatuses}
	for _, s := range api.JobStatuses() {
		values = append(values, string(s))
	}
	return values
}

// filterByStatus keeps the server order, newest first.
func filterByStatus(jobs []api.Job, status string) []api.Job {
	if status == allStatuses {
		return jobs
	}
	filtered := make([]api.Job, 0, len(jobs))
	for _, j := range jobs {
		if string(j.Status) == status {
			filtered = append(filtered, j)
		}
	}
	return filtered
}

func printJobsTable(out io.Writer, jobs ...api.Job) error {
	w := tabwriter.NewWriter(out, 0, 8, 1, '\t', 0)
	fmt.Fprintln(w, "ID\tCOMPANY\tROLE\tSTATUS\tCREATED")
	for _, j := range jobs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			j.Id,
			j.CompanyName,
			j.JobRole,
			model.JobStatus(j.Status).Label(),
			j.CreatedAt.Local().Format(time.DateOnly),
		)
	}
	return w.Flush()
}
