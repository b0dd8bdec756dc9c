package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newJobsCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilters []string
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "List jobs known to the daemon",
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := cmdCtx.apiBaseURL()
			if err != nil {
				return err
			}
			list, err := newAPIClient(baseURL).jobs(cmd.Context(), statusFilters)
			if err != nil {
				return err
			}

			if jsonFlag {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(list)
			}

			if len(list) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "no jobs")
				return nil
			}

			rows := make([][]string, 0, len(list))
			for _, job := range list {
				request := job.Query
				if request == "" {
					request = job.URL
				}
				detail := job.Error
				if detail == "" && job.Result != nil {
					detail = job.Result.SongDir
				}
				rows = append(rows, []string{
					job.JobID,
					job.Status,
					job.Step,
					request,
					detail,
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"ID", "STATUS", "STEP", "REQUEST", "DETAIL"},
				rows,
			))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (queued, running, done, error)")
	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the raw JSON payload")
	return cmd
}
