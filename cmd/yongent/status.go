package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	var jsonFlag bool

	cmd := &cobra.Command{
		Use:   "status <job-id>",
		Short: "Show the status of one job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			baseURL, err := cmdCtx.apiBaseURL()
			if err != nil {
				return err
			}
			job, err := newAPIClient(baseURL).status(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			if jsonFlag {
				encoder := json.NewEncoder(cmd.OutOrStdout())
				encoder.SetIndent("", "  ")
				return encoder.Encode(job)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "job:    %s\n", job.JobID)
			fmt.Fprintf(out, "status: %s\n", job.Status)
			fmt.Fprintf(out, "step:   %s\n", job.Step)
			if job.Query != "" {
				fmt.Fprintf(out, "query:  %s\n", job.Query)
			}
			if job.Error != "" {
				fmt.Fprintf(out, "error:  %s\n", job.Error)
			}
			if job.Result != nil {
				fmt.Fprintf(out, "title:  %s - %s\n", job.Result.Artist, job.Result.Title)
				fmt.Fprintf(out, "dir:    %s\n", job.Result.SongDir)
				fmt.Fprintf(out, "files:  %s, %s, %s\n",
					job.Result.Files.Audio, job.Result.Files.Clip, job.Result.Files.Report)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&jsonFlag, "json", false, "Print the raw JSON payload")
	return cmd
}
