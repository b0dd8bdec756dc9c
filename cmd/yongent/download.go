package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
)

func newDownloadCommand(cmdCtx *commandContext) *cobra.Command {
	var urlFlag string
	var outputDirFlag string
	var waitFlag bool

	cmd := &cobra.Command{
		Use:   "download [query]",
		Short: "Submit a download job to the daemon",
		Long:  "Submit a job by free-form query (e.g. \"아이유 - 좋은날\") or by direct YouTube URL.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := ""
			if len(args) > 0 {
				query = strings.TrimSpace(args[0])
			}
			if query == "" && strings.TrimSpace(urlFlag) == "" {
				return fmt.Errorf("provide a query argument or --url")
			}

			baseURL, err := cmdCtx.apiBaseURL()
			if err != nil {
				return err
			}
			client := newAPIClient(baseURL)

			reply, err := client.download(cmd.Context(), downloadPayload{
				Query:     query,
				URL:       strings.TrimSpace(urlFlag),
				OutputDir: strings.TrimSpace(outputDirFlag),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "job %s %s\n", reply.JobID, reply.Status)
			if !waitFlag {
				return nil
			}
			return waitForJob(cmd.Context(), cmd, client, reply.JobID)
		},
	}

	cmd.Flags().StringVarP(&urlFlag, "url", "u", "", "YouTube URL to download directly")
	cmd.Flags().StringVarP(&outputDirFlag, "output-dir", "o", "", "Base directory for the song folder")
	cmd.Flags().BoolVarP(&waitFlag, "wait", "w", false, "Poll until the job finishes")
	return cmd
}

func waitForJob(ctx context.Context, cmd *cobra.Command, client *apiClient, jobID string) error {
	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	lastStep := ""
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		job, err := client.status(ctx, jobID)
		if err != nil {
			return err
		}
		if job.Step != lastStep {
			fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", job.Step)
			lastStep = job.Step
		}

		switch job.Status {
		case "done":
			if job.Result != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "done: %s\n", job.Result.SongDir)
			}
			return nil
		case "error":
			return fmt.Errorf("job failed: %s", job.Error)
		}
	}
}
