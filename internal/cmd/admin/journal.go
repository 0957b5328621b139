package admin

import (
	"encoding/json"
	"fmt"
	"math"

	"github.com/rzbill/flojournal/internal/journal"
	"github.com/rzbill/flojournal/internal/runtime"
	"github.com/spf13/cobra"
)

// newHighestCommand constructs the `highest` subcommand.
func newHighestCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "highest",
		Short: "Print the highest sequence number recorded for a persistence id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			return withRuntime(cmd, func(rt *runtime.Runtime) error {
				hi, err := rt.Journal().HighestSequenceNr(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), hi)
				return nil
			})
		},
	}
	cmd.Flags().String("id", "", "Persistence id")
	return cmd
}

// newReplayCommand constructs the `replay` subcommand. Records are printed
// as one JSON object per line.
func newReplayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "replay",
		Short: "Replay records in a sequence range",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			from, _ := cmd.Flags().GetInt64("from")
			to, _ := cmd.Flags().GetInt64("to")
			max, _ := cmd.Flags().GetInt64("max")
			if max == 0 {
				max = math.MaxInt64
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			return withRuntime(cmd, func(rt *runtime.Runtime) error {
				return rt.Journal().Replay(cmd.Context(), id, from, to, max, func(r journal.Record) error {
					return enc.Encode(decodedRecord(r))
				})
			})
		},
	}
	cmd.Flags().String("id", "", "Persistence id")
	cmd.Flags().Int64("from", 0, "First sequence number (inclusive)")
	cmd.Flags().Int64("to", math.MaxInt64, "Last sequence number (inclusive)")
	cmd.Flags().Int64("max", 0, "Stop after N records (0 = no limit)")
	return cmd
}

// newTruncateCommand constructs the `truncate` subcommand.
func newTruncateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "truncate",
		Short: "Delete records with sequence number <= --to",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			to, _ := cmd.Flags().GetInt64("to")
			return withRuntime(cmd, func(rt *runtime.Runtime) error {
				if err := rt.Journal().Truncate(cmd.Context(), id, to); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "truncated %s through %d\n", id, to)
				return nil
			})
		},
	}
	cmd.Flags().String("id", "", "Persistence id")
	cmd.Flags().Int64("to", 0, "Highest sequence number to delete")
	return cmd
}

// newWriteCommand constructs the `write` subcommand. Each --data value becomes
// one record, numbered consecutively from --seq, written atomically.
func newWriteCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "write",
		Short: "Atomically append records to a persistence id",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, err := requireID(cmd)
			if err != nil {
				return err
			}
			seq, _ := cmd.Flags().GetInt64("seq")
			data, _ := cmd.Flags().GetStringArray("data")
			deleted, _ := cmd.Flags().GetBool("deleted")
			if len(data) == 0 {
				return fmt.Errorf("at least one --data is required")
			}
			records := make([]journal.Record, 0, len(data))
			for i, d := range data {
				records = append(records, journal.Record{SequenceNr: seq + int64(i), Payload: []byte(d), Deleted: deleted})
			}
			highest := records[len(records)-1].SequenceNr
			return withRuntime(cmd, func(rt *runtime.Runtime) error {
				if err := rt.Journal().Write(cmd.Context(), id, records, highest); err != nil {
					if journal.IsRetryable(err) {
						return fmt.Errorf("write failed, safe to retry: %w", err)
					}
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "wrote %d record(s), highest %d\n", len(records), highest)
				return nil
			})
		},
	}
	cmd.Flags().String("id", "", "Persistence id")
	cmd.Flags().Int64("seq", 1, "Sequence number of the first record")
	cmd.Flags().StringArray("data", nil, "Record payload (repeatable)")
	cmd.Flags().Bool("deleted", false, "Mark written records as tombstones")
	return cmd
}

// newHealthCommand constructs the `health` subcommand.
func newHealthCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check that the configured backend is reachable",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withRuntime(cmd, func(rt *runtime.Runtime) error {
				if err := rt.CheckHealth(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "ok (%s)\n", rt.Config().Backend)
				return nil
			})
		},
	}
}
