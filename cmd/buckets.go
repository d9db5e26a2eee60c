package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// bucketsCmd represents the buckets command
var bucketsCmd = &cobra.Command{
	Use:   "buckets",
	Short: "List buckets with compression stats",
	Long: `List every reachable bucket together with its object count, original
and stored byte totals, and overall savings percentage. Stats marked pending
are still being computed on the server (or unavailable in direct S3 mode).`,
	RunE: listBuckets,
}

func init() {
	rootCmd.AddCommand(bucketsCmd)
}

func listBuckets(cmd *cobra.Command, args []string) error {
	backend, err := newBackend(GetConfig())
	if err != nil {
		return err
	}

	buckets, err := backend.ListBuckets(context.Background())
	if err != nil {
		return fmt.Errorf("failed to list buckets: %w", err)
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tOBJECTS\tORIGINAL\tSTORED\tSAVED\tCOMPUTED")

	for _, b := range buckets {
		if b.Pending {
			fmt.Fprintf(w, "%s\tpending\tpending\tpending\t-\t-\n", b.Name)
			continue
		}
		computed := "-"
		if b.ComputedAt != nil {
			computed = b.ComputedAt.Format(time.RFC3339)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.1f%%\t%s\n",
			b.Name,
			humanize.Comma(b.ObjectCount),
			humanize.IBytes(uint64(b.OriginalBytes)),
			humanize.IBytes(uint64(b.StoredBytes)),
			b.SavingsPct,
			computed)
	}

	return w.Flush()
}
