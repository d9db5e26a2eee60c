package cmd

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/remote"
)

var (
	listBucket      string
	listSearch      string
	listCompressed  string
	listSort        string
	listOrder       string
	listInteractive bool
)

// listCmd represents the list command
var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List objects in a bucket",
	Long: `List objects in the configured bucket with optional prefix filtering.
Shows the original and stored size for every object, so compression savings
are visible at a glance. Use --interactive to open the browser instead.

Examples:
  dgview list                        # Table of the bucket root
  dgview list releases/              # Objects under 'releases/'
  dgview list --search linux         # Filter by substring
  dgview list --compressed true      # Delta-compressed objects only
  dgview list --sort size --order desc`,
	RunE: listObjects,
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringVarP(&listBucket, "bucket", "b", "", "bucket name (overrides config)")
	listCmd.Flags().StringVar(&listSearch, "search", "", "filter keys by substring")
	listCmd.Flags().StringVar(&listCompressed, "compressed", "any", "compression filter: any, true, false")
	listCmd.Flags().StringVar(&listSort, "sort", "name", "sort field: name, size, modified")
	listCmd.Flags().StringVar(&listOrder, "order", "asc", "sort order: asc, desc")
	listCmd.Flags().BoolVarP(&listInteractive, "interactive", "i", false, "launch interactive browser")
}

func listObjects(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	bucketName := cfg.GetEffectiveBucket()
	if listBucket != "" {
		cfg.SetTempBucket(listBucket)
		bucketName = listBucket
	}
	if bucketName == "" {
		return fmt.Errorf("no bucket configured; pass --bucket or set one in the config")
	}

	var prefix string
	if len(args) > 0 {
		prefix = args[0]
	}

	if listInteractive {
		return runBrowser(prefix)
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	logrus.Debugf("Listing objects in bucket %s with prefix %q", bucketName, prefix)

	loader := listing.NewLoader(backend)
	cache, err := loader.FetchAll(context.Background(), listing.Params{
		Bucket:     bucketName,
		Prefix:     prefix,
		Search:     listSearch,
		Compressed: remote.CompressedFilter(listCompressed),
	})
	if err != nil {
		return fmt.Errorf("failed to list objects: %w", err)
	}

	listing.SortObjects(cache.Objects, listing.SortKey(listSort), listing.SortOrder(listOrder))

	return outputTable(cache)
}

func outputTable(cache *listing.DirectoryCache) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "NAME\tSIZE\tSTORED\tSAVED\tMODIFIED")

	for _, dir := range cache.Directories {
		fmt.Fprintf(w, "%s\t-\t-\t-\t-\n", dir)
	}

	for _, obj := range cache.Objects {
		saved := "-"
		if obj.Compressed {
			saved = fmt.Sprintf("%.1f%%", obj.SavingsPct())
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
			obj.Key,
			humanize.IBytes(uint64(obj.OriginalBytes)),
			humanize.IBytes(uint64(obj.StoredBytes)),
			saved,
			obj.Modified.Format("2006-01-02 15:04:05"))
	}

	if err := w.Flush(); err != nil {
		return err
	}

	if cache.Limited {
		fmt.Fprintf(os.Stderr, "listing truncated at %d objects\n", cache.TotalObjects)
	}
	return nil
}
