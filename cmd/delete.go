package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/dgview/dgview/internal/listing"
	"github.com/dgview/dgview/internal/tui"
)

var (
	deleteBucket    string
	deleteForce     bool
	deleteRecursive bool
)

// deleteCmd represents the delete command
var deleteCmd = &cobra.Command{
	Use:   "delete <key>...",
	Short: "Delete objects from a bucket",
	Long: `Delete one or more objects from the configured bucket.

Examples:
  dgview delete releases/old.bin             # Delete a single object
  dgview delete a.bin b.bin c.bin            # Delete several objects
  dgview delete releases/ --recursive        # Delete everything under a prefix
  dgview delete releases/old.bin --force     # Delete without confirmation`,
	Args: cobra.MinimumNArgs(1),
	RunE: deleteObjects,
}

func init() {
	rootCmd.AddCommand(deleteCmd)

	deleteCmd.Flags().StringVarP(&deleteBucket, "bucket", "b", "", "bucket name (overrides config)")
	deleteCmd.Flags().BoolVarP(&deleteForce, "force", "f", false, "delete without confirmation")
	deleteCmd.Flags().BoolVarP(&deleteRecursive, "recursive", "r", false, "treat the argument as a prefix and delete everything under it")
}

func deleteObjects(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	bucketName := cfg.GetEffectiveBucket()
	if deleteBucket != "" {
		bucketName = deleteBucket
	}
	if bucketName == "" {
		return fmt.Errorf("no bucket configured; pass --bucket or set one in the config")
	}

	backend, err := newBackend(cfg)
	if err != nil {
		return err
	}

	keys := args
	if deleteRecursive {
		if len(args) != 1 {
			return fmt.Errorf("--recursive takes exactly one prefix")
		}
		keys, err = keysUnderPrefix(backend, bucketName, args[0])
		if err != nil {
			return err
		}
		if len(keys) == 0 {
			return fmt.Errorf("no objects found with prefix: %s", args[0])
		}

		fmt.Printf("The following %d objects will be deleted:\n", len(keys))
		for _, key := range keys {
			fmt.Printf("  - %s\n", key)
		}
	}

	if !deleteForce {
		fmt.Printf("Are you sure you want to delete %d object(s)? This cannot be undone! (y/N): ", len(keys))
		var response string
		fmt.Scanln(&response)

		response = strings.ToLower(strings.TrimSpace(response))
		if response != "y" && response != "yes" {
			fmt.Println("Delete cancelled.")
			return nil
		}
	}

	logrus.Infof("Deleting %d objects from %s", len(keys), bucketName)

	result, err := backend.BulkDelete(context.Background(), bucketName, keys)
	if err != nil {
		return fmt.Errorf("failed to delete objects: %w", err)
	}

	if result.TotalErrors > 0 {
		fmt.Printf("Deleted %d objects, %d failed:\n", result.TotalDeleted, result.TotalErrors)
		for _, key := range result.Errors {
			fmt.Printf("  Error: %s\n", key)
		}
		return fmt.Errorf("some objects could not be deleted")
	}

	fmt.Printf("Deleted %d objects.\n", result.TotalDeleted)
	return nil
}

// keysUnderPrefix collects every object key under a prefix, walking nested
// directories. Each level goes through the listing loader, so the client-side
// ceiling applies per directory just as it does in the browser.
func keysUnderPrefix(backend tui.Backend, bucketName, prefix string) ([]string, error) {
	loader := listing.NewLoader(backend)

	var keys []string
	pending := []string{prefix}
	for len(pending) > 0 {
		current := pending[0]
		pending = pending[1:]

		cache, err := loader.FetchAll(context.Background(), listing.Params{
			Bucket: bucketName,
			Prefix: current,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list %s: %w", current, err)
		}
		for _, obj := range cache.Objects {
			keys = append(keys, obj.Key)
		}
		pending = append(pending, cache.Directories...)
	}
	return keys, nil
}
