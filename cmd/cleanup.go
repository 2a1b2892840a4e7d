package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/iksnae/var-manager/internal"
	"github.com/spf13/cobra"
)

var (
	cleanupActive     []string
	cleanupActiveFile string
	cleanupDryRun     bool
)

var cleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Delete snapshots for chat files that no longer exist",
	Long: `Sweep orphaned message snapshots from the store.

Pass the set of chat files that still exist via --active (repeatable) or
--active-file (one name per line). Every snapshot bound to a chat file
outside that set is deleted. With an empty active set, ALL message
snapshots are considered orphaned and removed.

Value pool and structure rows are never touched by the sweep; they may be
shared with surviving snapshots.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		active := append([]string{}, cleanupActive...)
		if cleanupActiveFile != "" {
			fromFile, err := readActiveFile(cleanupActiveFile)
			if err != nil {
				return err
			}
			active = append(active, fromFile...)
		}

		if len(active) == 0 && !cleanupDryRun {
			fmt.Println(warningStyle.Render("⚠️  No active chat files given: every message snapshot will be deleted"))
		}

		path, err := resolveDatabasePath()
		if err != nil {
			return err
		}

		db, err := internal.OpenDatabase(path)
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()

		store := internal.NewStore(db)

		if cleanupDryRun {
			// Report what would be swept without deleting anything
			result, err := store.ListOrphanedChatFiles(active)
			if err != nil {
				return fmt.Errorf("failed to scan snapshots: %w", err)
			}
			if len(result) == 0 {
				fmt.Println(successStyle.Render("✅ Nothing to clean up"))
				return nil
			}
			fmt.Println(headerStyle.Render(fmt.Sprintf("🧹 Would delete snapshots for %d chat file(s):", len(result))))
			for _, chatFile := range result {
				fmt.Printf("   %s\n", chatFile)
			}
			return nil
		}

		result, err := store.CleanupOrphanedSnapshots(active)
		if err != nil {
			return fmt.Errorf("cleanup failed: %w", err)
		}

		if result.DeletedCount == 0 {
			fmt.Println(successStyle.Render("✅ Nothing to clean up"))
			return nil
		}

		fmt.Println(successStyle.Render(fmt.Sprintf("✅ Deleted %d snapshot(s) across %d chat file(s)",
			result.DeletedCount, len(result.DeletedChatFiles))))
		for _, chatFile := range result.DeletedChatFiles {
			fmt.Printf("   %s\n", chatFile)
		}
		return nil
	},
}

func readActiveFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open active file list: %w", err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" {
			names = append(names, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read active file list: %w", err)
	}
	return names, nil
}

func init() {
	rootCmd.AddCommand(cleanupCmd)
	cleanupCmd.Flags().StringArrayVar(&cleanupActive, "active", nil, "Chat file that still exists (repeatable)")
	cleanupCmd.Flags().StringVar(&cleanupActiveFile, "active-file", "", "File listing active chat files, one per line")
	cleanupCmd.Flags().BoolVar(&cleanupDryRun, "dry-run", false, "Only report what would be deleted")
}
