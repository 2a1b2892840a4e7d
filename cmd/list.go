package cmd

import (
	"fmt"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/var-manager/internal"
	"github.com/spf13/cobra"
)

var (
	listTag    string
	listLimit  int
	listOffset int
)

var (
	// Styles
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("212"))

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	dateStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("243"))

	tagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("135")).
			Italic(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored global snapshots",
	Long:  `List global snapshots in the store, most recently updated first.`,
	RunE: func(cmd *cobra.Command, args []string) error {
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
		result, err := store.ListGlobalSnapshots(internal.ListGlobalSnapshotsOptions{
			Tag:    listTag,
			Limit:  listLimit,
			Offset: listOffset,
		})
		if err != nil {
			return fmt.Errorf("failed to list snapshots: %w", err)
		}

		displayGlobalSnapshots(result)
		return nil
	},
}

func displayGlobalSnapshots(result *internal.ListGlobalSnapshotsResult) {
	if len(result.Snapshots) == 0 {
		fmt.Println(headerStyle.Render("📋 No global snapshots found"))
		return
	}

	header := headerStyle.Render(fmt.Sprintf("📋 %d snapshot(s), %s total", len(result.Snapshots), countStyle.Render(strconv.Itoa(result.Total))))
	fmt.Println(header)
	fmt.Println()

	// Use tabwriter for aligned columns
	w := tabwriter.NewWriter(lipgloss.DefaultRenderer().Output(), 0, 0, 3, ' ', tabwriter.AlignRight)

	_, _ = fmt.Fprintln(w, titleStyle.Render("ID")+"\t"+titleStyle.Render("Name")+"\t"+titleStyle.Render("Tags")+"\t"+titleStyle.Render("Updated")+"\t")
	_, _ = fmt.Fprintln(w, strings.Repeat("─", 100))

	for _, snapshot := range result.Snapshots {
		name := snapshot.Name
		if len(name) > 40 {
			name = name[:37] + "..."
		}
		nameStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
		name = nameStyle.Render(name)

		tags := "—"
		if len(snapshot.Tags) > 0 {
			tags = tagStyle.Render(strings.Join(snapshot.Tags, ", "))
		}

		updated := formatRelativeTime(time.UnixMilli(snapshot.UpdatedAt))

		// Show short ID (first 24 chars) for readability
		shortID := snapshot.SnapshotID
		if len(shortID) > 24 {
			shortID = shortID[:24]
		}
		id := idStyle.Render(shortID)

		_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t\n", id, name, tags, updated)
	}

	_ = w.Flush()
	fmt.Println()
	fmt.Println(idStyle.Render("💡 Tip: Use the full ID with `var-manager serve` API calls or the delete endpoint"))
}

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < 24*time.Hour:
		return dateStyle.Render(t.Format("Today 15:04"))
	case diff < 7*24*time.Hour:
		return dateStyle.Render(t.Format("Mon 15:04"))
	case diff < 365*24*time.Hour:
		return dateStyle.Render(t.Format("Jan 02 15:04"))
	default:
		return dateStyle.Render(t.Format("2006-01-02"))
	}
}

func init() {
	rootCmd.AddCommand(listCmd)
	listCmd.Flags().StringVar(&listTag, "tag", "", "Only show snapshots carrying this tag")
	listCmd.Flags().IntVar(&listLimit, "limit", 0, "Maximum snapshots to show (default 100)")
	listCmd.Flags().IntVar(&listOffset, "offset", 0, "Number of snapshots to skip")
}
