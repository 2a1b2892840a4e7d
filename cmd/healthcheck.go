package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/iksnae/var-manager/internal"
	"github.com/spf13/cobra"
)

var (
	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196")).
			Bold(true)

	infoStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("39"))

	sectionStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("62")).
			Bold(true).
			Underline(true)
)

// healthcheckCmd represents the healthcheck command
var healthcheckCmd = &cobra.Command{
	Use:   "healthcheck",
	Short: "Check if var-manager can open and read its database",
	Long: `Check the health of the snapshot store by verifying:
  • Database path resolution
  • Database file access and schema
  • Row counts per table

This command is useful for debugging storage issues.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println(sectionStyle.Render("🔍 Variable Manager Health Check"))
		fmt.Println()

		// Step 1: Resolve database path
		fmt.Println(infoStyle.Render("Step 1: Resolving database path..."))
		path, err := resolveDatabasePath()
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to resolve database path:"), err)
			return err
		}
		fmt.Println(successStyle.Render("✅ Database path resolved"))
		fmt.Printf("   Path: %s\n", path)
		fmt.Println()

		// Step 2: Open database (applies pragmas and schema)
		fmt.Println(infoStyle.Render("Step 2: Opening database..."))
		db, err := internal.OpenDatabase(path)
		if err != nil {
			fmt.Println(errorStyle.Render("❌ Failed to open database:"), err)
			return err
		}
		defer db.Close()
		fmt.Println(successStyle.Render("✅ Database opened, schema applied"))
		fmt.Println()

		// Step 3: Count rows per table
		fmt.Println(infoStyle.Render("Step 3: Counting rows..."))
		tables := []string{
			"value_pool",
			"variable_structures",
			"message_variables",
			"global_snapshots",
			"variable_templates",
		}
		for _, table := range tables {
			var count int
			if err := db.QueryRow("SELECT COUNT(*) FROM " + table).Scan(&count); err != nil {
				fmt.Println(errorStyle.Render(fmt.Sprintf("❌ Failed to count %s:", table)), err)
				return err
			}
			fmt.Printf("   %-20s %d row(s)\n", table, count)
		}
		fmt.Println()

		fmt.Println(successStyle.Render("✅ Health check passed!"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(healthcheckCmd)
}
