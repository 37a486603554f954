// Package categories handles reference table inspection commands
package categories

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/txnlens/txnlens/cmd/root"
	"github.com/txnlens/txnlens/internal/reftable"
)

// Cmd represents the categories command
var Cmd = &cobra.Command{
	Use:   "categories",
	Short: "Inspect the reference category table",
	Long: `Categories lists the category codes known to the reference table.
With --code it shows the matching entries for one category code, including
subcategories, allowable status and guidance.`,
	RunE: categoriesFunc,
}

func init() {
	Cmd.Flags().StringVar(&root.CategoryCode, "code", "", "Show entries matching this category code")
}

func categoriesFunc(cmd *cobra.Command, args []string) error {
	cfg := root.Cfg
	table := reftable.New(cfg.Reference.TablePath, cfg.Reference.BucketsPath, root.Log)

	if root.CategoryCode == "" {
		codes := table.AllCategories()
		if len(codes) == 0 {
			fmt.Println("No reference categories loaded.")
			return nil
		}
		for _, code := range codes {
			fmt.Println(code)
		}
		return nil
	}

	entries := table.FindByCategory(root.CategoryCode)
	if len(entries) == 0 {
		fmt.Printf("No entries match %q.\n", root.CategoryCode)
		return nil
	}
	for _, e := range entries {
		fmt.Printf("%s / %s\n", e.Category, e.Subcategory)
		if e.AllowableStatus != "" {
			fmt.Printf("  status: %s\n", e.AllowableStatus)
		}
		if e.GuidancePrompt != "" {
			fmt.Printf("  guidance: %s\n", e.GuidancePrompt)
		}
		if e.BackgroundAction != "" {
			fmt.Printf("  action: %s\n", e.BackgroundAction)
		}
	}
	return nil
}
