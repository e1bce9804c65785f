package cmd

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/rayyan/tahfiz/internal/store"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show journaled event counts",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		setupLogger(cfg.Log)

		journal, err := store.Open(cfg.Journal.Path)
		if err != nil {
			return err
		}
		defer journal.Close()

		counts, err := journal.CountByKind()
		if err != nil {
			return err
		}
		if len(counts) == 0 {
			fmt.Println("No events journaled yet.")
			return nil
		}

		kinds := make([]string, 0, len(counts))
		for k := range counts {
			kinds = append(kinds, k)
		}
		sort.Strings(kinds)
		for _, k := range kinds {
			fmt.Printf("%-14s %d\n", k, counts[k])
		}
		return nil
	},
}
