package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/domain"
)

func newScanCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "scan CODE",
		Short: "Resolve a scanned QR code to its container and contents",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok, err := a.catalog.ResolveScan(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no container for code %q: %w", args[0], domain.ErrNotFound)
			}
			return printJSON(cmd.OutOrStdout(), struct {
				Container domain.Container `json:"container"`
				Path      string           `json:"path"`
				Items     []domain.Item    `json:"items"`
			}{c, a.catalog.Locator().ContainerPath(c.ID), a.items.ByContainer(c.ID)})
		},
	}
}

func newSearchCmd(a *app) *cobra.Command {
	var category string
	cmd := &cobra.Command{
		Use:   "search [QUERY]",
		Short: "Find items by name, notes, tags, barcode, brand or model",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var query string
			if len(args) == 1 {
				query = args[0]
			}
			var filter *domain.Category
			if category != "" {
				c, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				filter = &c
			}
			for _, r := range a.catalog.Search(query, filter) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\n", r.Item.ID, r.Item.Name, r.Path)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&category, "category", "", "only items of this category")
	return cmd
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize counts, value and upcoming expirations",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.catalog.Stats(time.Now()))
		},
	}
}
