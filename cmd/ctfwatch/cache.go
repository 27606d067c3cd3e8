package main

import (
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ctfwatch/ctfwatch/internal/cache"
	"github.com/ctfwatch/ctfwatch/internal/config"
)

func cacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect the tracked-event cache",
	}

	cmd.AddCommand(cacheListCmd())

	return cmd
}

func cacheListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List tracked events",
		RunE:  runCacheList,
	}
}

func runCacheList(cmd *cobra.Command, _ []string) error {
	viper.SetDefault("cache.path", config.DefaultCachePath)
	store := cache.NewStore(config.ExpandPath(viper.GetString("cache.path")))
	c := store.Load()

	if len(c) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No tracked events.")
		return nil
	}

	ids := make([]string, 0, len(c))
	for id := range c {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSLUG\tSTARTS\tREMINDER\tCHECKED")
	for _, id := range ids {
		rec := c[id]
		starts := rec.StartsAt
		if starts == "" {
			starts = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%v\t%s\n", id, rec.Slug, starts, rec.ReminderSent, rec.Checked)
	}
	return w.Flush()
}
