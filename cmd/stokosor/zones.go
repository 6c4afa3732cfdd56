package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/domain"
)

func newZoneCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zone",
		Short: "Manage zones within places",
	}

	var icon string
	add := &cobra.Command{
		Use:   "add PLACE_ID NAME",
		Short: "Create a zone",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			z, err := a.zones.Create(cmd.Context(), domain.NewZone{PlaceID: args[0], Name: args[1], Icon: optionalString(icon)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), z.ID)
			return nil
		},
	}
	add.Flags().StringVar(&icon, "icon", "", "icon name")

	var placeID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List zones",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if placeID != "" {
				return printJSON(cmd.OutOrStdout(), a.zones.ByPlace(placeID))
			}
			return printJSON(cmd.OutOrStdout(), a.zones.All())
		},
	}
	list.Flags().StringVar(&placeID, "place", "", "only zones of this place")

	var name, newIcon string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a zone; an empty --icon clears it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ZonePatch
			if cmd.Flags().Changed("name") {
				patch.Name = domain.Set(name)
			}
			if cmd.Flags().Changed("icon") {
				patch.Icon = domain.Set(optionalString(newIcon))
			}
			return a.zones.Update(cmd.Context(), args[0], patch)
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&newIcon, "icon", "", "new icon")

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a zone with everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photos := a.zonePhotos(args[0])
			if err := a.zones.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.dropPhotos(cmd.Context(), photos...)
			return nil
		},
	}

	cmd.AddCommand(add, list, update, rm)
	return cmd
}
