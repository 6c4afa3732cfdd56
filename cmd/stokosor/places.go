package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/domain"
)

func newPlaceCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place",
		Short: "Manage places",
	}

	var address string
	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a place",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.places.Create(cmd.Context(), domain.NewPlace{Name: args[0], Address: optionalString(address)})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), p.ID)
			return nil
		},
	}
	add.Flags().StringVar(&address, "address", "", "postal address")

	list := &cobra.Command{
		Use:   "list",
		Short: "List places, most recently updated first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printJSON(cmd.OutOrStdout(), a.places.All())
		},
	}

	var name, newAddress string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change a place; an empty --address clears it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.PlacePatch
			if cmd.Flags().Changed("name") {
				patch.Name = domain.Set(name)
			}
			if cmd.Flags().Changed("address") {
				patch.Address = domain.Set(optionalString(newAddress))
			}
			return a.places.Update(cmd.Context(), args[0], patch)
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&newAddress, "address", "", "new address")

	photo := &cobra.Command{
		Use:   "photo ID FILE",
		Short: "Attach a photo to a place",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := a.places.ByID(args[0])
			if !ok {
				return fmt.Errorf("place %s: %w", args[0], domain.ErrNotFound)
			}
			err := a.attachPhoto(cmd.Context(), "place", args[1], func(key string) error {
				return a.places.Update(cmd.Context(), p.ID, domain.PlacePatch{Photo: domain.Some(key)})
			})
			if err != nil {
				return err
			}
			if p.Photo != nil {
				a.dropPhotos(cmd.Context(), *p.Photo)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a place with everything in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photos := a.placePhotos(args[0])
			if err := a.places.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.dropPhotos(cmd.Context(), photos...)
			return nil
		},
	}

	cmd.AddCommand(add, list, update, photo, rm)
	return cmd
}
