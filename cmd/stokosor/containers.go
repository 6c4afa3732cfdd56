package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vbonduro/stokosor/internal/domain"
	"github.com/vbonduro/stokosor/internal/hierarchy"
	"github.com/vbonduro/stokosor/internal/store"
)

func newContainerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "container",
		Aliases: []string{"box"},
		Short:   "Manage containers and their nesting",
	}

	var containerType, parent string
	add := &cobra.Command{
		Use:   "add ZONE_ID NAME",
		Short: "Create a container, optionally inside another",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := domain.ParseContainerType(containerType)
			if err != nil {
				return err
			}
			c, err := a.containers.Create(cmd.Context(), domain.NewContainer{
				ZoneID:   args[0],
				ParentID: optionalString(parent),
				Name:     args[1],
				Type:     t,
			})
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", c.ID, c.QRCode)
			return nil
		},
	}
	add.Flags().StringVar(&containerType, "type", "", "container type (default box)")
	add.Flags().StringVar(&parent, "parent", "", "id of the enclosing container")

	var zoneID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List containers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if zoneID != "" {
				return printJSON(cmd.OutOrStdout(), a.containers.ByZone(zoneID))
			}
			return printJSON(cmd.OutOrStdout(), a.containers.All())
		},
	}
	list.Flags().StringVar(&zoneID, "zone", "", "only containers of this zone")

	tree := &cobra.Command{
		Use:   "tree ZONE_ID",
		Short: "Print the containers of a zone as a tree with item counts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			index := hierarchy.NewResolver(a.containers).Index()
			for _, root := range index.Roots(args[0]) {
				a.printTree(cmd.OutOrStdout(), index, root, 0)
			}
			return nil
		},
	}

	path := &cobra.Command{
		Use:   "path ID",
		Short: "Print where a container is",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, ok := a.containers.ByID(args[0]); !ok {
				return fmt.Errorf("container %s: %w", args[0], domain.ErrNotFound)
			}
			fmt.Fprintln(cmd.OutOrStdout(), a.catalog.Locator().ContainerPath(args[0]))
			return nil
		},
	}

	var moveTo string
	var toRoot bool
	move := &cobra.Command{
		Use:   "move ID (--into PARENT_ID | --root)",
		Short: "Move a container inside another one of its zone, or to the zone root",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (moveTo == "") == !toRoot {
				return errors.New("exactly one of --into and --root is required")
			}
			return a.containers.Move(cmd.Context(), args[0], optionalString(moveTo))
		},
	}
	move.Flags().StringVar(&moveTo, "into", "", "id of the new enclosing container")
	move.Flags().BoolVar(&toRoot, "root", false, "make the container a root of its zone")

	var name, newType string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Rename a container or change its type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var patch domain.ContainerPatch
			if cmd.Flags().Changed("name") {
				patch.Name = domain.Set(name)
			}
			if cmd.Flags().Changed("type") {
				patch.Type = domain.Set(domain.ContainerType(newType))
			}
			return a.containers.Update(cmd.Context(), args[0], patch)
		},
	}
	update.Flags().StringVar(&name, "name", "", "new name")
	update.Flags().StringVar(&newType, "type", "", "new type")

	photo := &cobra.Command{
		Use:   "photo ID FILE",
		Short: "Attach a photo to a container",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, ok := a.containers.ByID(args[0])
			if !ok {
				return fmt.Errorf("container %s: %w", args[0], domain.ErrNotFound)
			}
			err := a.attachPhoto(cmd.Context(), "container", args[1], func(key string) error {
				return a.containers.Update(cmd.Context(), c.ID, domain.ContainerPatch{Photo: domain.Some(key)})
			})
			if err != nil {
				return err
			}
			if c.Photo != nil {
				a.dropPhotos(cmd.Context(), *c.Photo)
			}
			return nil
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete a container with everything nested in it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			photos := a.subtreePhotos(args[0])
			if err := a.catalog.DeleteContainer(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.dropPhotos(cmd.Context(), photos...)
			return nil
		},
	}

	cmd.AddCommand(add, list, tree, path, move, update, photo, rm)
	return cmd
}

func (a *app) printTree(w io.Writer, index *hierarchy.Index, c domain.Container, depth int) {
	fmt.Fprintf(w, "%s%s [%s] (%d items)\n", strings.Repeat("  ", depth), c.Name, c.Type, len(a.items.ByContainer(c.ID)))
	if depth >= store.MaxDepth {
		return
	}
	for _, child := range index.Children(c.ID) {
		a.printTree(w, index, child, depth+1)
	}
}
