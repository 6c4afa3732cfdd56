package main

import (
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/vbonduro/stokosor/internal/domain"
)

// itemFlags are the optional item fields shared by add and update.
type itemFlags struct {
	category                      string
	barcode, brand, model, serial string
	price, value                  string
	purchased, expires, warranty  string
	notes                         string
	tags                          []string
}

func (f *itemFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.category, "category", "", "item category")
	fs.StringVar(&f.barcode, "barcode", "", "barcode or ISBN")
	fs.StringVar(&f.brand, "brand", "", "brand")
	fs.StringVar(&f.model, "model", "", "model")
	fs.StringVar(&f.serial, "serial", "", "serial number")
	fs.StringVar(&f.price, "price", "", "purchase price")
	fs.StringVar(&f.value, "value", "", "estimated value")
	fs.StringVar(&f.purchased, "purchased", "", "purchase date (YYYY-MM-DD)")
	fs.StringVar(&f.expires, "expires", "", "expiration date (YYYY-MM-DD)")
	fs.StringVar(&f.warranty, "warranty", "", "end of warranty (YYYY-MM-DD)")
	fs.StringVar(&f.notes, "notes", "", "free-form notes")
	fs.StringArrayVar(&f.tags, "tag", nil, "tag (repeatable)")
}

func parseAmount(flag, s string) (*decimal.Decimal, error) {
	if s == "" {
		return nil, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, fmt.Errorf("%w: --%s %q is not a number", domain.ErrInvalid, flag, s)
	}
	return &d, nil
}

func (f *itemFlags) newItem(containerID, name string) (domain.NewItem, error) {
	category := domain.CategoryOther
	if f.category != "" {
		c, err := domain.ParseCategory(f.category)
		if err != nil {
			return domain.NewItem{}, err
		}
		category = c
	}
	price, err := parseAmount("price", f.price)
	if err != nil {
		return domain.NewItem{}, err
	}
	value, err := parseAmount("value", f.value)
	if err != nil {
		return domain.NewItem{}, err
	}
	return domain.NewItem{
		ContainerID:    containerID,
		Name:           name,
		Category:       category,
		Barcode:        optionalString(f.barcode),
		Brand:          optionalString(f.brand),
		Model:          optionalString(f.model),
		SerialNumber:   optionalString(f.serial),
		PurchasePrice:  price,
		EstimatedValue: value,
		PurchaseDate:   optionalString(f.purchased),
		ExpirationDate: optionalString(f.expires),
		WarrantyDate:   optionalString(f.warranty),
		Notes:          optionalString(f.notes),
		Tags:           f.tags,
	}, nil
}

// patch includes only the flags given on the command line; an empty value
// clears the field.
func (f *itemFlags) patch(fs *pflag.FlagSet) (domain.ItemPatch, error) {
	var p domain.ItemPatch
	text := func(flag, v string, dst *domain.Opt[*string]) {
		if fs.Changed(flag) {
			*dst = domain.Set(optionalString(v))
		}
	}
	amount := func(flag, v string, dst *domain.Opt[*decimal.Decimal]) error {
		if !fs.Changed(flag) {
			return nil
		}
		d, err := parseAmount(flag, v)
		if err != nil {
			return err
		}
		*dst = domain.Set(d)
		return nil
	}

	if fs.Changed("category") {
		c, err := domain.ParseCategory(f.category)
		if err != nil {
			return p, err
		}
		p.Category = domain.Set(c)
	}
	text("barcode", f.barcode, &p.Barcode)
	text("brand", f.brand, &p.Brand)
	text("model", f.model, &p.Model)
	text("serial", f.serial, &p.SerialNumber)
	text("purchased", f.purchased, &p.PurchaseDate)
	text("expires", f.expires, &p.ExpirationDate)
	text("warranty", f.warranty, &p.WarrantyDate)
	text("notes", f.notes, &p.Notes)
	if err := amount("price", f.price, &p.PurchasePrice); err != nil {
		return p, err
	}
	if err := amount("value", f.value, &p.EstimatedValue); err != nil {
		return p, err
	}
	if fs.Changed("tag") {
		p.Tags = domain.Set(f.tags)
	}
	return p, nil
}

func newItemCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "item",
		Short: "Manage items",
	}

	var addFlags itemFlags
	add := &cobra.Command{
		Use:   "add CONTAINER_ID NAME",
		Short: "Create an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := addFlags.newItem(args[0], args[1])
			if err != nil {
				return err
			}
			it, err := a.items.Create(cmd.Context(), in)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), it.ID)
			return nil
		},
	}
	addFlags.register(add.Flags())

	var containerID string
	list := &cobra.Command{
		Use:   "list",
		Short: "List items",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if containerID != "" {
				return printJSON(cmd.OutOrStdout(), a.items.ByContainer(containerID))
			}
			return printJSON(cmd.OutOrStdout(), a.items.All())
		},
	}
	list.Flags().StringVar(&containerID, "container", "", "only items of this container")

	show := &cobra.Command{
		Use:   "show ID",
		Short: "Show an item and where it is stored",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, ok := a.items.ByID(args[0])
			if !ok {
				return fmt.Errorf("item %s: %w", args[0], domain.ErrNotFound)
			}
			return printJSON(cmd.OutOrStdout(), struct {
				domain.Item
				Path string `json:"path"`
			}{it, a.catalog.ItemFullPath(it)})
		},
	}

	var updateFlags itemFlags
	var name string
	update := &cobra.Command{
		Use:   "update ID",
		Short: "Change an item; only the given flags are touched",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			patch, err := updateFlags.patch(cmd.Flags())
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("name") {
				patch.Name = domain.Set(name)
			}
			return a.items.Update(cmd.Context(), args[0], patch)
		},
	}
	updateFlags.register(update.Flags())
	update.Flags().StringVar(&name, "name", "", "new name")

	photo := &cobra.Command{
		Use:   "photo ID FILE",
		Short: "Add a photo to an item",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, ok := a.items.ByID(args[0])
			if !ok {
				return fmt.Errorf("item %s: %w", args[0], domain.ErrNotFound)
			}
			return a.attachPhoto(cmd.Context(), "item", args[1], func(key string) error {
				photos := append(append([]string(nil), it.Photos...), key)
				return a.items.Update(cmd.Context(), it.ID, domain.ItemPatch{Photos: domain.Set(photos)})
			})
		},
	}

	rm := &cobra.Command{
		Use:   "rm ID",
		Short: "Delete an item",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			it, _ := a.items.ByID(args[0])
			if err := a.items.Delete(cmd.Context(), args[0]); err != nil {
				return err
			}
			a.dropPhotos(cmd.Context(), it.Photos...)
			return nil
		},
	}

	cmd.AddCommand(add, list, show, update, photo, rm)
	return cmd
}
