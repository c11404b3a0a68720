package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"phonestore/internal/app"
	"phonestore/internal/inventory"
	"phonestore/internal/view"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// phoneFlags are the form fields shared by add and edit.
var phoneFlags = []struct {
	name  string
	usage string
}{
	{"brand", "Brand"},
	{"model", "Model"},
	{"storage", "Storage capacity (e.g. 256GB)"},
	{"ram", "RAM (e.g. 8GB)"},
	{"price", "Sale price"},
	{"quantity", "Units in stock"},
	{"color", "Color"},
}

func addPhoneFlags(cmd *cobra.Command, required bool) {
	for _, f := range phoneFlags {
		cmd.Flags().String(f.name, "", f.usage)
		if required {
			cmd.MarkFlagRequired(f.name)
		}
	}
}

// patchFromFlags builds a Patch from the flags the operator actually set.
func patchFromFlags(cmd *cobra.Command) inventory.Patch {
	var patch inventory.Patch
	str := func(name string) *string {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	num := func(name string) *inventory.NumericText {
		s := str(name)
		if s == nil {
			return nil
		}
		n := inventory.NumericText(*s)
		return &n
	}

	patch.Brand = str("brand")
	patch.Model = str("model")
	patch.StorageCapacity = str("storage")
	patch.RAM = str("ram")
	patch.SalePrice = num("price")
	patch.Quantity = num("quantity")
	patch.Color = str("color")
	return patch
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid phone id %q", s)
	}
	return id, nil
}

// notice turns a not-found error into the one-line message the operator sees.
func notice(id int64, err error) error {
	if errors.Is(err, inventory.ErrNotFound) {
		return fmt.Errorf("phone %d not found", id)
	}
	return err
}

var phonesCmd = &cobra.Command{
	Use:   "phones",
	Short: "Browse and edit the inventory",
}

var phonesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List phones, filtered and paginated",
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := cmd.Flags().GetString("query")
		pageNum, _ := cmd.Flags().GetInt("page")
		pageSize, _ := cmd.Flags().GetInt("page-size")

		return run("phones.list", func(a *app.App) error {
			state := view.NewListState()
			if pageSize == 0 {
				pageSize = a.Config().Client.PageSize
			}
			if err := state.SetPageSize(pageSize); err != nil {
				return err
			}
			state.SetQuery(query)
			state.SetPage(pageNum)

			inv := a.Inventory()
			if err := inv.Load(cmd.Context()); err != nil {
				return err
			}
			return renderPage(cmd.OutOrStdout(), state.Apply(inv.Phones()))
		})
	},
}

var phonesShowCmd = &cobra.Command{
	Use:   "show ID",
	Short: "Show one phone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}

		return run("phones.show", func(a *app.App) error {
			inv := a.Inventory()
			if err := inv.Load(cmd.Context()); err != nil {
				return err
			}
			p, ok := inv.Find(id)
			if !ok {
				return notice(id, inventory.ErrNotFound)
			}
			return renderPhone(cmd.OutOrStdout(), p)
		})
	},
}

var phonesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a phone",
	RunE: func(cmd *cobra.Command, args []string) error {
		p := patchFromFlags(cmd).Apply(inventory.Phone{})

		return run("phones.add", func(a *app.App) error {
			created, err := a.Inventory().Add(cmd.Context(), p)
			if err != nil {
				return fmt.Errorf("adding phone: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Phone %s %s added with id %d\n", created.Brand, created.Model, created.ID)
			return nil
		})
	},
}

var phonesEditCmd = &cobra.Command{
	Use:   "edit ID",
	Short: "Update some fields of a phone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		patch := patchFromFlags(cmd)
		if patch.IsEmpty() {
			return fmt.Errorf("nothing to update: set at least one field flag")
		}

		return run("phones.edit", func(a *app.App) error {
			updated, err := a.Inventory().Edit(cmd.Context(), id, patch)
			if err != nil {
				return notice(id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Phone %d updated\n", updated.ID)
			return nil
		})
	},
}

var phonesDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a phone",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		yes, _ := cmd.Flags().GetBool("yes")

		return run("phones.delete", func(a *app.App) error {
			inv := a.Inventory()
			if !yes {
				if !term.IsTerminal(int(os.Stdin.Fd())) {
					return fmt.Errorf("refusing to delete without confirmation: pass --yes")
				}
				if err := inv.Load(cmd.Context()); err != nil {
					return err
				}
				p, ok := inv.Find(id)
				if !ok {
					return notice(id, inventory.ErrNotFound)
				}
				prompt := fmt.Sprintf("Delete %s %s (id %d)?", p.Brand, p.Model, p.ID)
				if !confirm(os.Stdin, cmd.OutOrStdout(), prompt) {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled")
					return nil
				}
			}

			if err := inv.Remove(cmd.Context(), id); err != nil {
				return notice(id, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Phone %d deleted\n", id)
			return nil
		})
	},
}

// confirm asks a yes/no question and reports whether the answer was yes.
func confirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)
	answer, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && answer == "" {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return true
	default:
		return false
	}
}

func init() {
	phonesListCmd.Flags().StringP("query", "q", "", "Case-insensitive search over brand, model, storage, RAM, color and price")
	phonesListCmd.Flags().IntP("page", "p", 1, "Page number")
	phonesListCmd.Flags().IntP("page-size", "n", 0, fmt.Sprintf("Rows per page, one of %v (default from config)", view.PageSizeOptions))

	addPhoneFlags(phonesAddCmd, true)
	addPhoneFlags(phonesEditCmd, false)
	phonesDeleteCmd.Flags().BoolP("yes", "y", false, "Delete without asking")

	phonesCmd.AddCommand(phonesListCmd)
	phonesCmd.AddCommand(phonesShowCmd)
	phonesCmd.AddCommand(phonesAddCmd)
	phonesCmd.AddCommand(phonesEditCmd)
	phonesCmd.AddCommand(phonesDeleteCmd)
}

