package main

import (
	"fmt"
	"os"

	"phonestore/internal/app"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassphrase prompts on stderr and reads a passphrase without echo.
func readPassphrase(prompt string) (string, error) {
	fd := int(os.Stdin.Fd())
	if !term.IsTerminal(fd) {
		return "", fmt.Errorf("passphrase required but stdin is not a terminal")
	}
	fmt.Fprint(os.Stderr, prompt)
	b, err := term.ReadPassword(fd)
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(b), nil
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Back up and restore the inventory",
}

var snapshotKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "Generate the snapshot encryption key pair",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("snapshot.keys", func(a *app.App) error {
			pass, err := readPassphrase("New passphrase: ")
			if err != nil {
				return err
			}
			again, err := readPassphrase("Repeat passphrase: ")
			if err != nil {
				return err
			}
			if pass != again {
				return fmt.Errorf("passphrases do not match")
			}

			if err := a.SetupKeys(pass); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Keys written to %s\n", a.Config().Snapshot.Encryption.PublicKeyPath)
			return nil
		})
	},
}

var snapshotCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Snapshot the inventory served by the API",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("snapshot.create", func(a *app.App) error {
			svc, err := a.Snapshots(cmd.Context())
			if err != nil {
				return err
			}
			info, err := svc.Create(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Snapshot %s: %d phones, %d bytes\n", info.Name, info.Phones, info.Size)
			return nil
		})
	},
}

var snapshotListCmd = &cobra.Command{
	Use:   "list",
	Short: "List snapshots for this instance",
	RunE: func(cmd *cobra.Command, args []string) error {
		return run("snapshot.list", func(a *app.App) error {
			svc, err := a.Snapshots(cmd.Context())
			if err != nil {
				return err
			}
			names, err := svc.List(cmd.Context())
			if err != nil {
				return err
			}
			if len(names) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No snapshots.")
				return nil
			}
			for _, n := range names {
				fmt.Fprintln(cmd.OutOrStdout(), n)
			}
			return nil
		})
	},
}

var snapshotRestoreCmd = &cobra.Command{
	Use:   "restore [NAME]",
	Short: "Write a snapshot out as a phones file (default: the newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		var name string
		if len(args) == 1 {
			name = args[0]
		}

		return run("snapshot.restore", func(a *app.App) error {
			svc, err := a.Snapshots(cmd.Context())
			if err != nil {
				return err
			}
			resolved, err := a.ResolveSnapshot(cmd.Context(), svc, name)
			if err != nil {
				return err
			}

			needs, err := a.NeedsPassphrase(resolved)
			if err != nil {
				return err
			}
			var pass string
			if needs {
				if pass, err = readPassphrase("Passphrase: "); err != nil {
					return err
				}
			}

			n, err := a.RestoreSnapshot(cmd.Context(), svc, resolved, pass, out)
			if err != nil {
				return err
			}
			if out == "" {
				out = a.Config().Store.FilePath
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Restored %d phones from %s to %s\n", n, resolved, out)
			return nil
		})
	},
}

func init() {
	snapshotRestoreCmd.Flags().StringP("out", "o", "", "Output file (default: store.file_path)")

	snapshotCmd.AddCommand(snapshotKeysCmd)
	snapshotCmd.AddCommand(snapshotCreateCmd)
	snapshotCmd.AddCommand(snapshotListCmd)
	snapshotCmd.AddCommand(snapshotRestoreCmd)
}
