package main

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/kittclouds/quantkit/internal/store"
)

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Export or import the trained corpus",
}

var snapshotExportCmd = &cobra.Command{
	Use:   "export <file>",
	Short: "Write the corpus database to a JSON snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.NewSQLiteStoreWithDSN(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		defer st.Close()

		data, err := st.Export()
		if err != nil {
			return err
		}
		if err := os.WriteFile(args[0], data, 0644); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s wrote %s\n", color.GreenString("ok:"), args[0])
		return nil
	},
}

var snapshotImportCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Load a JSON snapshot into the corpus database",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return err
		}
		st, err := store.NewSQLiteStoreWithDSN(viper.GetString("store.path"))
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Import(data); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s imported %s\n", color.GreenString("ok:"), args[0])
		return nil
	},
}

func init() {
	snapshotCmd.AddCommand(snapshotExportCmd, snapshotImportCmd)
}
