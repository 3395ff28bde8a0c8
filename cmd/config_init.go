package main

import (
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/ghighi/quotes-cli/internal/config"
)

var configInitForce bool

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter config.yaml with every key at its default",
	RunE: func(_ *cobra.Command, _ []string) error {
		const path = "config.yaml"
		if !configInitForce {
			if _, err := os.Stat(path); err == nil {
				return eris.Errorf("%s already exists, use --force to overwrite", path)
			}
		}

		d := config.Defaults()
		starter := config.Config{}
		starter.Store.Driver = d["store.driver"].(string)
		starter.Store.CSVPath = d["store.csv_path"].(string)
		starter.Store.Pool.MaxConns = int32(d["store.pool.max_conns"].(int))
		starter.Store.Pool.MinConns = int32(d["store.pool.min_conns"].(int))
		starter.Sheets.Worksheet = d["sheets.worksheet"].(string)
		starter.View.MinSeriesDates = d["view.min_series_dates"].(int)
		starter.Server.Port = d["server.port"].(int)
		starter.Log.Level = d["log.level"].(string)
		starter.Log.Format = d["log.format"].(string)

		out, err := yaml.Marshal(starter)
		if err != nil {
			return eris.Wrap(err, "config init: marshal")
		}
		if err := os.WriteFile(path, out, 0o644); err != nil {
			return eris.Wrapf(err, "config init: write %s", path)
		}

		fmt.Printf("wrote %s\n", path)
		return nil
	},
}

func init() {
	configInitCmd.Flags().BoolVar(&configInitForce, "force", false, "overwrite an existing config.yaml")
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
}
