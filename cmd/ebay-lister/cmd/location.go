package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ebay-lister/internal/ebay"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

func locationCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "location",
		Short: "Manage the merchant inventory location",
	}
	cmd.AddCommand(locationEnsureCommand())
	return cmd
}

func locationEnsureCommand() *cobra.Command {
	var locationFile string

	cmd := &cobra.Command{
		Use:   "ensure",
		Short: "Create the inventory location if it does not exist",
		Long: `Creates the inventory location described by the location file
(YAML or JSON). An already-existing location is not an error, so
the command is safe to run on every deploy.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			loc, err := loadLocation(locationFile)
			if err != nil {
				return err
			}
			if loc.Key == "" {
				loc.Key = a.cfg.Marketplace.MerchantLocationKey
			}

			err = a.sell.CreateLocation(cmd.Context(), *loc)
			var remote *ebay.RemoteError
			if errors.As(err, &remote) && remote.Status == http.StatusConflict {
				fmt.Fprintf(cmd.OutOrStdout(), "location %s already exists\n", loc.Key)
				return nil
			}
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "location %s ready\n", loc.Key)
			return nil
		},
	}

	cmd.Flags().StringVarP(&locationFile, "file", "f", "", "location file (YAML or JSON)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadLocation(path string) (*domain.Location, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading location file: %w", err)
	}

	var loc domain.Location
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(raw, &loc)
	} else {
		err = yaml.Unmarshal(raw, &loc)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing location file %s: %w", path, err)
	}
	return &loc, nil
}
