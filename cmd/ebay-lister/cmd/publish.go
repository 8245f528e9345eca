package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/ebay-lister/internal/config"
	domain "github.com/donaldgifford/ebay-lister/pkg/types"
)

func publishCommand() *cobra.Command {
	var (
		listingFile   string
		sku           string
		scheduleHours float64
	)

	cmd := &cobra.Command{
		Use:   "publish",
		Short: "Create and publish a listing from a listing file",
		Long: `Runs the full listing sequence: upsert the inventory item, create
an offer, publish it. The listing file (YAML or JSON) holds the
product and offer; unset offer fields fall back to the config's
marketplace and listing defaults.

With --schedule-hours the listing goes live that many hours from
now (minimum 30 minutes). Without it the listing goes live on
publish.

If a later step fails the IDs already created are printed so the
run can be resumed by hand.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := buildApp(cmd.Context(), false, "")
			if err != nil {
				return err
			}
			defer a.close()

			req, err := loadListing(listingFile)
			if err != nil {
				return err
			}
			if sku != "" {
				req.SKU = sku
			}
			applyListingDefaults(req, a.cfg)

			if scheduleHours != 0 {
				lead := time.Duration(scheduleHours * float64(time.Hour))
				req.Offer.ScheduledStart = a.orch.ScheduleStart(lead)
			}

			result, err := a.orch.PublishListing(cmd.Context(), *req)
			printResult(cmd, result)
			return err
		},
	}

	cmd.Flags().StringVarP(&listingFile, "file", "f", "", "listing file (YAML or JSON)")
	cmd.Flags().StringVar(&sku, "sku", "", "override the SKU from the listing file")
	cmd.Flags().Float64Var(&scheduleHours, "schedule-hours", 0, "go live this many hours from now")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func loadListing(path string) (*domain.ListingRequest, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading listing file: %w", err)
	}

	var req domain.ListingRequest
	if filepath.Ext(path) == ".json" {
		err = json.Unmarshal(raw, &req)
	} else {
		err = yaml.Unmarshal(raw, &req)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing listing file %s: %w", path, err)
	}
	return &req, nil
}

// applyListingDefaults fills offer fields the listing file left empty from
// the config. Placeholder config values are treated as unset so validation
// reports them as missing instead of sending YOUR_* to the API.
func applyListingDefaults(req *domain.ListingRequest, cfg *config.Config) {
	o := &req.Offer
	fillField(&o.CategoryID, cfg.Listing.CategoryID)
	fillField(&o.MerchantLocationKey, cfg.Marketplace.MerchantLocationKey)
	fillField(&o.PaymentPolicyID, cfg.Marketplace.PaymentPolicyID)
	fillField(&o.FulfillmentPolicyID, cfg.Marketplace.FulfillmentPolicyID)
	fillField(&o.ReturnPolicyID, cfg.Marketplace.ReturnPolicyID)
	fillField(&o.Currency, cfg.Listing.Currency)
	fillField(&o.ListingDuration, cfg.Listing.ListingDuration)
	fillField(&req.Product.Condition, cfg.Listing.Condition)
	fillField(&req.Product.ContentLanguage, cfg.Listing.ContentLanguage)
}

func fillField(dst *string, fallback string) {
	if config.IsPlaceholder(*dst) {
		*dst = ""
	}
	if *dst == "" && !config.IsPlaceholder(fallback) {
		*dst = fallback
	}
}

func printResult(cmd *cobra.Command, result *domain.ListingResult) {
	if result == nil {
		return
	}
	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
}
