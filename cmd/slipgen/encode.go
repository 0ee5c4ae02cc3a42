package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/erazemk/slipgen/internal/catalog"
	"github.com/erazemk/slipgen/internal/config"
	"github.com/erazemk/slipgen/internal/draft"
	"github.com/erazemk/slipgen/internal/imaging"
	"github.com/erazemk/slipgen/internal/model"
)

// draftFile is the YAML layout accepted by the encode command.
type draftFile struct {
	RequesterName string `yaml:"requester_name"`
	Department    string `yaml:"department"`
	Purpose       string `yaml:"purpose"`
	Items         []struct {
		Name        string `yaml:"name"`
		Quantity    string `yaml:"quantity"`
		Unit        string `yaml:"unit"`
		AccountCode string `yaml:"account_code"`
		Dimension   string `yaml:"dimension"`
	} `yaml:"items"`
}

// loadDraft builds a draft from a request file. Items go through the same
// mutation commands an interactive client would issue, so an omitted unit
// keeps the default.
func loadDraft(path string, cfg *config.Config) (*draft.Draft, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading request: %w", err)
	}

	var f draftFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parsing request %s: %w", path, err)
	}

	d := draft.New(draft.Options{
		Identity:  cfg.Clock(),
		Catalog:   catalog.NewSet(cfg.Catalog...),
		Reference: cfg.Reference,
		Policy:    cfg.Policy,
	})
	d.SetRequesterName(f.RequesterName)
	d.SetDepartment(f.Department)
	d.SetPurpose(f.Purpose)

	for _, it := range f.Items {
		i := d.AddItem()
		fields := []struct {
			field model.Field
			value string
		}{
			{model.FieldName, it.Name},
			{model.FieldQuantity, it.Quantity},
			{model.FieldUnit, it.Unit},
			{model.FieldAccountCode, it.AccountCode},
			{model.FieldDimension, it.Dimension},
		}
		for _, fv := range fields {
			if fv.value == "" {
				continue
			}
			if err := d.UpdateItem(i, fv.field, fv.value); err != nil {
				return nil, fmt.Errorf("item %d: %w", i, err)
			}
		}
	}
	return d, nil
}

func newEncodeCmd(a *app) *cobra.Command {
	var pngPath string
	var size int

	cmd := &cobra.Command{
		Use:   "encode <request.yaml>",
		Short: "Validate a request file and print its payload",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := loadDraft(args[0], a.cfg)
			if err != nil {
				return err
			}

			sub, err := d.Submit(a.cfg.SlipEncoder())
			if err != nil {
				return fmt.Errorf("request rejected: %w", err)
			}

			if pngPath != "" {
				f, err := os.Create(pngPath)
				if err != nil {
					return fmt.Errorf("creating %s: %w", pngPath, err)
				}
				defer f.Close()
				if err := imaging.WritePNG(f, imaging.NewQRCode(), sub.Payload, size); err != nil {
					return fmt.Errorf("writing %s: %w", pngPath, err)
				}
				slog.Info("qr code written", "path", pngPath, "slip", sub.Slip.SlipNumber)
			}

			fmt.Fprintln(cmd.OutOrStdout(), sub.Payload)
			return nil
		},
	}

	cmd.Flags().StringVar(&pngPath, "png", "", "also write the QR code to this PNG file")
	cmd.Flags().IntVar(&size, "size", imaging.DefaultSize, "QR image size in pixels")
	return cmd
}
