package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

type decodedSlip struct {
	Version     int         `json:"version"`
	Fingerprint string      `json:"fingerprint"`
	Slip        *model.Slip `json:"slip"`
}

func newDecodeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "decode <payload>",
		Short: "Print a scanned payload as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, v, err := slip.Decode(args[0])
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(decodedSlip{
				Version:     int(v),
				Fingerprint: slip.Fingerprint(args[0]),
				Slip:        s,
			}); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}
			return nil
		},
	}
}
