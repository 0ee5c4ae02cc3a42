package main

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/erazemk/slipgen/internal/export"
	"github.com/erazemk/slipgen/internal/model"
	"github.com/erazemk/slipgen/internal/slip"
)

// readPayloads decodes one payload per line. Blank lines are skipped.
func readPayloads(path string) ([]*model.Slip, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	var slips []*model.Slip
	sc := bufio.NewScanner(f)
	for n := 1; sc.Scan(); n++ {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		s, _, err := slip.Decode(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, n, err)
		}
		slips = append(slips, s)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return slips, nil
}

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "export <payloads.txt> <register.xlsx>",
		Short: "Write scanned payloads to an XLSX register",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			slips, err := readPayloads(args[0])
			if err != nil {
				return err
			}
			if err := export.WriteRegister(args[1], slips); err != nil {
				return err
			}
			slog.Info("register written", "path", args[1], "slips", len(slips))
			return nil
		},
	}
}
