package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/gapquiz/internal/pinning"
	"github.com/abhisek/gapquiz/internal/store"
)

var pinCmd = &cobra.Command{
	Use:   "pin <file.json>",
	Short: "Upload a JSON document to the configured pinning backend",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, _ := cmd.Flags().GetString("name")
		if name == "" {
			name = filepath.Base(args[0])
		}

		payload, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read %s: %w", args[0], err)
		}
		if !json.Valid(payload) {
			return fmt.Errorf("%s: %w", args[0], pinning.ErrInvalidPayload)
		}

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := cfg.Pinning.Validate(); err != nil {
			return fmt.Errorf("invalid config: %w", err)
		}
		pinner, err := pinning.New(cfg.Pinning)
		if err != nil {
			return err
		}
		if pinner == nil {
			return fmt.Errorf("pinning is disabled; set pinning.backend to pinata or minio")
		}

		res, err := pinner.Pin(cmd.Context(), name, payload)
		if err != nil {
			return fmt.Errorf("pin: %w", err)
		}

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()
		if err := s.EventRepo().AppendPin(cmd.Context(), store.PinEventData{
			Backend: res.Backend,
			Name:    name,
			CID:     res.CID,
			Size:    res.Size,
		}); err != nil {
			fmt.Fprintln(os.Stderr, "warning: pin not recorded:", err)
		}

		fmt.Printf("Pinned %s to %s\n", name, res.Backend)
		fmt.Printf("CID:  %s\n", res.CID)
		fmt.Printf("Size: %d bytes\n", res.Size)
		return nil
	},
}

var pinsCmd = &cobra.Command{
	Use:   "pins",
	Short: "List recorded uploads",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		s, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		pins, err := s.EventRepo().QueryPins(context.Background(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query pins: %w", err)
		}
		if len(pins) == 0 {
			fmt.Println("No pins recorded.")
			return nil
		}

		fmt.Printf("%-5s  %-19s  %-7s  %-24s  %-10s  %s\n",
			"ID", "Timestamp", "Backend", "Name", "Size", "CID")
		fmt.Println(strings.Repeat("\u2500", 100))
		for _, p := range pins {
			fmt.Printf("%-5d  %-19s  %-7s  %-24s  %-10d  %s\n",
				p.ID,
				p.Timestamp.Local().Format("2006-01-02 15:04:05"),
				p.Backend,
				truncate(p.Name, 24),
				p.Size,
				p.CID,
			)
		}
		return nil
	},
}

func init() {
	pinCmd.Flags().String("name", "", "Name recorded with the upload (default: file name)")
	pinsCmd.Flags().IntP("limit", "n", 20, "Number of pins to show")
}
