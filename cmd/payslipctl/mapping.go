package main

import (
	"bytes"
	"fmt"
	"os"

	"github.com/cmlabs-hris/payslip-ledger-go/internal/domain/mapping"
	"github.com/cmlabs-hris/payslip-ledger-go/internal/fixtures"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newMappingCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mapping",
		Short: "Create and check mapping files",
	}
	cmd.AddCommand(newMappingInitCmd(), newMappingValidateCmd())
	return cmd
}

func newMappingInitCmd() *cobra.Command {
	var (
		kind        string
		output      string
		integration bool
	)

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default mapping (or integration) config as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			var doc any
			if integration {
				doc = fixtures.GetDefaultIntegration("")
			} else {
				cfg := fixtures.GetDefaultMapping("", mapping.Kind(kind))
				if cfg == nil {
					return fmt.Errorf("%w: %q", mapping.ErrInvalidKind, kind)
				}
				doc = cfg
			}

			var buf bytes.Buffer
			enc := yaml.NewEncoder(&buf)
			enc.SetIndent(2)
			if err := enc.Encode(doc); err != nil {
				return fmt.Errorf("failed to encode mapping: %w", err)
			}
			if err := enc.Close(); err != nil {
				return err
			}

			if output == "" || output == "-" {
				_, err := cmd.OutOrStdout().Write(buf.Bytes())
				return err
			}
			if err := os.WriteFile(output, buf.Bytes(), 0o644); err != nil {
				return fmt.Errorf("failed to write %s: %w", output, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&kind, "kind", string(mapping.KindSalary), "Document kind: salary or bonus")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Output file (stdout when empty)")
	cmd.Flags().BoolVar(&integration, "integration", false, "Write the integration config instead of a mapping")
	return cmd
}

func newMappingValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Validate mapping and integration YAML files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			failed := 0
			for _, path := range args {
				if err := validateMappingFile(path); err != nil {
					failed++
					fmt.Fprintf(cmd.OutOrStdout(), "%s: %v\n", path, err)
					continue
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s: ok\n", path)
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files are invalid", failed, len(args))
			}
			return nil
		},
	}
}

// validateMappingFile tells the two file types apart by the "kind" key,
// which only mapping configs carry.
func validateMappingFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var head map[string]any
	if err := yaml.Unmarshal(data, &head); err != nil {
		return fmt.Errorf("invalid yaml: %w", err)
	}
	if _, ok := head["kind"]; ok {
		cfg, err := decodeMapping(data)
		if err != nil {
			return err
		}
		return cfg.Validate()
	}

	integration, err := decodeIntegration(data)
	if err != nil {
		return err
	}
	return integration.Validate()
}

func decodeMapping(data []byte) (*mapping.Config, error) {
	var cfg mapping.Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid mapping file: %w", err)
	}
	return &cfg, nil
}

func decodeIntegration(data []byte) (*mapping.IntegrationConfig, error) {
	var cfg mapping.IntegrationConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("invalid integration file: %w", err)
	}
	return &cfg, nil
}

// loadMapping reads an optional mapping file. An empty path means no mapping.
func loadMapping(path string, kind mapping.Kind) (*mapping.Config, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeMapping(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if cfg.Kind == "" {
		cfg.Kind = kind
	}
	if cfg.Kind != kind {
		return nil, fmt.Errorf("%s: mapping is for %s documents, expected %s", path, cfg.Kind, kind)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func loadIntegration(path string) (*mapping.IntegrationConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := decodeIntegration(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}
