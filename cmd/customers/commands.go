package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/samvad-hq/stripe-workflows/internal/app"
	"github.com/samvad-hq/stripe-workflows/internal/config"
	"github.com/samvad-hq/stripe-workflows/internal/domain"
	"github.com/samvad-hq/stripe-workflows/internal/factory"
	"github.com/samvad-hq/stripe-workflows/internal/logger"
	"github.com/samvad-hq/stripe-workflows/pkg/customers"
	"github.com/spf13/cobra"
)

// withApp loads config, starts the logger and builds the App around fn.
func withApp(cmd *cobra.Command, fn func(svc *customers.Service) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.Init(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	defer logger.Close()

	logger.DebugObj("customers cli starting", "config", cfg.Redacted())

	a, err := app.New(cmd.Context(), cfg, log)
	if err != nil {
		logger.ErrorObj("failed to initialize app", "error", err)
		return err
	}
	defer a.Close()

	return fn(a.Customers())
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "customers",
		Short:         "Manage payment API customers",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(
		newCreateCmd(),
		newGetCmd(),
		newUpdateCmd(),
		newDeleteCmd(),
		newListCmd(),
		newSeedCmd(),
	)
	return root
}

func addInfoFlags(cmd *cobra.Command, info *domain.CustomerInfo, metadata *[]string) {
	f := cmd.Flags()
	f.StringVar(&info.Name, "name", "", "customer full name")
	f.StringVar(&info.Email, "email", "", "customer email")
	f.StringVar(&info.Description, "description", "", "free-form description")
	f.StringVar(&info.Phone, "phone", "", "phone number")
	f.StringVar(&info.Coupon, "coupon", "", "coupon to apply")
	f.StringVar(&info.Source, "source", "", "payment source token")
	f.StringSliceVar(metadata, "metadata", nil, "metadata entries as key=value")
}

func parseMetadata(entries []string) (map[string]string, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(entries))
	for _, e := range entries {
		k, v, ok := strings.Cut(e, "=")
		if !ok || strings.TrimSpace(k) == "" {
			return nil, fmt.Errorf("invalid metadata entry %q (want key=value)", e)
		}
		out[strings.TrimSpace(k)] = v
	}
	return out, nil
}

func newCreateCmd() *cobra.Command {
	var (
		info     domain.CustomerInfo
		metadata []string
	)
	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a customer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			md, err := parseMetadata(metadata)
			if err != nil {
				return err
			}
			info.Metadata = md
			return withApp(cmd, func(svc *customers.Service) error {
				c, err := svc.Create(cmd.Context(), info)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
	addInfoFlags(cmd, &info, &metadata)
	return cmd
}

func newGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Retrieve a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(svc *customers.Service) error {
				c, err := svc.Retrieve(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
}

func newUpdateCmd() *cobra.Command {
	var (
		info     domain.CustomerInfo
		metadata []string
	)
	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Update the given fields of a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			md, err := parseMetadata(metadata)
			if err != nil {
				return err
			}
			info.Metadata = md
			return withApp(cmd, func(svc *customers.Service) error {
				c, err := svc.Update(cmd.Context(), args[0], info)
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
	addInfoFlags(cmd, &info, &metadata)
	return cmd
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a customer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(svc *customers.Service) error {
				c, err := svc.Delete(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), c)
			})
		},
	}
}

func newListCmd() *cobra.Command {
	var (
		params domain.ListParams
		all    bool
	)
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List customers, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withApp(cmd, func(svc *customers.Service) error {
				if !all {
					list, err := svc.List(cmd.Context(), params)
					if err != nil {
						return err
					}
					return printJSON(cmd.OutOrStdout(), list.Data)
				}
				out := []domain.Customer{}
				err := svc.ListAll(cmd.Context(), params, func(c domain.Customer) error {
					out = append(out, c)
					return nil
				})
				if err != nil {
					return err
				}
				return printJSON(cmd.OutOrStdout(), out)
			})
		},
	}
	f := cmd.Flags()
	f.IntVar(&params.Limit, "limit", 0, "page size (1-100)")
	f.StringVar(&params.Email, "email", "", "filter by exact email")
	f.StringVar(&params.StartingAfter, "starting-after", "", "cursor: customer id to start after")
	f.StringVar(&params.EndingBefore, "ending-before", "", "cursor: customer id to end before")
	f.BoolVar(&all, "all", false, "follow pagination until exhausted")
	return cmd
}

func newSeedCmd() *cobra.Command {
	var (
		count int
		seed  int64
	)
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create customers with generated data",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if count <= 0 {
				return fmt.Errorf("--count must be positive")
			}
			return withApp(cmd, func(svc *customers.Service) error {
				created := make([]*domain.Customer, 0, count)
				for _, info := range factory.New(seed).CustomerInfos(count) {
					c, err := svc.Create(cmd.Context(), info)
					if err != nil {
						return err
					}
					created = append(created, c)
				}
				return printJSON(cmd.OutOrStdout(), created)
			})
		},
	}
	cmd.Flags().IntVar(&count, "count", 1, "number of customers to create")
	cmd.Flags().Int64Var(&seed, "seed", 0, "generator seed (0 = random)")
	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
