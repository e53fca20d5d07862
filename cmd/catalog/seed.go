package main

import (
	"github.com/gartstein/catalog/internal/catalog/controller"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newSeedCmd(a *app) *cobra.Command {
	var names []string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create the configured companies if they do not exist",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if len(names) == 0 {
				names = a.cfg.SeedCompanies
			}

			repo, err := a.openRepository(cmd.Context())
			if err != nil {
				return err
			}
			defer repo.Close()

			companies, err := controller.NewCompanyService(repo, a.logger).SeedCompanies(cmd.Context(), names)
			if err != nil {
				return err
			}
			a.logger.Info("Seed complete", zap.Int("companies", len(companies)))
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&names, "company", nil, "Company name to seed (repeatable, defaults to SEED_COMPANIES)")
	return cmd
}
