package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rshade/biogas-balance/internal/export"
	"github.com/rshade/biogas-balance/internal/feedstock"
	"github.com/rshade/biogas-balance/internal/scenario"
	"github.com/rshade/biogas-balance/internal/server"
	"github.com/rshade/biogas-balance/internal/water"
)

func (a *app) yieldCmd() *cobra.Command {
	var (
		in  inputFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "yield [scenario | --example]",
		Short: "Compute biogas and biomethane production per feedstock",
		Args:  in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd, &in, args, scenario.StageYield)
			if err != nil {
				return err
			}
			return a.write(cmd, &out, export.FromYield(*report.Yield))
		},
	}
	in.register(cmd)
	out.register(cmd)
	return cmd
}

func (a *app) waterCmd() *cobra.Command {
	var (
		in  inputFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "water [scenario | --example]",
		Short: "Compute the digester water balance",
		Long: "Compute the digester water balance. Feed totals come from the scenario's\n" +
			"feedstocks when present, otherwise from water_balance.feed.",
		Args: in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd, &in, args, scenario.StageWater)
			if err != nil {
				return err
			}
			printAdvisories(cmd.ErrOrStderr(), *report.Water)
			return a.write(cmd, &out, export.FromWater(*report.Water))
		},
	}
	in.register(cmd)
	out.register(cmd)
	return cmd
}

func (a *app) runCmd() *cobra.Command {
	var (
		in  inputFlags
		out outputFlags
	)

	cmd := &cobra.Command{
		Use:   "run [scenario | --example]",
		Short: "Run the yield stage and the water balance over a scenario",
		Args:  in.args,
		RunE: func(cmd *cobra.Command, args []string) error {
			report, err := a.run(cmd, &in, args, scenario.StageAll)
			if err != nil {
				return err
			}
			if report.Water != nil {
				printAdvisories(cmd.ErrOrStderr(), *report.Water)
			}
			return a.write(cmd, &out, export.FromReport(report))
		},
	}
	in.register(cmd)
	out.register(cmd)
	return cmd
}

func (a *app) run(cmd *cobra.Command, in *inputFlags, args []string, stages scenario.Stage) (*scenario.Report, error) {
	doc, source, err := in.load(cmd, args)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("scenario", source).Int("feedstocks", len(doc.Feedstocks)).Msg("running scenario")
	return scenario.NewRunner().Run(doc, stages)
}

func (a *app) validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [scenario]",
		Short: "Check a scenario against both validation gates without reporting results",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadScenario(cmd, args[0])
			if err != nil {
				return err
			}
			if err := scenario.NewRunner().Validate(doc); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Result: VALID (%d feedstocks)\n", len(doc.Feedstocks))
			return nil
		},
	}
}

func (a *app) humidityCmd() *cobra.Command {
	var (
		temp  float64
		table bool
	)

	cmd := &cobra.Command{
		Use:   "humidity",
		Short: "Look up the saturation water content of biogas",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if table || !cmd.Flags().Changed("temp") {
				return export.WriteText(cmd.OutOrStdout(), export.Document{Tables: []export.Table{humidityTable()}}, export.Options{Precision: 1})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%.1f g H2O/Nm3 at %g C\n", water.SaturationWaterContent(temp), temp)
			return nil
		},
	}
	cmd.Flags().Float64Var(&temp, "temp", 35, "biogas temperature in C")
	cmd.Flags().BoolVar(&table, "table", false, "print the whole saturation table")
	return cmd
}

func humidityTable() export.Table {
	t := export.Table{
		Title:  "Biogas saturation water content",
		Header: []string{"Up to (C)", "g H2O/Nm3"},
	}
	for _, step := range water.SaturationHumidityTable {
		t.Rows = append(t.Rows, []any{step.MaxTempC, step.GramsPerNm3})
	}
	last := water.SaturationHumidityTable[len(water.SaturationHumidityTable)-1]
	t.Rows = append(t.Rows, []any{fmt.Sprintf("> %g", last.MaxTempC), water.AboveTableGramsPerNm3})
	return t
}

func (a *app) feedstocksCmd() *cobra.Command {
	var out outputFlags

	cmd := &cobra.Command{
		Use:   "feedstocks",
		Short: "List the built-in feedstock presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			presets := feedstock.Presets()
			doc := export.Document{
				Title:  "Feedstock presets",
				Tables: []export.Table{presetTable(presets)},
				Data:   presets,
			}
			return a.write(cmd, &out, doc)
		},
	}
	out.register(cmd)
	return cmd
}

func presetTable(presets []feedstock.Preset) export.Table {
	t := export.Table{
		Title: "Feedstock presets",
		Sheet: "Presets",
		Header: []string{
			"Key", "Name", "Livestock", "Moisture (%)", "TS (%)", "SV (% TS)",
			"m3 CH4/t SV", "CH4 (%)", "Upgrading (%)", "Volume (t/yr)",
		},
	}
	for _, p := range presets {
		r := p.Record
		t.Rows = append(t.Rows, []any{
			p.Key, r.Name, r.LivestockResidue, r.MoisturePct, r.TSPct, r.SVPct,
			r.MethanePotential, r.CH4Pct, r.UpgradingPct, r.VolumeTonnesPerYear,
		})
	}
	return t
}

func (a *app) serveCmd() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the balance engine as an HTTP JSON API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := server.Config{
				Listen:          a.cfg.Server.Listen,
				ShutdownTimeout: a.cfg.Server.ShutdownTimeout,
				Export:          export.Options{Precision: a.cfg.Export.Precision},
			}
			if listen != "" {
				cfg.Listen = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return server.New(cfg, a.logger).Run(ctx)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "address to listen on (default from config)")
	return cmd
}

// printAdvisories writes a human-readable line per advisory.
func printAdvisories(w io.Writer, r water.Result) {
	for _, adv := range r.Advisories {
		switch adv.Code {
		case water.AdvisoryDilutionClamped:
			fmt.Fprintf(w, "WARNING: feed and process water already dilute the mix to %.2f%% TS, below the %.2f%% target; no dilution water added\n",
				adv.Value, adv.Threshold)
		case water.AdvisoryImbalanced:
			fmt.Fprintf(w, "WARNING: water balance does not close: residual %.3f m3/d exceeds %.3f m3/d\n",
				adv.Value, adv.Threshold)
		default:
			fmt.Fprintf(w, "WARNING: %s (%g, %g)\n", adv.Code, adv.Value, adv.Threshold)
		}
	}
}
