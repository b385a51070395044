package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"trimestre/internal/amqp"
	"trimestre/internal/backend"
	"trimestre/internal/cli"
	"trimestre/internal/config"
	"trimestre/internal/conversion"
	"trimestre/internal/core"
	"trimestre/internal/export"
	"trimestre/internal/ingest"
	applog "trimestre/internal/log"
	"trimestre/internal/period"
	"trimestre/internal/report"
	"trimestre/internal/services"
)

func main() {
	cli.LoadEnvFile()

	measure := flag.String("measure", "", "measure to aggregate: valor or quantidade (env MEASURE)")
	centers := flag.String("centers", "", "comma separated centers, default all discovered (env CENTERS)")
	conversionFile := flag.String("conversion", "", "conversion table for quantidade (env CONVERSION_FILE)")
	outDir := flag.String("out", "", "output directory for the xlsx report (env OUTPUT_DIR)")
	syncTargets := flag.String("sync", "", "comma separated sync backends: sheets, sqlite, or memory as a dry run (env SYNC_BACKEND)")
	listCenters := flag.Bool("list-centers", false, "print the centers found in the input files and exit")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: trimestre [flags] file1 file2 file3\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	bootstrap := cli.SetupLogger(os.Getenv("LOG_LEVEL"))
	cfg := cli.LoadAndValidateConfig(bootstrap, func(c *config.Config) {
		if *measure != "" {
			c.Measure = *measure
		}
		if *centers != "" {
			c.Centers = *centers
		}
		if *conversionFile != "" {
			c.ConversionFile = *conversionFile
		}
		if *outDir != "" {
			c.OutputDir = *outDir
		}
		if *syncTargets != "" {
			c.SyncBackends = splitList(*syncTargets)
		}
	})
	logger := cli.SetupLogger(cfg.LogLevel).WithComponent(applog.ComponentApp)

	paths := flag.Args()
	if len(paths) == 0 {
		flag.Usage()
		os.Exit(2)
	}

	files, err := readFiles(logger, paths)
	if err != nil {
		logger.Error("Failed to read input files", applog.FieldError, err)
		os.Exit(1)
	}

	discovered := ingest.DiscoverCenters(files)
	if *listCenters {
		for _, c := range discovered {
			fmt.Println(c)
		}
		return
	}

	selected, err := ingest.ParseCenters(cfg.Centers)
	if err != nil {
		logger.Error("Invalid centers", applog.FieldError, err)
		os.Exit(1)
	}
	if len(selected) == 0 {
		selected = discovered
	}

	m, _ := core.ParseMeasure(cfg.Measure)
	req := services.RunRequest{Files: files, Centers: selected, Measure: m}
	if m == core.MeasureQuantity && cfg.ConversionFile != "" {
		table, err := loadConversion(logger, cfg.ConversionFile)
		if err != nil {
			logger.Error("Failed to read conversion table", applog.FieldError, err)
			os.Exit(1)
		}
		req.Conversion = table
	}

	svc := services.NewReportService(cfg.EngineConfig(), logger)
	res, err := svc.Run(req)
	if err != nil {
		var convErr *core.ConversionError
		switch {
		case errors.As(err, &convErr):
			printMissing(convErr.Missing)
		case period.IsMismatch(err):
			fmt.Printf("Os arquivos não formam um trimestre: %v\n", err)
		}
		logger.Error("Report failed", applog.FieldError, err)
		os.Exit(1)
	}

	path, err := export.WriteFile(cfg.OutputDir, res.Report)
	if err != nil {
		logger.Error("Failed to write report", applog.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Report written", applog.FieldRunID, res.RunID, applog.FieldOutput, path)

	printSummary(res.Report)
	fmt.Printf("\nRelatório salvo em %s\n", path)

	if cfg.SyncEnabled() {
		// sync is best effort; the report is already on disk
		if err := syncSummary(logger, cfg, res); err != nil {
			logger.Warn("Sync failed", applog.FieldRunID, res.RunID, applog.FieldError, err)
			fmt.Printf("Sincronização falhou: %v\n", err)
		}
	}
}

func readFiles(logger *applog.Logger, paths []string) ([]*ingest.File, error) {
	log := logger.WithComponent(applog.ComponentIngest)
	files := make([]*ingest.File, 0, len(paths))
	for _, p := range paths {
		f, err := ingest.ReadFile(p)
		if err != nil {
			return nil, err
		}
		log.Info("File read",
			applog.FieldFile, f.Name,
			applog.FieldRecords, len(f.Records),
			applog.FieldDropped, f.Dropped)
		files = append(files, f)
	}
	return files, nil
}

func loadConversion(logger *applog.Logger, path string) (*conversion.Table, error) {
	src, err := ingest.ReadConversionFile(path)
	if err != nil {
		return nil, err
	}
	table, skipped := src.Table()
	logger.WithComponent(applog.ComponentConversion).Info("Conversion table loaded",
		applog.FieldFile, src.Name,
		applog.FieldRecords, table.Len(),
		applog.FieldDropped, skipped)
	return table, nil
}

func syncSummary(logger *applog.Logger, cfg *config.Config, res *services.RunResult) error {
	ctx := context.Background()

	if cfg.SyncMode == config.SyncModeQueue {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			return fmt.Errorf("connect to broker: %w", err)
		}
		defer client.Close()
		_, err = services.NewSyncService(nil, client, cfg.SyncTimeout, logger).Sync(ctx, res.RunID, res.Summary)
		if err == nil {
			fmt.Printf("Sincronização de %s enviada para a fila\n", res.Summary.Key)
		}
		return err
	}

	configs, err := backend.FromAppConfig(cfg)
	if err != nil {
		return err
	}
	backends, err := backend.NewFactory(logger).CreateAll(ctx, configs)
	if err != nil {
		return err
	}
	defer func() {
		if err := backend.Cleanup(backends); err != nil {
			logger.Warn("Backend cleanup failed", applog.FieldError, err)
		}
	}()

	targets := make([]services.Target, 0, len(backends))
	persistent := make(map[string]bool, len(backends))
	for _, b := range backends {
		targets = append(targets, services.Target{Name: string(b.Type), Upserter: b.Backend})
		persistent[string(b.Type)] = b.Type.Persistent()
	}
	outcomes, err := services.NewSyncService(targets, nil, cfg.SyncTimeout, logger).Sync(ctx, res.RunID, res.Summary)
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
		case persistent[o.Target]:
			fmt.Printf("Sincronizado %s em %s\n", res.Summary.Key, o.Target)
		default:
			fmt.Printf("Simulado %s em %s (não persistido)\n", res.Summary.Key, o.Target)
		}
	}
	return err
}

func printSummary(rep report.Report) {
	cons, ok := rep.Consolidated()
	if !ok {
		return
	}
	fmt.Printf("%s\n\n", cons.Label)
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', tabwriter.AlignRight)
	for _, row := range cons.Rows {
		v := core.FormatMeasure(rep.Measure, row.Value)
		if row.Percent {
			v = core.FormatPercent(row.Value)
		}
		fmt.Fprintf(w, "%s\t%s\t\n", row.Indicator, v)
	}
	w.Flush()
}

func printMissing(missing []core.MissingMaterial) {
	fmt.Println("Materiais sem fator de conversão:")
	for _, m := range missing {
		fmt.Printf("  (%s, %s, %s)\n", m.Material, m.Description, m.Unit)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
