// Command ieltsctl ingests or validates test documents in batch and prints a
// JSON report per file.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/lshigami/ieltsprep/config"
	"github.com/lshigami/ieltsprep/database"
	"github.com/lshigami/ieltsprep/internal/dto"
	"github.com/lshigami/ieltsprep/internal/logger"
	"github.com/lshigami/ieltsprep/internal/normalizer"
	"github.com/lshigami/ieltsprep/internal/registry"
	"github.com/lshigami/ieltsprep/internal/repository"
	"github.com/lshigami/ieltsprep/internal/service"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		log.Error().Err(err).Msg("ieltsctl failed")
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ieltsctl",
		Short:         "Batch ingest and validation of IELTS test documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	pf := root.PersistentFlags()
	pf.String("log-level", "warn", "Log level (debug, info, warn, error)")
	pf.StringSlice("articles", []string{"a", "an", "the"}, "Articles ignored when matching blank answers")
	pf.IntP("jobs", "j", 4, "Files processed at once")

	root.AddCommand(ingestCmd(), validateCmd())
	return root
}

func ingestCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ingest FILE...",
		Short: "Validate and store test documents (JSON or YAML)",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runIngest,
	}
	f := cmd.Flags()
	f.String("db-driver", "sqlite", "Database driver (sqlite, postgres)")
	f.String("db-dsn", "ieltsprep.db", "Database DSN")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate FILE...",
		Short: "Run every ingest check without writing anything",
		Args:  cobra.MinimumNArgs(1),
		RunE:  runValidate,
	}
}

// viperForCmd binds a command's flags and IELTS_* environment to a fresh viper instance.
func viperForCmd(cmd *cobra.Command) *viper.Viper {
	v := viper.New()
	_ = v.BindPFlags(cmd.Flags())
	_ = v.BindPFlags(cmd.InheritedFlags())
	v.SetEnvPrefix("IELTS")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return v
}

// fileReport is one entry of the JSON array written to stdout.
type fileReport struct {
	File   string            `json:"file"`
	OK     bool              `json:"ok"`
	Report *dto.IngestReport `json:"report,omitempty"`
	Error  string            `json:"error,omitempty"`
}

type checkFunc func(ctx context.Context, raw []byte) (*dto.IngestReport, error)

func runIngest(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	logger.Init(v.GetString("log-level"), true)

	cfg := &config.Config{}
	cfg.Database.Driver = v.GetString("db-driver")
	cfg.Database.DSN = v.GetString("db-dsn")
	db, err := database.NewDatabase(cfg)
	if err != nil {
		return err
	}
	if err := database.AutoMigrate(db); err != nil {
		return fmt.Errorf("migrate: %w", err)
	}

	reg := registry.New(registry.WithArticles(v.GetStringSlice("articles")...))
	ingest := service.NewTrackIngestService(
		repository.NewTrackRepository(db),
		repository.NewSectionRepository(db),
		repository.NewQuestionRepository(db),
		reg,
		normalizer.New(reg),
		db,
	)
	return run(cmd, v, args, ingest.Ingest)
}

func runValidate(cmd *cobra.Command, args []string) error {
	v := viperForCmd(cmd)
	logger.Init(v.GetString("log-level"), true)

	reg := registry.New(registry.WithArticles(v.GetStringSlice("articles")...))
	ingest := service.NewTrackIngestService(nil, nil, nil, reg, normalizer.New(reg), nil)
	return run(cmd, v, args, ingest.Validate)
}

// run checks every file concurrently, prints the reports in argument order
// and fails when any file failed.
func run(cmd *cobra.Command, v *viper.Viper, files []string, check checkFunc) error {
	reports := make([]fileReport, len(files))
	g, ctx := errgroup.WithContext(cmd.Context())
	g.SetLimit(max(1, v.GetInt("jobs")))
	for i, file := range files {
		g.Go(func() error {
			reports[i] = checkFile(ctx, file, check)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	if err := enc.Encode(reports); err != nil {
		return err
	}

	failed := 0
	for _, r := range reports {
		if !r.OK {
			failed++
		}
	}
	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(files))
	}
	return nil
}

func checkFile(ctx context.Context, file string, check checkFunc) fileReport {
	out := fileReport{File: file}
	raw, err := readDocument(file)
	if err != nil {
		out.Error = err.Error()
		return out
	}
	report, err := check(ctx, raw)
	out.Report = report
	if err != nil {
		out.Error = err.Error()
		log.Warn().Str("file", file).Err(err).Msg("Document rejected")
		return out
	}
	out.OK = true
	log.Info().Str("file", file).Str("trackID", report.TrackID).Int("questions", report.QuestionsCreated).Msg("Document accepted")
	return out
}
