package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/account"
	"github.com/abhisek/studyzone/internal/app"
	"github.com/abhisek/studyzone/internal/diagnosis"
	"github.com/abhisek/studyzone/internal/llm"
	"github.com/abhisek/studyzone/internal/logger"
	"github.com/abhisek/studyzone/internal/screens/home"
)

// runApp loads configuration, opens the store and banks, and launches the TUI.
func runApp(cmd *cobra.Command) error {
	ctx := cmd.Context()
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg)
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	events := st.EventRepo()

	b := loadBanks(cfg, log)

	var provider llm.Provider
	llmCfg, _ := llm.Discover(cfg.LLM)
	p, err := llm.NewProvider(ctx, llmCfg, events, log)
	switch {
	case err == nil:
		provider = p
		log.Info("llm explanations enabled", zap.String("provider", llmCfg.Provider), zap.String("model", llmCfg.Model()))
	case errors.Is(err, llm.ErrDisabled):
		log.Info("llm explanations disabled")
	default:
		log.Warn("llm provider unavailable", zap.Error(err))
		fmt.Fprintln(os.Stderr, "LLM provider not configured:", err)
		fmt.Fprintln(os.Stderr, "Ms. Tammy's explanations will be unavailable.")
	}

	diag := diagnosis.NewService(provider,
		diagnosis.WithEvents(events),
		diagnosis.WithLogger(log),
		diagnosis.WithTimeout(cfg.LLMTimeout()),
	)
	defer diag.Close()

	return app.Run(ctx, app.Options{
		Accounts: account.NewStore(cfg.AccountsPath),
		DevMode:  cfg.DevMode,
		Log:      log,
		Home: home.Deps{
			Log:            log,
			Basis:          cfg.Quiz.Basis(),
			Quiz:           b.Quiz,
			Flyer:          b.Flyer,
			Practice:       b.Practice,
			Events:         events,
			Snapshots:      st.SnapshotRepo(),
			ResumeKeep:     cfg.Quiz.ResumeKeep,
			Diagnosis:      diag,
			ExplainTimeout: cfg.LLMTimeout(),
		},
	})
}
