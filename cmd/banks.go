package cmd

import (
	"go.uber.org/zap"

	"github.com/abhisek/studyzone/internal/bank"
	"github.com/abhisek/studyzone/internal/config"
	"github.com/abhisek/studyzone/internal/screens/home"
)

// practicePrefix keeps practice snapshots apart from flyer snapshots when
// both read the same file.
const practicePrefix = "practice:"

type banks struct {
	Quiz     home.Records
	Flyer    home.Passages
	Practice home.Records
}

// loadBanks reads every configured bank. A bank that fails is returned with
// its error so the menu can warn about it and the rest stay playable.
func loadBanks(cfg *config.Config, log *zap.Logger) banks {
	opts := bank.DefaultOptions()
	opts.Arity = cfg.Quiz.OptionArity

	var b banks
	b.Quiz.Name = cfg.BankPath
	b.Quiz.Records, b.Quiz.Err = bank.Load(cfg.BankPath, opts)

	b.Flyer.Name = cfg.FlyerPath
	b.Flyer.Passages, b.Flyer.Err = bank.LoadPassages(cfg.FlyerPath, opts)

	b.Practice.Name = practicePrefix + cfg.PracticePath
	passages, err := bank.LoadPassages(cfg.PracticePath, opts)
	b.Practice.Records, b.Practice.Err = bank.Flatten(passages), err

	log.Info("banks loaded",
		zap.String("quiz", cfg.BankPath), zap.Int("quiz_records", len(b.Quiz.Records)), zap.Error(b.Quiz.Err),
		zap.String("flyer", cfg.FlyerPath), zap.Int("flyer_passages", len(b.Flyer.Passages)),
		zap.Int("practice_records", len(b.Practice.Records)),
	)
	if b.Flyer.Err != nil {
		log.Warn("flyer bank unavailable", zap.Error(b.Flyer.Err))
	}
	if b.Practice.Err != nil {
		log.Warn("practice bank unavailable", zap.Error(b.Practice.Err))
	}
	return b
}
