// Command seed installs the yearbook configuration. Unlike adventurer, the
// yearbook variant never materializes defaults on its own: an administrator
// runs this once before the booth opens.
package main

import (
	"context"
	"flag"
	"log"
	"os"

	"github.com/mci-lab/avatarforge/internal/config"
	"github.com/mci-lab/avatarforge/internal/domain"
	"github.com/mci-lab/avatarforge/internal/prompts"
	"github.com/mci-lab/avatarforge/internal/repository"
)

func main() {
	var (
		code     = flag.String("code", "", "access code gating yearbook submissions (required)")
		template = flag.String("template", "", "prompt template; defaults to the built-in yearbook template")
	)
	flag.Parse()

	if *code == "" {
		flag.Usage()
		log.Fatal("the -code flag is required")
	}

	promptTemplate := *template
	if promptTemplate == "" {
		promptTemplate = prompts.DefaultYearbookTemplate
	}

	configPath := os.Getenv("CONFIG_PATH")
	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	db, err := repository.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	configRepo := repository.NewConfigRepository(db)
	if err := configRepo.Replace(context.Background(), &domain.Config{
		Variant:        domain.VariantYearbook,
		Code:           *code,
		PromptTemplate: promptTemplate,
	}); err != nil {
		log.Fatalf("Failed to install yearbook configuration: %v", err)
	}

	log.Println("Yearbook configuration installed")
}
