package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"foodgram-go/internal/config"
	"foodgram-go/internal/infra/database"
	"foodgram-go/internal/repository"
	"foodgram-go/internal/service"
	"foodgram-go/pkg/logger"

	"github.com/urfave/cli/v2"
	"go.uber.org/zap"
)

// importFunc 对应 ImportService 的一个导入方法
type importFunc func(s *service.ImportService, ctx context.Context, r io.Reader) (service.ImportStats, error)

func main() {
	app := &cli.App{
		Name:  "foodgram-import",
		Usage: "load initial data from headerless CSV files",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "configs/config.yaml",
				EnvVars: []string{"FOODGRAM_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			command("ingredients", "rows: name,measurement_unit", "data/ingredients.csv", (*service.ImportService).ImportIngredients),
			command("tags", "rows: name,slug", "data/tags.csv", (*service.ImportService).ImportTags),
			command("users", "rows: first_name,last_name,username,email,password", "data/users.csv", (*service.ImportService).ImportUsers),
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func command(name, usage, defaultFile string, run importFunc) *cli.Command {
	return &cli.Command{
		Name:  name,
		Usage: usage,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Value: defaultFile, Usage: "CSV 文件路径"},
		},
		Action: func(c *cli.Context) error {
			cfg, err := config.Load(c.String("config"))
			if err != nil {
				return err
			}
			if err := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.Log.Output, cfg.Log.FilePath); err != nil {
				return fmt.Errorf("init logger: %w", err)
			}
			defer logger.Sync()

			if err := database.Init(&cfg.Database); err != nil {
				return fmt.Errorf("init database: %w", err)
			}
			defer database.Close()

			db := database.Get()
			if err := database.Migrate(db); err != nil {
				return fmt.Errorf("migrate: %w", err)
			}

			f, err := os.Open(c.String("file"))
			if err != nil {
				return err
			}
			defer f.Close()

			svc := service.NewImportService(repository.NewCatalogRepository(db), repository.NewUserRepository(db))
			stats, err := run(svc, c.Context, f)
			logger.Info("Import finished",
				zap.String("kind", name),
				zap.String("file", c.String("file")),
				zap.Int("created", stats.Created),
				zap.Int("skipped", stats.Skipped),
			)
			return err
		},
	}
}
