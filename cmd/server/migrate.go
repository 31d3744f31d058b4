package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"hr-admin/config"
	"hr-admin/internal/repository"
	"hr-admin/internal/seed"
	"hr-admin/pkg/database"
	"hr-admin/pkg/password"
)

func newMigrateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "执行数据库迁移后退出",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			closeDatabase(db)
			return nil
		},
	}
}

func newSeedCommand(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "按 YAML 文件初始化账号、员工与部门（可重复执行）",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := seed.LoadFile(file)
			if err != nil {
				return err
			}

			cfg, logger, err := bootstrap(opts)
			if err != nil {
				return err
			}
			defer logger.Sync()

			db, err := openDatabase(cfg, logger)
			if err != nil {
				return err
			}
			defer closeDatabase(db)

			seeder := seed.NewSeeder(
				repository.NewRepository(db),
				password.NewHasher(cfg.Auth.BcryptCost),
				cfg.Auth.DefaultPassword,
				logger,
			)
			result, err := seeder.Apply(context.Background(), f)
			if err != nil {
				return fmt.Errorf("写入种子数据失败: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "users: %d created, %d skipped; departments: %d created, %d skipped\n",
				result.UsersCreated, result.UsersSkipped, result.DepartmentsCreated, result.DepartmentsSkipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "seed.yaml", "种子文件路径")
	return cmd
}

// openDatabase 连接数据库并执行迁移
func openDatabase(cfg *config.Config, logger *zap.Logger) (*gorm.DB, error) {
	db, err := database.NewDB(&cfg.Database, cfg.Log.Level, logger)
	if err != nil {
		return nil, fmt.Errorf("数据库连接失败: %w", err)
	}
	logger.Info("数据库连接成功")

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("获取底层 sql.DB 失败: %w", err)
	}
	if err := database.RunMigrations(sqlDB, logger); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("数据库迁移失败: %w", err)
	}
	return db, nil
}

func closeDatabase(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}
