package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"foodgram-go/internal/model"
	"foodgram-go/pkg/logger"
	"foodgram-go/pkg/utils"

	"go.uber.org/zap"
)

// ErrBlankImportField 导入行中存在空字段
var ErrBlankImportField = errors.New("字段不能为空")

// CatalogSeeder 导入时写入目录数据
type CatalogSeeder interface {
	CreateTagIfAbsent(ctx context.Context, tag *model.Tag) (bool, error)
	CreateIngredientIfAbsent(ctx context.Context, name, unit string) (bool, error)
}

// ImportStats 导入结果
type ImportStats struct {
	Created int
	Skipped int
}

// ImportService 从无表头 CSV 导入初始数据，已存在的记录跳过
type ImportService struct {
	catalog CatalogSeeder
	users   UserStore
}

func NewImportService(catalog CatalogSeeder, users UserStore) *ImportService {
	return &ImportService{catalog: catalog, users: users}
}

// ImportIngredients 每行：名称,单位
func (s *ImportService) ImportIngredients(ctx context.Context, r io.Reader) (ImportStats, error) {
	return s.each(r, 2, func(row []string) (bool, error) {
		if err := requireFields(row, "name", "measurement_unit"); err != nil {
			return false, err
		}
		return s.catalog.CreateIngredientIfAbsent(ctx, row[0], row[1])
	})
}

// ImportTags 每行：名称,slug
func (s *ImportService) ImportTags(ctx context.Context, r io.Reader) (ImportStats, error) {
	return s.each(r, 2, func(row []string) (bool, error) {
		if err := requireFields(row, "name", "slug"); err != nil {
			return false, err
		}
		return s.catalog.CreateTagIfAbsent(ctx, &model.Tag{Name: row[0], Slug: row[1]})
	})
}

// ImportUsers 每行：名,姓,用户名,邮箱,密码
func (s *ImportService) ImportUsers(ctx context.Context, r io.Reader) (ImportStats, error) {
	return s.each(r, 5, func(row []string) (bool, error) {
		exists, err := s.users.ExistsByUsername(ctx, row[2])
		if err != nil || exists {
			return false, err
		}
		exists, err = s.users.ExistsByEmail(ctx, row[3])
		if err != nil || exists {
			return false, err
		}

		hashed, err := utils.HashPassword(row[4])
		if err != nil {
			return false, err
		}
		err = s.users.Create(ctx, &model.User{
			FirstName: row[0],
			LastName:  row[1],
			Username:  row[2],
			Email:     row[3],
			Password:  hashed,
		})
		return err == nil, err
	})
}

// requireFields 按列名检查已去空白的字段
func requireFields(row []string, names ...string) error {
	for i, name := range names {
		if row[i] == "" {
			return fmt.Errorf("%s: %w", name, ErrBlankImportField)
		}
	}
	return nil
}

func (s *ImportService) each(r io.Reader, columns int, insert func(row []string) (bool, error)) (ImportStats, error) {
	var stats ImportStats

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = columns
	reader.TrimLeadingSpace = true

	for line := 1; ; line++ {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return stats, nil
		}
		if err != nil {
			return stats, fmt.Errorf("read csv: %w", err)
		}
		for i := range row {
			row[i] = strings.TrimSpace(row[i])
		}

		created, err := insert(row)
		if err != nil {
			return stats, fmt.Errorf("line %d: %w", line, err)
		}
		if created {
			stats.Created++
		} else {
			stats.Skipped++
			logger.Debug("Import row skipped", zap.Int("line", line), zap.Strings("row", row))
		}
	}
}
