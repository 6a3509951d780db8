package storage

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/payee-classifier/internal/common"
)

func normalizeKeyword(keyword string) string {
	return strings.ToUpper(strings.TrimSpace(keyword))
}

// LoadCustomKeywords returns the stored exclusion keywords in alphabetical order.
func (s *Store) LoadCustomKeywords(ctx context.Context) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	keywords := []string{}
	if err := s.db.SelectContext(ctx, &keywords, `SELECT keyword FROM custom_keywords ORDER BY keyword`); err != nil {
		return nil, fmt.Errorf("failed to load custom keywords: %w", err)
	}
	return keywords, nil
}

// AddCustomKeyword stores an exclusion keyword. Adding an existing keyword is a no-op.
func (s *Store) AddCustomKeyword(ctx context.Context, keyword string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	keyword = normalizeKeyword(keyword)
	if err := validateString(keyword, "keyword"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx,
		s.db.Rebind(`INSERT INTO custom_keywords (keyword, created_at) VALUES (?, ?) ON CONFLICT (keyword) DO NOTHING`),
		keyword, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to add custom keyword %q: %w", keyword, err)
	}
	return nil
}

// RemoveCustomKeyword deletes an exclusion keyword.
func (s *Store) RemoveCustomKeyword(ctx context.Context, keyword string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	keyword = normalizeKeyword(keyword)
	if err := validateString(keyword, "keyword"); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, s.db.Rebind(`DELETE FROM custom_keywords WHERE keyword = ?`), keyword)
	if err != nil {
		return fmt.Errorf("failed to remove custom keyword %q: %w", keyword, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("custom keyword %q: %w", keyword, common.ErrNotFound)
	}
	return nil
}
