// Copyright (c) 2026 Vadali. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package tag

import (
	"cmp"
	"context"
	"log/slog"
	"slices"
	"strings"

	"github.com/vadali/newsroom/internal/core/article"
)

// ArticleSource lists every live article.
type ArticleSource interface {
	Published(context context.Context) ([]*article.Article, error)
}

type Service struct {
	articles ArticleSource
	logger   *slog.Logger
}

func NewService(articles ArticleSource, logger *slog.Logger) *Service {
	return &Service{
		articles: articles,
		logger:   logger,
	}
}

// ListTags counts tags case-insensitively, most used first, ties by name.
func (service *Service) ListTags(context context.Context) ([]Count, error) {
	published, err := service.articles.Published(context)
	if err != nil {
		return nil, err
	}

	counts := []Count{}
	position := map[string]int{}
	for _, item := range published {
		seen := map[string]bool{}
		for _, name := range item.Tags {
			name = strings.TrimSpace(name)
			key := strings.ToLower(name)
			if key == "" || seen[key] {
				continue
			}
			seen[key] = true

			if index, ok := position[key]; ok {
				counts[index].Count++
				continue
			}
			position[key] = len(counts)
			counts = append(counts, Count{Name: name, Count: 1})
		}
	}

	slices.SortStableFunc(counts, func(a, b Count) int {
		if byCount := cmp.Compare(b.Count, a.Count); byCount != 0 {
			return byCount
		}
		return cmp.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
	})
	return counts, nil
}
