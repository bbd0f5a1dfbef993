package repository

import (
	"sort"

	"github.com/Devesh36/CodeBits/internal/domain"
)

func sortSnippets(items []domain.Snippet, order domain.Order) {
	sort.SliceStable(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if order == domain.OrderStars && a.Stars != b.Stars {
			return a.Stars > b.Stars
		}
		if !a.CreatedAt.Equal(b.CreatedAt) {
			return a.CreatedAt.After(b.CreatedAt)
		}
		return a.ID < b.ID
	})
}
