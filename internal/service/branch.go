// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package service

import (
	"pressroom/internal/models"
	"pressroom/internal/query"
)

// Branch identifies which listing query GetArticles runs.
type Branch int

const (
	// BranchAll lists every article.
	BranchAll Branch = iota
	// BranchCategory lists one category.
	BranchCategory
	// BranchSearch runs a case-insensitive text search.
	BranchSearch
	// BranchCategorySearch runs a case-sensitive text search within one
	// category.
	BranchCategorySearch
)

func (b Branch) String() string {
	switch b {
	case BranchAll:
		return "all"
	case BranchCategory:
		return "category"
	case BranchSearch:
		return "search"
	case BranchCategorySearch:
		return "category+search"
	default:
		return "unknown"
	}
}

// SelectBranch picks the listing query for the given parameters. A nil or
// empty value counts as absent.
func SelectBranch(category *models.Category, search *string) Branch {
	hasCategory := category != nil && *category != ""
	hasSearch := search != nil && *search != ""

	switch {
	case hasCategory && hasSearch:
		return BranchCategorySearch
	case hasCategory:
		return BranchCategory
	case hasSearch:
		return BranchSearch
	default:
		return BranchAll
	}
}

// listingFilter builds the repository filter for a branch. It returns nil
// for BranchAll, which is served by FindAll instead.
//
// Search within a category is case-sensitive while a bare search folds case.
func listingFilter(b Branch, category *models.Category, search *string) query.Filter {
	switch b {
	case BranchCategorySearch:
		return query.And(
			query.ByCategory(*category),
			textSearch(*search, query.Contains),
		)
	case BranchCategory:
		return query.ByCategory(*category)
	case BranchSearch:
		return textSearch(*search, query.ContainsFold)
	default:
		return nil
	}
}

// textSearch matches text in the title, the body or the owner's username.
func textSearch(text string, contains func(query.Field, string) query.Filter) query.Filter {
	return query.Or(
		contains(query.FieldTitle, text),
		contains(query.FieldContent, text),
		contains(query.FieldOwnerUsername, text),
	)
}
