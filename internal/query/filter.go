// Package query provides a typed filter predicate over the joined
// article⋈owner shape. A Filter can be rendered as a SQL WHERE fragment for
// the PostgreSQL store or evaluated directly against an in-memory article,
// so both store implementations share the exact same matching rules.
package query

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"pressroom/internal/models"
)

// Field names a property of the joined article view. Owner fields are
// prefixed with "owner." and are only available after the join.
type Field string

const (
	FieldID            Field = "id"
	FieldTitle         Field = "title"
	FieldContent       Field = "content"
	FieldCategory      Field = "category"
	FieldOwnerUsername Field = "owner.username"
)

// columns maps each field to its column in the joined SQL query, where the
// articles table is aliased "a" and the owner's users row is aliased "u".
var columns = map[Field]string{
	FieldID:            "a.id::text",
	FieldTitle:         "a.title",
	FieldContent:       "a.content",
	FieldCategory:      "a.category",
	FieldOwnerUsername: "u.username",
}

// Filter is a declarative condition over article and owner fields.
type Filter interface {
	// SQL renders the condition, registering any parameters on args.
	SQL(args *Args) string
	// Match evaluates the condition against a hydrated article.
	Match(a *models.Article) bool
}

// Args collects positional parameters ($1, $2, ...) while a filter is rendered.
type Args struct {
	values []any
}

// Add registers v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

// Values returns the registered parameters in placeholder order.
func (a *Args) Values() []any {
	return a.values
}

// Eq matches records whose field equals value exactly.
func Eq(field Field, value string) Filter {
	return eqFilter{field: field, value: value}
}

// ByID matches the single record with the given identifier. Any form
// uuid.Parse accepts (upper case, braces, urn:uuid:) is compared in its
// canonical text form; anything else is kept as is and matches nothing.
func ByID(id string) Filter {
	if parsed, err := uuid.Parse(id); err == nil {
		id = parsed.String()
	}
	return Eq(FieldID, id)
}

// ByCategory matches records filed under c.
func ByCategory(c models.Category) Filter {
	return Eq(FieldCategory, string(c))
}

// Contains matches records whose field contains text, respecting case.
func Contains(field Field, text string) Filter {
	return containsFilter{field: field, text: text}
}

// ContainsFold matches records whose field contains text, ignoring case.
// Match folds with strings.ToLower while SQL uses lower(), which follows
// the database's LC_CTYPE. Both agree on ASCII; folding of other letters
// depends on the database locale.
func ContainsFold(field Field, text string) Filter {
	return containsFilter{field: field, text: text, fold: true}
}

// And matches records satisfying every child. And() matches everything.
func And(filters ...Filter) Filter {
	return andFilter(filters)
}

// Or matches records satisfying at least one child. Or() matches nothing.
func Or(filters ...Filter) Filter {
	return orFilter(filters)
}

type eqFilter struct {
	field Field
	value string
}

func (f eqFilter) SQL(args *Args) string {
	return columnFor(f.field) + " = " + args.Add(f.value)
}

func (f eqFilter) Match(a *models.Article) bool {
	v, ok := fieldValue(a, f.field)
	return ok && v == f.value
}

type containsFilter struct {
	field Field
	text  string
	fold  bool
}

func (f containsFilter) SQL(args *Args) string {
	col := columnFor(f.field)
	p := args.Add(f.text)
	if f.fold {
		return "strpos(lower(" + col + "), lower(" + p + ")) > 0"
	}
	return "strpos(" + col + ", " + p + ") > 0"
}

func (f containsFilter) Match(a *models.Article) bool {
	v, ok := fieldValue(a, f.field)
	if !ok {
		return false
	}
	if f.fold {
		return strings.Contains(strings.ToLower(v), strings.ToLower(f.text))
	}
	return strings.Contains(v, f.text)
}

type andFilter []Filter

func (f andFilter) SQL(args *Args) string {
	if len(f) == 0 {
		return "TRUE"
	}
	return join(f, " AND ", args)
}

func (f andFilter) Match(a *models.Article) bool {
	for _, child := range f {
		if !child.Match(a) {
			return false
		}
	}
	return true
}

type orFilter []Filter

func (f orFilter) SQL(args *Args) string {
	if len(f) == 0 {
		return "FALSE"
	}
	return join(f, " OR ", args)
}

func (f orFilter) Match(a *models.Article) bool {
	for _, child := range f {
		if child.Match(a) {
			return true
		}
	}
	return false
}

func join(filters []Filter, sep string, args *Args) string {
	parts := make([]string, len(filters))
	for i, child := range filters {
		parts[i] = child.SQL(args)
	}
	return "(" + strings.Join(parts, sep) + ")"
}

// columnFor panics on an unknown field.
func columnFor(f Field) string {
	col, ok := columns[f]
	if !ok {
		panic(fmt.Sprintf("query: unknown field %q", f))
	}
	return col
}

// fieldValue reads a field from the joined view. The boolean is false when
// the field is absent (uncategorized article, unresolved owner), which makes
// every comparison on it fail just like a NULL column in SQL.
func fieldValue(a *models.Article, f Field) (string, bool) {
	switch f {
	case FieldID:
		return a.ID.String(), true
	case FieldTitle:
		return a.Title, true
	case FieldContent:
		return a.Content, true
	case FieldCategory:
		if a.Category == nil {
			return "", false
		}
		return string(*a.Category), true
	case FieldOwnerUsername:
		owner := a.Owner.User()
		if owner == nil {
			return "", false
		}
		return owner.Username, true
	}
	panic(fmt.Sprintf("query: unknown field %q", f))
}
