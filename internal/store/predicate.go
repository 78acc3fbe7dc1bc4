package store

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gift_catalog/internal/filter"
)

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func containsPattern(text string) string {
	return "%" + strings.ToLower(likeEscaper.Replace(text)) + "%"
}

// applyPredicate folds the conditions into the query with AND
func (s *Store) applyPredicate(query *gorm.DB, pred filter.Predicate) *gorm.DB {
	for _, c := range pred {
		query = s.applyCondition(query, c)
	}
	return query
}

func (s *Store) applyCondition(query *gorm.DB, c filter.Condition) *gorm.DB {
	switch c := c.(type) {
	case filter.TagEquals:
		return query.Where("certificates.id IN (?)", s.taggedWith(c.Name))
	case filter.TagsAll:
		// one membership test per name, so equality follows the column collation
		for _, name := range c.Names {
			query = query.Where("certificates.id IN (?)", s.taggedWith(name))
		}
		return query
	case filter.NameContains:
		return query.Where("LOWER(certificates.name) LIKE ? ESCAPE '!'", containsPattern(c.Text))
	case filter.DescriptionContains:
		return query.Where("LOWER(certificates.description) LIKE ? ESCAPE '!'", containsPattern(c.Text))
	case filter.ActiveIs:
		return query.Where("certificates.active = ?", c.Active)
	default:
		_ = query.AddError(fmt.Errorf("unsupported search condition %T", c))
		return query
	}
}

// taggedWith selects the ids of certificates linked to the named tag
func (s *Store) taggedWith(name string) *gorm.DB {
	return s.db.Session(&gorm.Session{NewDB: true}).
		Table("certificate_tags ct").
		Select("ct.certificate_id").
		Joins("JOIN tags t ON t.id = ct.tag_id").
		Where("t.name = ?", name)
}

func applySort(query *gorm.DB, sort filter.Sort) *gorm.DB {
	for _, o := range sort {
		query = query.Order(clause.OrderByColumn{
			Column: clause.Column{Table: "certificates", Name: string(o.Field)},
			Desc:   o.Desc,
		})
	}
	return query
}
