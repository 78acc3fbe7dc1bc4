// Package filter turns search parameters into a composed certificate predicate and sort order.
package filter

import (
	"sort"
	"strconv"
	"strings"

	"gift_catalog/internal/errs"
	"gift_catalog/internal/validation"
)

// Key is a recognized search parameter name
type Key string

const (
	KeyTag         Key = "tag"
	KeyName        Key = "name"
	KeyDescription Key = "description"
	KeyActive      Key = "active"
	KeySort        Key = "sort"
)

var knownKeys = map[Key]bool{
	KeyTag:         true,
	KeyName:        true,
	KeyDescription: true,
	KeyActive:      true,
	KeySort:        true,
}

const (
	tagRule  = "required,max=64,tagname"
	textRule = "required,max=255,printable"
)

// Condition is one conjunct of a certificate predicate.
// The set of implementations is closed: TagEquals, NameContains,
// DescriptionContains, ActiveIs and TagsAll.
type Condition interface {
	isCondition()
}

// TagEquals matches certificates linked to a tag with exactly this name
type TagEquals struct{ Name string }

// NameContains matches certificates whose name contains Text
type NameContains struct{ Text string }

// DescriptionContains matches certificates whose description contains Text
type DescriptionContains struct{ Text string }

// ActiveIs matches certificates by active flag
type ActiveIs struct{ Active bool }

// TagsAll matches certificates linked to every named tag
type TagsAll struct{ Names []string }

func (TagEquals) isCondition()           {}
func (NameContains) isCondition()        {}
func (DescriptionContains) isCondition() {}
func (ActiveIs) isCondition()            {}
func (TagsAll) isCondition()             {}

// Predicate is the AND of its conditions. An empty predicate matches everything.
type Predicate []Condition

// Criteria is a predicate with its sort order
type Criteria struct {
	Predicate Predicate
	Sort      Sort
}

// All returns criteria matching every certificate in default order
func All() Criteria {
	return Criteria{Sort: DefaultSort()}
}

// Build validates a mapping of search parameters and composes the criteria.
// At least one filter condition is required.
func Build(params map[string]string) (Criteria, error) {
	for k := range params {
		if !knownKeys[Key(k)] {
			return Criteria{}, errs.InvalidData("unknown search parameter %q", k).With("parameter", k)
		}
	}

	var pred Predicate
	if v, ok := params[string(KeyTag)]; ok {
		if err := validation.Var(string(KeyTag), v, tagRule); err != nil {
			return Criteria{}, err
		}
		pred = append(pred, TagEquals{Name: v})
	}
	if v, ok := params[string(KeyName)]; ok {
		if err := validation.Var(string(KeyName), v, textRule); err != nil {
			return Criteria{}, err
		}
		pred = append(pred, NameContains{Text: v})
	}
	if v, ok := params[string(KeyDescription)]; ok {
		if err := validation.Var(string(KeyDescription), v, textRule); err != nil {
			return Criteria{}, err
		}
		pred = append(pred, DescriptionContains{Text: v})
	}
	if v, ok := params[string(KeyActive)]; ok {
		active, err := strconv.ParseBool(v)
		if err != nil {
			return Criteria{}, errs.InvalidData("active must be true or false").With(string(KeyActive), v)
		}
		pred = append(pred, ActiveIs{Active: active})
	}

	s, err := ParseSort(params[string(KeySort)])
	if err != nil {
		return Criteria{}, err
	}
	if len(pred) == 0 {
		return Criteria{}, errs.InvalidData("at least one search condition is required")
	}
	return Criteria{Predicate: pred, Sort: s}, nil
}

// BuildTagSet composes criteria requiring every named tag.
// Repeated names are collapsed.
func BuildTagSet(names []string, sortDirective string) (Criteria, error) {
	if len(names) == 0 {
		return Criteria{}, errs.InvalidData("at least one tag is required")
	}
	seen := make(map[string]bool, len(names))
	unique := make([]string, 0, len(names))
	for _, n := range names {
		if err := validation.Var(string(KeyTag), n, tagRule); err != nil {
			return Criteria{}, err
		}
		if !seen[n] {
			seen[n] = true
			unique = append(unique, n)
		}
	}
	sort.Strings(unique)

	s, err := ParseSort(sortDirective)
	if err != nil {
		return Criteria{}, err
	}
	return Criteria{Predicate: Predicate{TagsAll{Names: unique}}, Sort: s}, nil
}

// Directive is a recognized sort token
type Directive string

const (
	SortNameAsc         Directive = "name_asc"
	SortNameDesc        Directive = "name_desc"
	SortDateAsc         Directive = "date_asc"
	SortDateDesc        Directive = "date_desc"
	SortDateDescNameAsc Directive = "date_desc_name_asc"
)

// Field is a sortable certificate column
type Field string

const (
	FieldID        Field = "id"
	FieldName      Field = "name"
	FieldCreatedAt Field = "created_at"
)

// Order is one ORDER BY term
type Order struct {
	Field Field
	Desc  bool
}

// Sort is an ordered list of terms. Every Sort produced by this package
// ends with id ascending so that pages are deterministic.
type Sort []Order

var directives = map[Directive]Sort{
	SortNameAsc:         {{Field: FieldName}},
	SortNameDesc:        {{Field: FieldName, Desc: true}},
	SortDateAsc:         {{Field: FieldCreatedAt}},
	SortDateDesc:        {{Field: FieldCreatedAt, Desc: true}},
	SortDateDescNameAsc: {{Field: FieldCreatedAt, Desc: true}, {Field: FieldName}},
}

// DefaultSort orders by id only
func DefaultSort() Sort {
	return Sort{{Field: FieldID}}
}

// ParseSort parses a comma-separated list of directives. Every component
// must be recognized. An empty directive yields DefaultSort.
func ParseSort(directive string) (Sort, error) {
	var out Sort
	used := make(map[Field]bool)
	if strings.TrimSpace(directive) != "" {
		for _, part := range strings.Split(directive, ",") {
			terms, ok := directives[Directive(strings.TrimSpace(part))]
			if !ok {
				return nil, errs.InvalidData("unknown sort directive %q", part).With(string(KeySort), directive)
			}
			for _, o := range terms {
				if !used[o.Field] {
					used[o.Field] = true
					out = append(out, o)
				}
			}
		}
	}
	if !used[FieldID] {
		out = append(out, Order{Field: FieldID})
	}
	return out, nil
}
