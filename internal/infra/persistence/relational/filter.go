package relational

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/schema"

	"crmcore/pkg/domain"
	"crmcore/pkg/filter"
)

// predicate renders one condition against a quoted column.
type predicate func(column, value string) (string, any)

// predicates compile condition types to SQL. Search mirrors the in-memory
// engine: the needle is trimmed and lower-cased, the column lower-cased.
var predicates = filter.Resolver[predicate]{
	filter.Equals: func(col, v string) (string, any) {
		return col + " = ?", v
	},
	filter.IEquals: func(col, v string) (string, any) {
		return "LOWER(" + col + ") = ?", strings.ToLower(v)
	},
	filter.Search: func(col, v string) (string, any) {
		return "LOWER(" + col + ") LIKE ? ESCAPE '\\'", "%" + escapeLike(filter.Needle(v)) + "%"
	},
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

type where struct {
	sql string
	arg any
}

// scope is a compiled filter: the joins required by the condition paths,
// each added once, followed by the predicates.
type scope struct {
	joins  []string
	wheres []where
}

func (s scope) apply(db *gorm.DB) *gorm.DB {
	for _, j := range s.joins {
		db = db.Joins(j)
	}
	for _, w := range s.wheres {
		db = db.Where(w.sql, w.arg)
	}
	return db
}

// compileFilter resolves every active condition against the schema of model.
// Only paths accepted by known are filterable, so both backends reject the
// same fields. Path segments naming a relationship add a join to the related
// table; the remaining segments, joined by "_", must name a column of the last
// table reached, which covers embedded value objects (segment.size ->
// segment_size).
func compileFilter(db *gorm.DB, model any, known func(string) bool, conds []filter.Condition) (scope, error) {
	stmt := &gorm.Statement{DB: db}
	if err := stmt.Parse(model); err != nil {
		return scope{}, fmt.Errorf("%w: parse schema: %w", domain.ErrStorage, err)
	}
	var out scope
	seen := make(map[string]bool)
	for _, c := range conds {
		if !c.Active() {
			continue
		}
		if !known(c.Field) {
			return scope{}, fmt.Errorf("%w: %q", filter.ErrInvalidField, c.Field)
		}
		render, err := predicates.Resolve(c.Type)
		if err != nil {
			return scope{}, err
		}
		column, rels, err := resolvePath(stmt, c.Field)
		if err != nil {
			return scope{}, err
		}
		for _, rel := range rels {
			join, err := joinClause(stmt, rel)
			if err != nil {
				return scope{}, fmt.Errorf("%w: %q: %w", filter.ErrInvalidField, c.Field, err)
			}
			if !seen[join] {
				seen[join] = true
				out.joins = append(out.joins, join)
			}
		}
		sql, arg := render(column, c.Text())
		out.wheres = append(out.wheres, where{sql: sql, arg: arg})
	}
	return out, nil
}

func resolvePath(stmt *gorm.Statement, path string) (string, []*schema.Relationship, error) {
	segments := strings.Split(path, ".")
	current := stmt.Schema
	var rels []*schema.Relationship
	i := 0
	for ; i < len(segments)-1; i++ {
		rel := findRelation(stmt.DB, current, segments[i])
		if rel == nil {
			break
		}
		rels = append(rels, rel)
		current = rel.FieldSchema
	}
	field, ok := current.FieldsByDBName[strings.Join(segments[i:], "_")]
	if !ok || path == "" {
		return "", nil, fmt.Errorf("%w: %q", filter.ErrInvalidField, path)
	}
	return stmt.Quote(clause.Column{Table: current.Table, Name: field.DBName}), rels, nil
}

func findRelation(db *gorm.DB, s *schema.Schema, segment string) *schema.Relationship {
	for name, rel := range s.Relationships.Relations {
		if db.NamingStrategy.ColumnName("", name) == segment {
			return rel
		}
	}
	return nil
}

func joinClause(stmt *gorm.Statement, rel *schema.Relationship) (string, error) {
	if rel.JoinTable != nil || rel.Polymorphic != nil {
		return "", fmt.Errorf("relationship %s is not joinable", rel.Name)
	}
	on := make([]string, 0, len(rel.References))
	for _, ref := range rel.References {
		if ref.PrimaryKey == nil || ref.ForeignKey == nil {
			return "", fmt.Errorf("relationship %s has no key pair", rel.Name)
		}
		on = append(on, fmt.Sprintf("%s = %s",
			stmt.Quote(clause.Column{Table: ref.PrimaryKey.Schema.Table, Name: ref.PrimaryKey.DBName}),
			stmt.Quote(clause.Column{Table: ref.ForeignKey.Schema.Table, Name: ref.ForeignKey.DBName}),
		))
	}
	return fmt.Sprintf("LEFT JOIN %s ON %s", stmt.Quote(rel.FieldSchema.Table), strings.Join(on, " AND ")), nil
}
