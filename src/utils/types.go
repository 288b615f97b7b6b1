package utils

import (
	"database/sql/driver"
	"strings"

	"github.com/lib/pq"
	"gorm.io/gorm"
	"gorm.io/gorm/schema"
)

// StringList is a string slice stored as a native text[] on Postgres and as
// its array literal text elsewhere.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	return pq.StringArray(l).Value()
}

func (l *StringList) Scan(src interface{}) error {
	var arr pq.StringArray
	if err := arr.Scan(src); err != nil {
		return err
	}
	*l = StringList(arr)
	return nil
}

func (StringList) GormDataType() string {
	return "text"
}

func (StringList) GormDBDataType(db *gorm.DB, _ *schema.Field) string {
	if db.Dialector.Name() == "postgres" {
		return "text[]"
	}
	return "text"
}

// Contains reports whether v is in the list, ignoring case.
func (l StringList) Contains(v string) bool {
	for _, s := range l {
		if strings.EqualFold(s, v) {
			return true
		}
	}
	return false
}

// CleanStringList trims entries and drops blanks and case-insensitive duplicates.
func CleanStringList(in []string) StringList {
	out := make(StringList, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" || out.Contains(s) {
			continue
		}
		out = append(out, s)
	}
	return out
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

// WhereArrayContains filters rows whose StringList column holds an element
// equal to value, ignoring case. SQLite stores the quoted array literal, so
// the element is matched between its delimiters.
func WhereArrayContains(db *gorm.DB, column, value string) *gorm.DB {
	if db.Dialector.Name() == "postgres" {
		return db.Where("EXISTS (SELECT 1 FROM unnest("+column+") AS elem WHERE lower(elem) = lower(?))", value)
	}

	literal, _ := pq.StringArray{value}.Value()
	token := strings.TrimSuffix(strings.TrimPrefix(literal.(string), "{"), "}")
	token = likeEscaper.Replace(strings.ToLower(token))

	clause := "LOWER(" + column + ") LIKE ? ESCAPE '!'"
	return db.Where("("+strings.Join([]string{clause, clause, clause, clause}, " OR ")+")",
		"{"+token+"}", "{"+token+",%", "%,"+token+",%", "%,"+token+"}")
}

// WhereKeyword adds a case-insensitive match of keyword against any of columns.
func WhereKeyword(db *gorm.DB, keyword string, columns ...string) *gorm.DB {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" || len(columns) == 0 {
		return db
	}
	pattern := "%" + strings.ToLower(keyword) + "%"
	clauses := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	for _, col := range columns {
		clauses = append(clauses, "LOWER("+col+") LIKE ?")
		args = append(args, pattern)
	}
	return db.Where("("+strings.Join(clauses, " OR ")+")", args...)
}
