package categories

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"inventory-backend/internal/infrastructure/database"
	"inventory-backend/internal/pkg/apperr"

	"gorm.io/gorm"
)

// Table names one taxonomy table and its id/value columns.
type Table struct {
	Name        string
	IDColumn    string
	ValueColumn string
}

// tables is the only source of identifiers interpolated into SQL.
var tables = map[string]Table{
	"hardware_type":      {Name: "hardware_type", IDColumn: "type_id", ValueColumn: "type_name"},
	"department":         {Name: "department", IDColumn: "id", ValueColumn: "name"},
	"building":           {Name: "building", IDColumn: "id", ValueColumn: "name"},
	"section":            {Name: "sections", IDColumn: "id", ValueColumn: "name"},
	"model":              {Name: "models", IDColumn: "id", ValueColumn: "name"},
	"vendor":             {Name: "vendors", IDColumn: "id", ValueColumn: "name"},
	"cadre":              {Name: "cadres", IDColumn: "id", ValueColumn: "name"},
	"disposition_status": {Name: "disposition_status", IDColumn: "id", ValueColumn: "name"},
	"operational_status": {Name: "operational_status", IDColumn: "id", ValueColumn: "name"},
}

// Names returns the accepted category identifiers, sorted.
func Names() []string {
	out := make([]string, 0, len(tables))
	for k := range tables {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// Lookup resolves a category identifier against the allow-list.
func Lookup(category string) (Table, error) {
	t, ok := tables[category]
	if !ok {
		return Table{}, apperr.Validation("Invalid category")
	}
	return t, nil
}

// Entry is one taxonomy value.
type Entry struct {
	ID    uint   `json:"id"`
	Value string `json:"value"`
}

type Service struct {
	DB *gorm.DB
}

func (s *Service) columns(t Table) (id, value string) {
	return database.Quote(s.DB, t.IDColumn), database.Quote(s.DB, t.ValueColumn)
}

// List returns all entries of a category ordered by value.
func (s *Service) List(ctx context.Context, category string) ([]Entry, error) {
	t, err := Lookup(category)
	if err != nil {
		return nil, err
	}
	idCol, valCol := s.columns(t)
	rows := []Entry{}
	err = s.DB.WithContext(ctx).
		Table(t.Name).
		Select(fmt.Sprintf("%s AS id, %s AS value", idCol, valCol)).
		Order(valCol + " ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, apperr.Storage("Database error", err)
	}
	if rows == nil {
		rows = []Entry{}
	}
	return rows, nil
}

// Add inserts value unless an entry with the same case-insensitive value exists.
func (s *Service) Add(ctx context.Context, category, value string) (*Entry, error) {
	t, err := Lookup(category)
	if err != nil {
		return nil, err
	}
	value = strings.TrimSpace(value)
	if value == "" {
		return nil, apperr.Validation("Value is required")
	}
	idCol, valCol := s.columns(t)

	var entry Entry
	err = database.Transaction(ctx, s.DB, func(tx *gorm.DB) error {
		var n int64
		if err := tx.Table(t.Name).Where(fmt.Sprintf("LOWER(%s) = LOWER(?)", valCol), value).Count(&n).Error; err != nil {
			return apperr.Storage("Database error", err)
		}
		if n > 0 {
			return apperr.Conflict("Category already exists")
		}
		if err := tx.Table(t.Name).Create(map[string]interface{}{t.ValueColumn: value}).Error; err != nil {
			return apperr.Storage("Database error", err)
		}
		err := tx.Table(t.Name).
			Select(fmt.Sprintf("%s AS id, %s AS value", idCol, valCol)).
			Where(valCol+" = ?", value).
			Order(idCol + " DESC").
			Limit(1).
			Scan(&entry).Error
		if err != nil {
			return apperr.Storage("Database error", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Delete removes one entry by id.
func (s *Service) Delete(ctx context.Context, category string, id uint) error {
	t, err := Lookup(category)
	if err != nil {
		return err
	}
	idCol, _ := s.columns(t)
	res := s.DB.WithContext(ctx).Exec(
		fmt.Sprintf("DELETE FROM %s WHERE %s = ?", database.Quote(s.DB, t.Name), idCol), id)
	if res.Error != nil {
		return apperr.Storage("Database error", res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("Category not found")
	}
	return nil
}
