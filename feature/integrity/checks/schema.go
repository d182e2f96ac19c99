package checks

import (
	"fmt"
	"reflect"
	"strings"

	"craft-catalog/core/database"
	"craft-catalog/feature/catalog/export"

	"gorm.io/gorm"
)

// SchemaReport is the result of comparing the export tables with the export models.
type SchemaReport struct {
	Matched bool                   `json:"matched"`
	Tables  map[string]TableReport `json:"tables"`
	Errors  []string               `json:"errors"`
}

// TableReport is the result for one table.
type TableReport struct {
	MissingColumns []string `json:"missing_columns"`
	TypeMismatches []string `json:"type_mismatches"`
	Status         string   `json:"status"` // "ok", "missing", "error"
}

// ExportModels are the models whose tables the export writes.
var ExportModels = []any{export.CatalogItem{}, export.CatalogCraft{}}

// CheckExportSchema verifies the export tables using the GORM models as the source of truth.
// Only columns and explicit "type:" tags are compared.
func CheckExportSchema(db *gorm.DB) (*SchemaReport, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is nil")
	}

	report := &SchemaReport{
		Matched: true,
		Tables:  make(map[string]TableReport),
		Errors:  []string{},
	}

	for _, model := range ExportModels {
		typ := reflect.TypeOf(model)
		tabler, ok := model.(interface{ TableName() string })
		if !ok {
			return nil, fmt.Errorf("model %s does not implement TableName", typ.Name())
		}
		tableName := tabler.TableName()

		actualCols, err := database.GetTableColumns(db, tableName)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("Failed to inspect table %s: %v", tableName, err))
			report.Matched = false
			continue
		}

		tbl := TableReport{MissingColumns: []string{}, TypeMismatches: []string{}, Status: "ok"}
		if len(actualCols) == 0 {
			tbl.Status = "missing"
			report.Matched = false
			report.Tables[tableName] = tbl
			continue
		}

		actual := make(map[string]database.ColumnInfo, len(actualCols))
		for _, col := range actualCols {
			actual[col.Field] = col
		}

		for i := 0; i < typ.NumField(); i++ {
			tag := typ.Field(i).Tag.Get("gorm")
			colName := gormTagValue(tag, "column")
			if colName == "" {
				continue
			}

			col, exists := actual[colName]
			if !exists {
				tbl.MissingColumns = append(tbl.MissingColumns, colName)
				tbl.Status = "error"
				report.Matched = false
				continue
			}

			expType := strings.ToLower(gormTagValue(tag, "type"))
			if expType != "" && !strings.Contains(col.Type, expType) {
				tbl.TypeMismatches = append(tbl.TypeMismatches,
					fmt.Sprintf("%s: expected %s, got %s", colName, expType, col.Type))
				tbl.Status = "error"
				report.Matched = false
			}
		}

		report.Tables[tableName] = tbl
	}

	return report, nil
}

// gormTagValue returns the value of key in a tag like "column:name;size:255".
func gormTagValue(tag, key string) string {
	for _, part := range strings.Split(tag, ";") {
		if v, ok := strings.CutPrefix(part, key+":"); ok {
			return v
		}
	}
	return ""
}
