package usecase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

// ExportWorkbook renders the owner's snapshot as a spreadsheet: one key/value
// sheet for the profile and one sheet per collection.
func (uc *snapshotUsecase) ExportWorkbook(ctx context.Context, ownerID string) ([]byte, string, error) {
	snap, err := uc.readSnapshot(ctx, ownerID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	f.SetSheetName("Sheet1", "Profile")
	if err := writeProfileSheet(f, snap.Profile, headerStyle); err != nil {
		return nil, "", err
	}

	for _, kind := range domain.SnapshotKinds {
		spec, _ := domain.SpecFor(kind)
		rows, err := collectionRows(snap, kind)
		if err != nil {
			return nil, "", err
		}
		columns := append([]string{"id"}, spec.Fields...)
		if kind == domain.KindSkill {
			columns = append(columns, "related_projects", "related_certifications", "related_trainings")
		}
		if err := writeCollectionSheet(f, sheetTitle(spec.Collection), columns, rows, headerStyle); err != nil {
			return nil, "", err
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	uc.recordExport(ctx, ownerID, "xlsx", snap)
	filename := fmt.Sprintf("portfolio_%s.xlsx", snap.ExportedAt.Format("20060102_150405"))
	return buf.Bytes(), filename, nil
}

func writeProfileSheet(f *excelize.File, profile *domain.Profile, style int) error {
	const sheet = "Profile"
	f.SetCellValue(sheet, "A1", "FIELD")
	f.SetCellValue(sheet, "B1", "VALUE")
	f.SetCellStyle(sheet, "A1", "B1", style)
	f.SetColWidth(sheet, "A", "A", 24)
	f.SetColWidth(sheet, "B", "B", 60)

	if profile == nil {
		return nil
	}
	values, err := toRecord(profile)
	if err != nil {
		return err
	}
	for i, field := range domain.ProfileFields {
		f.SetCellValue(sheet, fmt.Sprintf("A%d", i+2), field)
		f.SetCellValue(sheet, fmt.Sprintf("B%d", i+2), cellValue(values[field]))
	}
	return nil
}

func writeCollectionSheet(f *excelize.File, sheet string, columns []string, rows []domain.Record, style int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %s: %w", sheet, err)
	}

	for i, col := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(sheet, cell, strings.ToUpper(strings.ReplaceAll(col, "_", " ")))
	}
	endCell, _ := excelize.CoordinatesToCellName(len(columns), 1)
	f.SetCellStyle(sheet, "A1", endCell, style)

	for rowIdx, row := range rows {
		for colIdx, col := range columns {
			cell, _ := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			f.SetCellValue(sheet, cell, cellValue(row[col]))
		}
	}

	for i := range columns {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		f.SetColWidth(sheet, colName, colName, 20)
	}
	return nil
}

func collectionRows(snap *domain.PortfolioSnapshot, kind domain.ContentKind) ([]domain.Record, error) {
	var items any
	switch kind {
	case domain.KindProject:
		items = snap.Projects
	case domain.KindSkill:
		items = snap.Skills
	case domain.KindDiploma:
		items = snap.Diplomas
	case domain.KindCertification:
		items = snap.Certifications
	case domain.KindExperience:
		items = snap.Experiences
	case domain.KindTraining:
		items = snap.Trainings
	}
	raw, err := json.Marshal(items)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", kind, err)
	}
	var rows []domain.Record
	if err := json.Unmarshal(raw, &rows); err != nil {
		return nil, fmt.Errorf("decode %s: %w", kind, err)
	}
	return rows, nil
}

func toRecord(v any) (domain.Record, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var rec domain.Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return nil, err
	}
	return rec, nil
}

func cellValue(v any) any {
	switch t := v.(type) {
	case nil:
		return ""
	case []any:
		parts := make([]string, 0, len(t))
		for _, p := range t {
			parts = append(parts, fmt.Sprint(p))
		}
		return strings.Join(parts, ", ")
	}
	return v
}

func sheetTitle(collection string) string {
	return strings.ToUpper(collection[:1]) + collection[1:]
}
