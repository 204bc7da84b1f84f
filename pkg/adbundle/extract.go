package adbundle

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ukaji3/adbundle-go/pkg/adbundle/models"
	"github.com/ukaji3/adbundle-go/pkg/adbundle/parser"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

// SheetMatch is a workbook sheet whose name contained a marker.
type SheetMatch struct {
	Marker parser.SheetMarker
	Table  *models.Table
}

// Extract builds a data bundle from an Excel file.
func Extract(path string, opts Options) (*models.Bundle, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return extractWorkbook(f, filepath.Base(path), opts)
}

// ExtractReader builds a data bundle from an Excel workbook held in r.
// name is used as the bundle's book name.
func ExtractReader(r io.Reader, name string, opts Options) (*models.Bundle, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	defer f.Close()

	return extractWorkbook(f, name, opts)
}

func extractWorkbook(f *excelize.File, bookName string, opts Options) (*models.Bundle, error) {
	log := opts.logger().With(zap.String("book", bookName))

	matches, err := ExtractSheets(f, opts.Markers, opts.tableParams())
	if err != nil {
		return nil, err
	}

	bundle := &models.Bundle{BookName: bookName}
	for _, m := range matches {
		log.Debug("sheet extracted",
			zap.String("sheet", m.Table.SheetName),
			zap.String("alias", m.Marker.Alias),
			zap.Int("records", len(m.Table.Records)))
		bundle.Set(models.Section{Alias: m.Marker.Alias, Table: m.Table})

		if !m.Marker.Creative || !opts.ShouldAggregate() {
			continue
		}

		summary, rerr := parser.AggregateAccounts(m.Table, opts.Keywords, opts.ShouldIncludeVideoCounts())
		if rerr != nil {
			log.Warn("account summary skipped",
				zap.String("sheet", m.Table.SheetName),
				zap.Strings("unresolved", rerr.Unresolved))
			bundle.Set(models.Section{
				Alias: opts.SummaryAlias,
				Error: &models.SectionError{Message: rerr.Error(), Unresolved: rerr.Unresolved},
			})
			continue
		}

		log.Debug("account summary built",
			zap.String("sheet", m.Table.SheetName),
			zap.Int("accounts", len(summary.Rows)),
			zap.String("total_cost", summary.TotalCost().String()))
		bundle.Set(models.Section{Alias: opts.SummaryAlias, Summary: summary})
	}

	return bundle, nil
}

// ExtractSheets reads every sheet whose trimmed name contains a marker, in
// workbook order. Each sheet is matched against the first fitting marker
// only. It returns ErrNoTargetSheets when nothing matches.
func ExtractSheets(f *excelize.File, markers []parser.SheetMarker, params parser.TableDetectionParams) ([]SheetMatch, error) {
	var matches []SheetMatch
	for _, sheetName := range f.GetSheetList() {
		marker, ok := parser.MatchSheet(sheetName, markers)
		if !ok {
			continue
		}

		table, err := parser.ExtractTable(f, sheetName, params)
		if err != nil {
			return nil, NewExtractionError(sheetName, "cells", err)
		}
		matches = append(matches, SheetMatch{Marker: marker, Table: table})
	}

	if len(matches) == 0 {
		return nil, ErrNoTargetSheets
	}
	return matches, nil
}

// HasSummary reports whether the bundle carries a computed account summary.
func HasSummary(b *models.Bundle, opts Options) bool {
	sec, ok := b.Section(opts.SummaryAlias)
	return ok && sec.Summary != nil
}
