package store

import (
	"math"
	"strconv"
	"strings"

	"threat-tracker/internal/models"
	"threat-tracker/internal/risk"
)

// longest cell value quoted back in a RowError
const maxEchoedValue = 40

type columns struct {
	description, impact, likelihood, financial, frequency int
}

func resolveColumns(t *models.Table) (columns, error) {
	if missing := t.MissingColumns(); len(missing) > 0 {
		return columns{}, missingColumnError(missing)
	}
	return columns{
		description: t.ColumnIndex(models.ColDescription),
		impact:      t.ColumnIndex(models.ColImpact),
		likelihood:  t.ColumnIndex(models.ColLikelihood),
		financial:   t.ColumnIndex(models.ColFinancialImpact),
		frequency:   t.ColumnIndex(models.ColFrequency),
	}, nil
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

// parseInt accepts "3" as well as spreadsheet renderings such as "3.0".
func parseInt(s string) (int, bool) {
	if n, err := strconv.Atoi(s); err == nil {
		return n, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func parseMoney(s string) (float64, bool) {
	s = strings.NewReplacer("$", "", ",", "", " ", "").Replace(s)
	if s == "" {
		return 0, true
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func echo(value string) string {
	if r := []rune(value); len(r) > maxEchoedValue {
		return string(r[:maxEchoedValue]) + "..."
	}
	return value
}

// parseRow turns one raw row into a record without an ID. line is the
// source row number used in the returned errors. Only impact and
// likelihood can reject a row; unusable informational cells are set to 0
// and reported as warnings.
func parseRow(cols columns, row []string, line int) (models.ThreatRecord, *RowError, []RowError) {
	var warnings []RowError
	note := func(field, value, reason string) {
		warnings = append(warnings, RowError{Row: line, Field: field, Value: echo(value), Reason: reason})
	}
	fail := func(field, value, reason string) (models.ThreatRecord, *RowError, []RowError) {
		return models.ThreatRecord{}, &RowError{Row: line, Field: field, Value: echo(value), Reason: reason}, nil
	}

	impactRaw := cell(row, cols.impact)
	impact, ok := parseInt(impactRaw)
	if !ok {
		return fail(models.ColImpact, impactRaw, "not an integer")
	}
	if !risk.InScale(impact) {
		return fail(models.ColImpact, impactRaw, "out of range 1-5")
	}

	likelihoodRaw := cell(row, cols.likelihood)
	likelihood, ok := parseInt(likelihoodRaw)
	if !ok {
		return fail(models.ColLikelihood, likelihoodRaw, "not an integer")
	}
	if !risk.InScale(likelihood) {
		return fail(models.ColLikelihood, likelihoodRaw, "out of range 1-5")
	}

	frequencyRaw := cell(row, cols.frequency)
	frequency, ok := parseInt(frequencyRaw)
	switch {
	case frequencyRaw == "":
		note(models.ColFrequency, frequencyRaw, "missing, set to 0")
	case !ok:
		note(models.ColFrequency, frequencyRaw, "not an integer, set to 0")
	}

	financialRaw := cell(row, cols.financial)
	financial, ok := parseMoney(financialRaw)
	switch {
	case !ok:
		note(models.ColFinancialImpact, financialRaw, "not a number, set to 0")
	case financial < 0:
		financial = 0
		note(models.ColFinancialImpact, financialRaw, "negative amount, set to 0")
	}

	return models.ThreatRecord{
		Description:     cell(row, cols.description),
		Impact:          impact,
		Likelihood:      likelihood,
		Frequency:       frequency,
		FinancialImpact: financial,
		RiskScore:       risk.Score(impact, likelihood),
	}, nil, warnings
}

// sourceRow is the spreadsheet row number of data row i. Tables built
// without RowNumbers are assumed to have the header on row 1 and no gaps.
func sourceRow(t *models.Table, i int) int {
	if len(t.RowNumbers) == len(t.Rows) {
		return t.RowNumbers[i]
	}
	return i + 2
}
