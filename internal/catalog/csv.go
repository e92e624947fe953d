package catalog

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/culinaryai/culinaryai/pkg/models"
)

// LoadCSV reads a meal dataset file into normalized records. The expected
// header is id, name, description, region, meal_type, tags, ingredients,
// suitable_for, calories. List-valued columns hold comma-delimited cell text;
// splitting them here is the normalization boundary, so records handed to the
// store always carry materialized slices.
func LoadCSV(path string) ([]models.MealRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open dataset: %w", err)
	}
	defer f.Close()

	return ReadCSV(f)
}

// ReadCSV parses meal records from CSV data with a header row.
func ReadCSV(r io.Reader) ([]models.MealRecord, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"id", "name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%w: dataset missing %q column", ErrMalformedRecord, required)
		}
	}

	var records []models.MealRecord
	for {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read dataset row: %w", err)
		}

		cell := func(name string) string {
			i, ok := cols[name]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		records = append(records, models.MealRecord{
			ID:          cell("id"),
			Name:        cell("name"),
			Description: cell("description"),
			Region:      cell("region"),
			MealType:    cell("meal_type"),
			Tags:        splitList(cell("tags")),
			Ingredients: splitList(cell("ingredients")),
			SuitableFor: splitList(cell("suitable_for")),
			Calories:    cell("calories"),
		})
	}

	return records, nil
}

// splitList materializes a comma-delimited cell into a slice, preserving
// insertion order and dropping empty entries.
func splitList(cell string) []string {
	if cell == "" {
		return nil
	}
	parts := strings.Split(cell, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
