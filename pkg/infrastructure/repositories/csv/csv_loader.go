package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/kamilarndt/fabmanage/pkg/domain/entities"
)

// Loader handles loading workshop seed data from CSV files
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

// LoadMaterials loads the material catalog from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, fmt.Errorf("materials CSV: %w", err)
	}

	expectedHeader := []string{"id", "name", "unit", "stock", "price"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("materials CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var materials []*entities.Material
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("materials CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		material, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		materials = append(materials, material)
	}

	return materials, nil
}

// LoadTiles loads an initial tile collection from a CSV file
func (l *Loader) LoadTiles(filename string) ([]*entities.Tile, error) {
	records, err := readAll(filename)
	if err != nil {
		return nil, fmt.Errorf("tiles CSV: %w", err)
	}

	expectedHeader := []string{"id", "name", "project", "status", "zone", "priority"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("tiles CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var tiles []*entities.Tile
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("tiles CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}

		tile, err := parseTile(record)
		if err != nil {
			return nil, fmt.Errorf("tiles CSV row %d: %w", i+2, err)
		}
		tiles = append(tiles, tile)
	}

	return tiles, nil
}

func readAll(filename string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filename, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s must have header and at least one data row", filename)
	}
	return records, nil
}

func parseMaterial(record []string) (*entities.Material, error) {
	stock, err := decimal.NewFromString(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, fmt.Errorf("invalid stock %q: %w", record[3], err)
	}
	price, err := decimal.NewFromString(strings.TrimSpace(record[4]))
	if err != nil {
		return nil, fmt.Errorf("invalid price %q: %w", record[4], err)
	}
	return entities.NewMaterial(
		strings.TrimSpace(record[0]),
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		stock, price)
}

func parseTile(record []string) (*entities.Tile, error) {
	stage, err := entities.ParseStatus(strings.TrimSpace(record[3]))
	if err != nil {
		return nil, err
	}
	tile, err := entities.NewTile(
		strings.TrimSpace(record[0]),
		strings.TrimSpace(record[1]),
		strings.TrimSpace(record[2]),
		stage)
	if err != nil {
		return nil, err
	}
	tile.Zone = strings.TrimSpace(record[4])
	if p := strings.TrimSpace(record[5]); p != "" {
		priority, err := entities.ParsePriority(p)
		if err != nil {
			return nil, err
		}
		tile.Priority = priority
	}
	return tile, nil
}

func validateHeader(header, expected []string) bool {
	if len(header) != len(expected) {
		return false
	}
	for i, col := range header {
		if strings.TrimSpace(col) != expected[i] {
			return false
		}
	}
	return true
}
