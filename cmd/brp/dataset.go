package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
)

type datasetRecord struct {
	Raw       string    `json:"raw"`
	Embedding []float64 `json:"embedding"`
}

func loadDatasetFile(path string) ([]datasetRecord, error) {
	body, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var records []datasetRecord
	if err := json.Unmarshal(body, &records); err != nil {
		return nil, fmt.Errorf("invalid dataset JSON: %w", err)
	}
	return records, nil
}

func parseK(s string) (int, error) {
	k, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid k %q: %w", s, err)
	}
	return k, nil
}
