// Package jobs loads the job-posting corpus served by the matcher. The
// corpus is read once at startup and is read-only afterwards.
package jobs

import (
	"encoding/csv"
	"fmt"
	"os"
	"strings"

	"github.com/mitchellh/mapstructure"
)

type Postings struct {
	Items []*Posting
}

type Posting struct {
	ID          string `csv:"id" json:"id"`
	Title       string `csv:"title" json:"title"`
	Description string `csv:"description" json:"description"`
	Skills      string `csv:"skills" json:"skills"`
	Salary      string `csv:"salary" json:"salary"`
	Modality    string `csv:"modality" json:"modality"`
	Location    string `csv:"location" json:"location"`
}

// SearchText is the text the posting contributes to the vector space:
// title, description and required skills, lower-cased.
func (p *Posting) SearchText() string {
	return strings.ToLower(strings.Join([]string{p.Title, p.Description, p.Skills}, " "))
}

func (p *Postings) Len() int {
	return len(p.Items)
}

func (p *Postings) FindByID(id string) *Posting {
	for _, posting := range p.Items {
		if posting.ID == id {
			return posting
		}
	}
	return nil
}

// LoadCSV reads the posting corpus from a CSV file with a header row. The
// header names map to Posting fields via the csv tags; unknown columns are
// ignored.
func LoadCSV(path string) (*Postings, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open corpus file: %w", err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.TrimLeadingSpace = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse corpus file %q: %w", path, err)
	}

	if len(records) == 0 {
		return &Postings{}, nil
	}

	header := records[0]
	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, name := range header {
			if i < len(record) {
				row[strings.TrimSpace(strings.ToLower(name))] = record[i]
			}
		}
		rows = append(rows, row)
	}

	var postings []*Posting
	cfg := &mapstructure.DecoderConfig{
		Result:  &postings,
		TagName: "csv",
	}
	decoder, err := mapstructure.NewDecoder(cfg)
	if err != nil {
		return nil, fmt.Errorf("build corpus decoder: %w", err)
	}
	if err := decoder.Decode(rows); err != nil {
		return nil, fmt.Errorf("decode corpus rows: %w", err)
	}

	for i, posting := range postings {
		if posting.ID == "" {
			return nil, fmt.Errorf("corpus row %d has no id", i+1)
		}
	}

	return &Postings{Items: postings}, nil
}
