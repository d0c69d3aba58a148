package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/danipagano/digital-collections-monitor/internal/domain"
)

// DefaultTargets returns the built-in digital archive collections.
func DefaultTargets() []domain.Target {
	return []domain.Target{
		{Name: "Library of Congress Digital Collections", URL: "https://www.loc.gov/collections/"},
		{Name: "Digital Public Library of America", URL: "https://dp.la/"},
		{Name: "Internet Archive", URL: "https://archive.org/"},
		{Name: "HathiTrust Digital Library", URL: "https://www.hathitrust.org/"},
		{Name: "Europeana", URL: "https://www.europeana.eu/"},
		{Name: "World Digital Library", URL: "https://www.wdl.org/"},
		{Name: "National Archives Catalog", URL: "https://catalog.archives.gov/"},
		{Name: "Smithsonian Open Access", URL: "https://www.si.edu/openaccess"},
		{Name: "Getty Research Institute", URL: "https://www.getty.edu/research/"},
		{Name: "DPLA - Digital Public Library of America", URL: "https://pro.dp.la/"},
		{Name: "Perseus Digital Library", URL: "http://www.perseus.tufts.edu/"},
		{Name: "Google Arts & Culture", URL: "https://artsandculture.google.com/"},
		{Name: "Metropolitan Museum API", URL: "https://metmuseum.github.io/"},
		{Name: "Biodiversity Heritage Library", URL: "https://www.biodiversitylibrary.org/"},
		{Name: "David Rumsey Map Collection", URL: "https://www.davidrumsey.com/"},
	}
}

type targetsFile struct {
	Collections []domain.Target `yaml:"collections"`
}

// LoadTargets reads a YAML collections file. An empty path falls back to
// the built-in list.
func LoadTargets(path string) ([]domain.Target, error) {
	if path == "" {
		return DefaultTargets(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read targets file: %w", err)
	}

	var tf targetsFile
	if err := yaml.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("parse targets file: %w", err)
	}
	if len(tf.Collections) == 0 {
		return nil, fmt.Errorf("targets file %s defines no collections", path)
	}

	seen := make(map[string]struct{}, len(tf.Collections))
	for _, t := range tf.Collections {
		if t.Name == "" || t.URL == "" {
			return nil, fmt.Errorf("targets file %s: every collection needs a name and a url", path)
		}
		if _, dup := seen[t.Name]; dup {
			return nil, fmt.Errorf("targets file %s: duplicate collection name %q", path, t.Name)
		}
		seen[t.Name] = struct{}{}
	}
	return tf.Collections, nil
}
