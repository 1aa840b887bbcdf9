package taxonomy

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"shelver/internal/services"
)

type fileFormat struct {
	Categories []Category        `toml:"categories"`
	Folders    []folderRuleFile  `toml:"folder_rules"`
	Keywords   []keywordRuleFile `toml:"keyword_rules"`
}

type folderRuleFile struct {
	Folder   string `toml:"folder"`
	Category string `toml:"category"`
	SubGenre string `toml:"sub_genre"`
}

type keywordRuleFile struct {
	Category string   `toml:"category"`
	SubGenre string   `toml:"sub_genre"`
	Keywords []string `toml:"keywords"`
}

// Load returns the built-in taxonomy when path is empty and otherwise parses
// the TOML taxonomy file at path.
func Load(path string) (*Taxonomy, error) {
	if path == "" {
		return Builtin(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "taxonomy", "read file", path, err)
	}
	return Parse(data)
}

// Parse decodes a TOML taxonomy document:
//
//	[[categories]]
//	name = "Fiction"
//	[[categories.sub_genres]]
//	name = "Fantasy"
//	aliases = ["fantasy", "epic fantasy"]
//
//	[[folder_rules]]
//	folder = "sci-fi"
//	category = "Fiction"
//	sub_genre = "Science Fiction"
//
//	[[keyword_rules]]
//	category = "Fiction"
//	sub_genre = "Fantasy"
//	keywords = ["dark lord"]
//
// Rules that reference placements missing from the declared categories are
// rejected.
func Parse(data []byte) (*Taxonomy, error) {
	var doc fileFormat
	decoder := toml.NewDecoder(bytes.NewReader(data)).DisallowUnknownFields()
	if err := decoder.Decode(&doc); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "taxonomy", "parse file", "", err)
	}
	if len(doc.Categories) == 0 {
		return nil, services.Wrap(services.ErrConfiguration, "taxonomy", "parse file", "no categories declared", nil)
	}
	folders := make([]FolderRule, 0, len(doc.Folders))
	for _, rule := range doc.Folders {
		folders = append(folders, FolderRule{Folder: rule.Folder, Placement: at(rule.Category, rule.SubGenre)})
	}
	keywords := make([]KeywordRule, 0, len(doc.Keywords))
	for _, rule := range doc.Keywords {
		keywords = append(keywords, KeywordRule{Placement: at(rule.Category, rule.SubGenre), Keywords: rule.Keywords})
	}
	tax, err := New(doc.Categories, WithFolderRules(folders...), WithKeywordRules(keywords...))
	if err != nil {
		return nil, fmt.Errorf("load taxonomy: %w", err)
	}
	return tax, nil
}
