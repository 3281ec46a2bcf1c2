package dataset

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/vvka-141/bookseed/pkg/bookseed"
)

//go:embed books.yaml
var defaultYAML []byte

// Dataset is the full set of rows for one seed run.
type Dataset struct {
	Publishers  []PublisherRecord `yaml:"publishers"`
	Authors     []AuthorRecord    `yaml:"authors"`
	Books       []BookRecord      `yaml:"books"`
	BookAuthors []LinkRecord      `yaml:"book_authors"`
}

type PublisherRecord struct {
	Name string `yaml:"name"`
}

type AuthorRecord struct {
	FirstName  string  `yaml:"first_name"`
	MiddleName *string `yaml:"middle_name,omitempty"`
	LastName   *string `yaml:"last_name,omitempty"`
}

type BookRecord struct {
	Title         string   `yaml:"title"`
	TotalPages    *int32   `yaml:"total_pages,omitempty"`
	Rating        *float64 `yaml:"rating,omitempty"`
	ISBN          *string  `yaml:"isbn,omitempty"`
	PublishedDate string   `yaml:"published_date,omitempty"`

	// Publisher is the 1-based position in Dataset.Publishers, or nil.
	Publisher *int `yaml:"publisher,omitempty"`
}

// LinkRecord joins the Book-th book with the Author-th author (both 1-based).
type LinkRecord struct {
	Book   int `yaml:"book"`
	Author int `yaml:"author"`
}

// Default returns a fresh copy of the embedded dataset.
func Default() (*Dataset, error) {
	ds, err := Parse(defaultYAML)
	if err != nil {
		return nil, fmt.Errorf("embedded dataset: %w", err)
	}
	return ds, nil
}

// Load reads and validates a dataset file. An empty path selects the default dataset.
func Load(path string) (*Dataset, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", bookseed.ErrInvalidDataset, path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes and validates a YAML dataset. Unknown keys are rejected.
func Parse(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := yamlUnmarshalStrict(data, &ds); err != nil {
		return nil, fmt.Errorf("%w: %w", bookseed.ErrInvalidDataset, err)
	}
	if err := ds.Validate(); err != nil {
		return nil, err
	}
	return &ds, nil
}

// Counts returns the row count per table, keyed by table name.
func (d *Dataset) Counts() map[string]int {
	return map[string]int{
		bookseed.TablePublishers:  len(d.Publishers),
		bookseed.TableAuthors:     len(d.Authors),
		bookseed.TableBooks:       len(d.Books),
		bookseed.TableBookAuthors: len(d.BookAuthors),
	}
}

// Date parses PublishedDate. An empty date yields nil.
func (b BookRecord) Date() (*time.Time, error) {
	if b.PublishedDate == "" {
		return nil, nil
	}
	d, err := time.Parse(bookseed.DateLayout, b.PublishedDate)
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// Publisher converts the record to its table row (without an id).
func (p PublisherRecord) Publisher() bookseed.Publisher {
	return bookseed.Publisher{Name: p.Name}
}

// Book converts the record to its table row. publisherID is the database id
// the Publisher position resolved to, or nil.
func (b BookRecord) Book(publisherID *int64) (bookseed.Book, error) {
	published, err := b.Date()
	if err != nil {
		return bookseed.Book{}, err
	}
	return bookseed.Book{
		Title:         b.Title,
		TotalPages:    b.TotalPages,
		Rating:        b.Rating,
		ISBN:          b.ISBN,
		PublishedDate: published,
		PublisherID:   publisherID,
	}, nil
}

// Author converts the record to its table row (without an id).
func (a AuthorRecord) Author() bookseed.Author {
	return bookseed.Author{
		FirstName:  a.FirstName,
		MiddleName: a.MiddleName,
		LastName:   a.LastName,
	}
}

func yamlUnmarshalStrict(data []byte, out any) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	return dec.Decode(out)
}
