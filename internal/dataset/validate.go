package dataset

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// Validate checks every row against the schema's column limits and every
// positional reference against the list it points into. All problems are
// reported together; the returned error wraps bookseed.ErrInvalidDataset.
func (d *Dataset) Validate() error {
	var errs []error
	add := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	for i, p := range d.Publishers {
		n := i + 1
		if strings.TrimSpace(p.Name) == "" {
			add("publisher #%d: name is required", n)
		}
		if utf8.RuneCountInString(p.Name) > bookseed.MaxPublisherNameLen {
			add("publisher #%d: name longer than %d characters", n, bookseed.MaxPublisherNameLen)
		}
	}

	for i, a := range d.Authors {
		n := i + 1
		if strings.TrimSpace(a.FirstName) == "" {
			add("author #%d: first_name is required", n)
		}
		if utf8.RuneCountInString(a.FirstName) > bookseed.MaxFirstNameLen {
			add("author #%d: first_name longer than %d characters", n, bookseed.MaxFirstNameLen)
		}
		if a.MiddleName != nil && utf8.RuneCountInString(*a.MiddleName) > bookseed.MaxMiddleNameLen {
			add("author #%d: middle_name longer than %d characters", n, bookseed.MaxMiddleNameLen)
		}
		if a.LastName != nil && utf8.RuneCountInString(*a.LastName) > bookseed.MaxLastNameLen {
			add("author #%d: last_name longer than %d characters", n, bookseed.MaxLastNameLen)
		}
	}

	for i, b := range d.Books {
		n := i + 1
		if strings.TrimSpace(b.Title) == "" {
			add("book #%d: title is required", n)
		}
		if utf8.RuneCountInString(b.Title) > bookseed.MaxTitleLen {
			add("book #%d: title longer than %d characters", n, bookseed.MaxTitleLen)
		}
		if b.TotalPages != nil && *b.TotalPages < 0 {
			add("book #%d: total_pages must not be negative", n)
		}
		if b.Rating != nil && (math.IsNaN(*b.Rating) || math.Abs(*b.Rating) >= bookseed.MaxRating) {
			add("book #%d: rating %v does not fit DECIMAL(4,2)", n, *b.Rating)
		}
		if b.ISBN != nil && len(*b.ISBN) > bookseed.MaxISBNLen {
			add("book #%d: isbn longer than %d characters", n, bookseed.MaxISBNLen)
		}
		if _, err := b.Date(); err != nil {
			add("book #%d: published_date %q is not YYYY-MM-DD", n, b.PublishedDate)
		}
		if b.Publisher != nil && !inRange(*b.Publisher, len(d.Publishers)) {
			add("book #%d: publisher #%d does not exist", n, *b.Publisher)
		}
	}

	seen := make(map[LinkRecord]int, len(d.BookAuthors))
	for i, l := range d.BookAuthors {
		n := i + 1
		if !inRange(l.Book, len(d.Books)) {
			add("book_authors #%d: book #%d does not exist", n, l.Book)
		}
		if !inRange(l.Author, len(d.Authors)) {
			add("book_authors #%d: author #%d does not exist", n, l.Author)
		}
		if first, dup := seen[l]; dup {
			add("book_authors #%d: duplicates entry #%d", n, first)
			continue
		}
		seen[l] = n
	}

	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w:\n%w", bookseed.ErrInvalidDataset, errors.Join(errs...))
}

func inRange(pos, length int) bool {
	return pos >= 1 && pos <= length
}
