package services

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/vvka-141/bookseed/internal/dataset"
	"github.com/vvka-141/bookseed/pkg/bookseed"
)

// Populate inserts ds into tables that already exist. Each group
// (publishers, authors, books, book_authors) runs in its own transaction in
// that order, so a failing group rolls back only itself and stops the run.
//
// The returned report is never nil and lists the committed groups.
func Populate(
	ctx context.Context,
	conn bookseed.DBConnection,
	ds *dataset.Dataset,
	mode bookseed.SeedMode,
	logger bookseed.Logger,
) (*bookseed.SeedReport, error) {
	p := &populator{conn: conn, mode: mode, logger: logger}
	report := &bookseed.SeedReport{Mode: mode}

	publisherIDs := make([]int64, len(ds.Publishers))
	err := p.group(ctx, report, bookseed.TablePublishers, func(tx pgx.Tx, res *bookseed.GroupResult) error {
		for i, rec := range ds.Publishers {
			row := rec.Publisher()
			id, inserted, err := p.returning(ctx, tx, insertPublisher, upsertPublisher, row.Name)
			if err != nil {
				return fmt.Errorf("publisher #%d %q: %w", i+1, row.Name, err)
			}
			publisherIDs[i] = id
			res.Count(inserted)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	authorIDs := make([]int64, len(ds.Authors))
	err = p.group(ctx, report, bookseed.TableAuthors, func(tx pgx.Tx, res *bookseed.GroupResult) error {
		for i, rec := range ds.Authors {
			row := rec.Author()
			id, inserted, err := p.returning(ctx, tx, insertAuthor, upsertAuthor,
				row.FirstName, row.MiddleName, row.LastName)
			if err != nil {
				return fmt.Errorf("author #%d %q: %w", i+1, row.FullName(), err)
			}
			authorIDs[i] = id
			res.Count(inserted)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	bookIDs := make([]int64, len(ds.Books))
	err = p.group(ctx, report, bookseed.TableBooks, func(tx pgx.Tx, res *bookseed.GroupResult) error {
		for i, rec := range ds.Books {
			var publisherID *int64
			if rec.Publisher != nil {
				publisherID = &publisherIDs[*rec.Publisher-1]
			}
			row, err := rec.Book(publisherID)
			if err != nil {
				return fmt.Errorf("book #%d %q: %w", i+1, rec.Title, err)
			}

			id, inserted, err := p.returning(ctx, tx, insertBook, upsertBook,
				row.Title, row.TotalPages, row.Rating, row.ISBN, row.PublishedDate, row.PublisherID)
			if err != nil {
				return fmt.Errorf("book #%d %q: %w", i+1, rec.Title, err)
			}
			bookIDs[i] = id
			res.Count(inserted)
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	err = p.group(ctx, report, bookseed.TableBookAuthors, func(tx pgx.Tx, res *bookseed.GroupResult) error {
		sql := insertBookAuthor
		if mode == bookseed.SeedModeSkipExisting {
			sql = upsertBookAuthor
		}
		for i, rec := range ds.BookAuthors {
			link := bookseed.BookAuthor{BookID: bookIDs[rec.Book-1], AuthorID: authorIDs[rec.Author-1]}
			tag, err := tx.Exec(ctx, sql, link.BookID, link.AuthorID)
			if err != nil {
				return fmt.Errorf("book_authors #%d (book #%d, author #%d): %w", i+1, rec.Book, rec.Author, err)
			}
			res.Count(tag.RowsAffected() > 0)
		}
		return nil
	})
	return report, err
}

type populator struct {
	conn   bookseed.DBConnection
	mode   bookseed.SeedMode
	logger bookseed.Logger
}

// group runs fn in a transaction and records the result once committed.
func (p *populator) group(
	ctx context.Context,
	report *bookseed.SeedReport,
	table string,
	fn func(tx pgx.Tx, res *bookseed.GroupResult) error,
) error {
	res := bookseed.GroupResult{Table: table}
	err := pgx.BeginFunc(ctx, p.conn, func(tx pgx.Tx) error {
		return fn(tx, &res)
	})
	if err != nil {
		return fmt.Errorf("%w: %s: %w", bookseed.ErrSeedFailed, table, err)
	}

	report.Groups = append(report.Groups, res)
	if res.Reused > 0 {
		p.logger.Info("✓ %s: %d inserted, %d already present", table, res.Inserted, res.Reused)
	} else {
		p.logger.Info("✓ %s: %d inserted", table, res.Inserted)
	}
	return nil
}

// returning runs the append or skip-existing statement for one row and
// returns its id and whether a new row was written.
func (p *populator) returning(ctx context.Context, q bookseed.DBConnection, appendSQL, skipSQL string, args ...any) (int64, bool, error) {
	var id int64
	if p.mode == bookseed.SeedModeSkipExisting {
		var inserted bool
		err := q.QueryRow(ctx, skipSQL, args...).Scan(&id, &inserted)
		return id, inserted, err
	}
	err := q.QueryRow(ctx, appendSQL, args...).Scan(&id)
	return id, true, err
}
