package services

// SQL for seeding and reading back rows. Append statements return the new
// id; skip-existing statements return (id, inserted) and reuse the oldest row
// whose natural key matches. Parameters carry explicit casts so the same
// placeholder can appear in both the lookup and the insert.

const (
	insertPublisher = `
		INSERT INTO publishers (name)
		VALUES ($1)
		RETURNING publisher_id
	`

	upsertPublisher = `
		WITH existing AS (
			SELECT publisher_id FROM publishers
			WHERE name = $1::varchar
			ORDER BY publisher_id
			LIMIT 1
		), inserted AS (
			INSERT INTO publishers (name)
			SELECT $1::varchar
			WHERE NOT EXISTS (SELECT 1 FROM existing)
			RETURNING publisher_id
		)
		SELECT publisher_id, true FROM inserted
		UNION ALL
		SELECT publisher_id, false FROM existing
	`

	insertAuthor = `
		INSERT INTO authors (first_name, middle_name, last_name)
		VALUES ($1, $2, $3)
		RETURNING author_id
	`

	upsertAuthor = `
		WITH existing AS (
			SELECT author_id FROM authors
			WHERE first_name = $1::varchar
			  AND middle_name IS NOT DISTINCT FROM $2::varchar
			  AND last_name IS NOT DISTINCT FROM $3::varchar
			ORDER BY author_id
			LIMIT 1
		), inserted AS (
			INSERT INTO authors (first_name, middle_name, last_name)
			SELECT $1::varchar, $2::varchar, $3::varchar
			WHERE NOT EXISTS (SELECT 1 FROM existing)
			RETURNING author_id
		)
		SELECT author_id, true FROM inserted
		UNION ALL
		SELECT author_id, false FROM existing
	`

	insertBook = `
		INSERT INTO books (title, total_pages, rating, isbn, published_date, publisher_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING book_id
	`

	// Books are keyed by title and isbn together: two titles in the default
	// dataset share an isbn.
	upsertBook = `
		WITH existing AS (
			SELECT book_id FROM books
			WHERE title = $1::varchar
			  AND isbn IS NOT DISTINCT FROM $4::varchar
			ORDER BY book_id
			LIMIT 1
		), inserted AS (
			INSERT INTO books (title, total_pages, rating, isbn, published_date, publisher_id)
			SELECT $1::varchar, $2::integer, $3::numeric, $4::varchar, $5::date, $6::integer
			WHERE NOT EXISTS (SELECT 1 FROM existing)
			RETURNING book_id
		)
		SELECT book_id, true FROM inserted
		UNION ALL
		SELECT book_id, false FROM existing
	`

	insertBookAuthor = `
		INSERT INTO book_authors (book_id, author_id)
		VALUES ($1, $2)
	`

	upsertBookAuthor = `
		INSERT INTO book_authors (book_id, author_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`

	// queryReadTable takes a sanitized table identifier.
	queryReadTable = `SELECT * FROM %s ORDER BY 1`
)
