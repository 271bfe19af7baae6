package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"

	"github.com/hoanghai1803/newsclip/internal/models"
)

// ArticleRow is an archived article as stored locally.
type ArticleRow struct {
	ID int64 `json:"id"`
	models.Record
}

// Ping checks that the database connection is usable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("pinging database: %w", err)
	}
	return nil
}

// TitleExists reports whether an article with exactly this title is stored.
func (s *Store) TitleExists(ctx context.Context, title string) (bool, error) {
	query, args, err := psql.Select("1").From("articles").
		Where(sq.Eq{"title": title}).Limit(1).ToSql()
	if err != nil {
		return false, fmt.Errorf("building title query: %w", err)
	}

	var one int
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("checking title: %w", err)
	}
	return true, nil
}

// Save inserts the record. A record whose link is already stored is left
// unchanged and Save returns models.ErrDuplicate.
func (s *Store) Save(ctx context.Context, rec models.Record) error {
	publishers, err := json.Marshal(rec.Publishers)
	if err != nil {
		return fmt.Errorf("encoding publishers: %w", err)
	}

	query, args, err := psql.Insert("articles").
		Columns("title", "link", "published_on", "category", "type", "publishers", "byline", "description", "summary").
		Values(rec.Title, rec.Link, rec.Day(), rec.Category, rec.Type, string(publishers), rec.Byline, rec.Description, rec.Summary).
		Suffix("ON CONFLICT(link) DO NOTHING").
		ToSql()
	if err != nil {
		return fmt.Errorf("building insert: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("saving article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking saved rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("saving %s: %w", rec.Link, models.ErrDuplicate)
	}
	return nil
}

// PageIDByURL returns the row id of the article with the given link, or
// ErrNotFound.
func (s *Store) PageIDByURL(ctx context.Context, link string) (string, error) {
	query, args, err := psql.Select("id").From("articles").Where(sq.Eq{"link": link}).ToSql()
	if err != nil {
		return "", fmt.Errorf("building link query: %w", err)
	}

	var id int64
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("looking up link: %w", err)
	}
	return strconv.FormatInt(id, 10), nil
}

// UpdateClassification refreshes the category, type, and summary of the
// article with the given row id. The title is replaced only when rec has one.
func (s *Store) UpdateClassification(ctx context.Context, pageID string, rec models.Record) error {
	id, err := strconv.ParseInt(pageID, 10, 64)
	if err != nil {
		return fmt.Errorf("invalid article id %q: %w", pageID, err)
	}

	update := psql.Update("articles").
		Set("category", rec.Category).
		Set("type", rec.Type).
		Set("summary", rec.Summary).
		Set("updated_at", sq.Expr("datetime('now')")).
		Where(sq.Eq{"id": id})
	if rec.Title != "" {
		update = update.Set("title", rec.Title)
	}

	query, args, err := update.ToSql()
	if err != nil {
		return fmt.Errorf("building update: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("updating article: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking rows affected: %w", err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// RecentArticles returns the most recently published articles.
func (s *Store) RecentArticles(ctx context.Context, limit int) ([]ArticleRow, error) {
	query, args, err := psql.
		Select("id", "title", "link", "published_on", "category", "type", "publishers", "byline", "description", "summary").
		From("articles").
		OrderBy("published_on DESC", "id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("building article query: %w", err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying articles: %w", err)
	}
	defer rows.Close()

	var articles []ArticleRow
	for rows.Next() {
		var (
			a          ArticleRow
			day        string
			publishers string
		)
		if err := rows.Scan(&a.ID, &a.Title, &a.Link, &day, &a.Category, &a.Type,
			&publishers, &a.Byline, &a.Description, &a.Summary); err != nil {
			return nil, fmt.Errorf("scanning article row: %w", err)
		}
		a.Date = parseTime(day)
		if err := json.Unmarshal([]byte(publishers), &a.Publishers); err != nil {
			return nil, fmt.Errorf("decoding publishers: %w", err)
		}
		articles = append(articles, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating article rows: %w", err)
	}
	return articles, nil
}
