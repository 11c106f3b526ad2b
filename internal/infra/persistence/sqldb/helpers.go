package sqldb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"

	"github.com/inkwell-cms/inkwell/pkg/constant"
	"github.com/inkwell-cms/inkwell/pkg/domain/model"
)

// base carries what every entity repository shares: the connection, the
// dialect-aware statement builder, and the whitelist of sortable columns.
type base struct {
	db       *sqlx.DB
	driver   string
	sb       sq.StatementBuilderType
	table    string
	slugCol  string
	sortable map[string]string
}

func newBase(db *sqlx.DB, driver, table, slugCol string, sortable map[string]string) base {
	sb := sq.StatementBuilder.PlaceholderFormat(sq.Question)
	if driver == "postgres" {
		sb = sb.PlaceholderFormat(sq.Dollar)
	}
	return base{
		db:       db,
		driver:   driver,
		sb:       sb,
		table:    table,
		slugCol:  slugCol,
		sortable: sortable,
	}
}

// notDeleted is the soft-delete filter appended to every read and update.
func notDeleted() sq.Eq {
	return sq.Eq{"deleted_at": nil}
}

// orderClause resolves the requested sort against the whitelist, defaulting
// to descending creation time. Unknown sort fields fall back silently.
func (b base) orderClause(sortBy, sortOrder string) string {
	col, ok := b.sortable[sortBy]
	if !ok {
		col = "created_at"
	}
	dir := "DESC"
	if strings.EqualFold(sortOrder, model.SortOrderAsc) {
		dir = "ASC"
	}
	return col + " " + dir
}

// count runs the total-count side of a paginated query.
func (b base) count(ctx context.Context, where ...sq.Sqlizer) (int64, error) {
	builder := b.sb.Select("COUNT(*)").From(b.table)
	for _, w := range where {
		builder = builder.Where(w)
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	var total int64
	if err := b.db.GetContext(ctx, &total, query, args...); err != nil {
		return 0, err
	}
	return total, nil
}

// insertID executes an insert and returns the generated key. PostgreSQL
// needs RETURNING; the other drivers expose LastInsertId.
func (b base) insertID(ctx context.Context, builder sq.InsertBuilder) (uint, error) {
	if b.driver == "postgres" {
		query, args, err := builder.Suffix("RETURNING id").ToSql()
		if err != nil {
			return 0, err
		}
		var id uint64
		if err := b.db.QueryRowxContext(ctx, query, args...).Scan(&id); err != nil {
			return 0, err
		}
		return uint(id), nil
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}
	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}

// guardedUpdate applies the same column changes to every id inside one
// transaction, failing as a unit when any id is missing or soft-deleted.
// The existence check runs first because MySQL reports zero affected rows
// for no-op updates, which would break the all-or-nothing accounting.
func (b base) guardedUpdate(ctx context.Context, ids []uint, set map[string]interface{}) error {
	if len(ids) == 0 {
		return nil
	}
	tx, err := b.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query, args, err := b.sb.Select("COUNT(*)").
		From(b.table).
		Where(sq.Eq{"id": ids}).
		Where(notDeleted()).
		ToSql()
	if err != nil {
		return err
	}
	var live int
	if err := tx.GetContext(ctx, &live, query, args...); err != nil {
		return err
	}
	if live != len(ids) {
		return fmt.Errorf("%w: %d of %d ids missing in %s", constant.ErrNotFound, len(ids)-live, len(ids), b.table)
	}

	update := b.sb.Update(b.table).Where(sq.Eq{"id": ids}).Where(notDeleted())
	for col, val := range set {
		update = update.Set(col, val)
	}
	query, args, err = update.ToSql()
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, query, args...); err != nil {
		return err
	}
	return tx.Commit()
}

// softDelete marks the rows deleted, all-or-nothing.
func (b base) softDelete(ctx context.Context, ids []uint) error {
	now := time.Now().UTC()
	return b.guardedUpdate(ctx, ids, map[string]interface{}{
		"deleted_at": now,
		"updated_at": now,
	})
}

// setStatus toggles the status column, all-or-nothing.
func (b base) setStatus(ctx context.Context, ids []uint, status string) error {
	return b.guardedUpdate(ctx, ids, map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
}

// existsBySlug reports a natural-key collision among live rows.
func (b base) existsBySlug(ctx context.Context, slug string, excludeID uint) (bool, error) {
	builder := b.sb.Select("COUNT(*)").
		From(b.table).
		Where(sq.Eq{b.slugCol: slug}).
		Where(notDeleted())
	if excludeID != 0 {
		builder = builder.Where(sq.NotEq{"id": excludeID})
	}
	query, args, err := builder.ToSql()
	if err != nil {
		return false, err
	}
	var n int
	if err := b.db.GetContext(ctx, &n, query, args...); err != nil {
		return false, err
	}
	return n > 0, nil
}

// purgeBefore hard-deletes rows soft-deleted before the cutoff.
func (b base) purgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	query, args, err := b.sb.Delete(b.table).
		Where(sq.NotEq{"deleted_at": nil}).
		Where(sq.Lt{"deleted_at": cutoff}).
		ToSql()
	if err != nil {
		return 0, err
	}
	res, err := b.db.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// getRow fetches one row into dest, translating sql.ErrNoRows into the
// domain's not-found error.
func (b base) getRow(ctx context.Context, dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	if err := b.db.GetContext(ctx, dest, query, args...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %s", constant.ErrNotFound, b.table)
		}
		return err
	}
	return nil
}

// selectRows fetches a result set into dest.
func (b base) selectRows(ctx context.Context, dest interface{}, builder sq.SelectBuilder) error {
	query, args, err := builder.ToSql()
	if err != nil {
		return err
	}
	return b.db.SelectContext(ctx, dest, query, args...)
}

// likeContains builds a portable substring match.
func likeContains(column, needle string) sq.Like {
	return sq.Like{column: "%" + needle + "%"}
}

// nullTime converts between *time.Time and sql.NullTime.
func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func timePtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
