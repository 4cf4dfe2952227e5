package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/mattn/go-sqlite3"
	"go.opentelemetry.io/otel/attribute"

	"accountapp/internal/adapter/database/schema"
	"accountapp/internal/adapter/database/sqlite"
	"accountapp/internal/core/apperror"
	"accountapp/internal/core/domain"
	"accountapp/internal/core/port"
	tel "accountapp/internal/core/telemetry"
)

const table = schema.Table

type UserRepository struct {
	db        *sqlite.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *sqlite.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{
		db:        db,
		telemetry: telemetry,
	}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner, withPassword bool) (domain.User, error) {
	var (
		user      domain.User
		createdAt sqlite.Timestamp
	)

	dest := []any{&user.ID, &user.Name, &user.Email, &user.MobileNo, &user.ProfilePic, &createdAt}

	if withPassword {
		dest = append(dest, &user.PasswordDigest)
	}

	if err := row.Scan(dest...); err != nil {
		return domain.User{}, err
	}

	user.CreatedAt = createdAt.Time

	return user, nil
}

func (ur *UserRepository) findOne(ctx context.Context, query sq.SelectBuilder, withPassword bool) (domain.User, error) {
	stmt, args, err := query.Limit(1).ToSql()

	if err != nil {
		return domain.User{}, err
	}

	user, err := scanUser(ur.db.QueryRowContext(ctx, stmt, args...), withPassword)

	if err != nil {
		return domain.User{}, mapError(err)
	}

	return user, nil
}

func (ur *UserRepository) FindByEmailOrMobile(ctx context.Context, email, mobile string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email_or_mobile", table)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(schema.Columns(false)...).
		From(table).
		Where(sq.Or{sq.Eq{"email": email}, sq.Eq{"mobileno": mobile}})

	return ur.findOne(ctx, query, false)
}

func (ur *UserRepository) FindByEmailOrMobileExcluding(ctx context.Context, email, mobile string, excludeID int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email_or_mobile_excluding", table,
		attribute.Int("user.id", excludeID))
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(schema.Columns(false)...).
		From(table).
		Where(sq.And{
			sq.Or{sq.Eq{"email": email}, sq.Eq{"mobileno": mobile}},
			sq.NotEq{"userid": excludeID},
		})

	return ur.findOne(ctx, query, false)
}

func (ur *UserRepository) FindByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email", table)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(schema.Columns(true)...).
		From(table).
		Where(sq.Eq{"email": email})

	return ur.findOne(ctx, query, true)
}

func (ur *UserRepository) FindByID(ctx context.Context, id int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_id", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(schema.Columns(false)...).
		From(table).
		Where(sq.Eq{"userid": id})

	return ur.findOne(ctx, query, false)
}

func (ur *UserRepository) FindCredentialsByID(ctx context.Context, id int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_credentials_by_id", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Select(schema.Columns(true)...).
		From(table).
		Where(sq.Eq{"userid": id})

	return ur.findOne(ctx, query, true)
}

func (ur *UserRepository) Insert(ctx context.Context, user domain.User) (saved domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "insert", table)
	defer func() { op.End(err) }()

	stmt, args, err := ur.db.QueryBuilder.Insert(table).
		Columns("name", "email", "mobileno", schema.PasswordColumn, "profilepic").
		Values(user.Name, user.Email, user.MobileNo, user.PasswordDigest, schema.Nullable(user.ProfilePic)).
		Suffix(schema.Returning()).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	saved, err = scanUser(ur.db.QueryRowContext(ctx, stmt, args...), false)

	if err != nil {
		return domain.User{}, mapError(err)
	}

	return saved, nil
}

// Update writes only the supplied fields and returns the stored row.
func (ur *UserRepository) Update(ctx context.Context, id int, patch domain.UserPatch) (updated domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "update", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	fields := schema.UpdateFields(patch)

	if len(fields) == 0 {
		return ur.FindByID(ctx, id)
	}

	stmt, args, err := ur.db.QueryBuilder.Update(table).
		SetMap(fields).
		Where(sq.Eq{"userid": id}).
		Suffix(schema.Returning()).
		ToSql()

	if err != nil {
		return domain.User{}, err
	}

	updated, err = scanUser(ur.db.QueryRowContext(ctx, stmt, args...), false)

	if err != nil {
		return domain.User{}, mapError(err)
	}

	return updated, nil
}

func (ur *UserRepository) UpdatePassword(ctx context.Context, id int, digest string) (err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "update_password", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	stmt, args, err := ur.db.QueryBuilder.Update(table).
		Set(schema.PasswordColumn, digest).
		Where(sq.Eq{"userid": id}).
		ToSql()

	if err != nil {
		return err
	}

	result, err := ur.db.ExecContext(ctx, stmt, args...)

	if err != nil {
		return mapError(err)
	}

	rowsAffected, err := result.RowsAffected()

	if err != nil {
		return err
	}

	if rowsAffected == 0 {
		return fmt.Errorf("user %d: %w", id, apperror.ErrNotFound)
	}

	return nil
}

func mapError(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("user: %w", apperror.ErrNotFound)
	}

	var sqliteErr sqlite3.Error

	if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
		return fmt.Errorf("%w: %w", apperror.ErrConflict, err)
	}

	if strings.Contains(err.Error(), "UNIQUE constraint failed") {
		return fmt.Errorf("%w: %w", apperror.ErrConflict, err)
	}

	return err
}
