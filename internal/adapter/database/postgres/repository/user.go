package repository

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.opentelemetry.io/otel/attribute"

	database "accountapp/internal/adapter/database/postgres"
	"accountapp/internal/adapter/database/schema"
	"accountapp/internal/core/apperror"
	"accountapp/internal/core/domain"
	"accountapp/internal/core/port"
	tel "accountapp/internal/core/telemetry"
)

const (
	table           = schema.Table
	uniqueViolation = "23505"
)

type UserRepository struct {
	db        *database.DB
	telemetry port.Telemetry
}

func NewUserRepository(db *database.DB, telemetry port.Telemetry) port.UserRepository {
	if telemetry == nil {
		telemetry = tel.NewNoOpProbe()
	}

	return &UserRepository{db: db, telemetry: telemetry}
}

func scanUser(row pgx.Row, withPassword bool) (domain.User, error) {
	var user domain.User

	dest := []any{&user.ID, &user.Name, &user.Email, &user.MobileNo, &user.ProfilePic, &user.CreatedAt}

	if withPassword {
		dest = append(dest, &user.PasswordDigest)
	}

	if err := row.Scan(dest...); err != nil {
		return domain.User{}, mapError(err)
	}

	return user, nil
}

func (ur *UserRepository) queryOne(ctx context.Context, query sq.Sqlizer, withPassword bool) (domain.User, error) {
	stmt, args, err := query.ToSql()

	if err != nil {
		return domain.User{}, err
	}

	return scanUser(ur.db.QueryRow(ctx, stmt, args...), withPassword)
}

func (ur *UserRepository) selectWhere(where sq.Sqlizer, withPassword bool) sq.SelectBuilder {
	return ur.db.QueryBuilder.Select(schema.Columns(withPassword)...).
		From(table).
		Where(where).
		Limit(1)
}

func (ur *UserRepository) FindByEmailOrMobile(ctx context.Context, email, mobile string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email_or_mobile", table)
	defer func() { op.End(err) }()

	where := sq.Or{sq.Eq{"email": email}, sq.Eq{"mobileno": mobile}}

	return ur.queryOne(ctx, ur.selectWhere(where, false), false)
}

func (ur *UserRepository) FindByEmailOrMobileExcluding(ctx context.Context, email, mobile string, excludeID int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email_or_mobile_excluding", table,
		attribute.Int("user.id", excludeID))
	defer func() { op.End(err) }()

	where := sq.And{
		sq.Or{sq.Eq{"email": email}, sq.Eq{"mobileno": mobile}},
		sq.NotEq{"userid": excludeID},
	}

	return ur.queryOne(ctx, ur.selectWhere(where, false), false)
}

func (ur *UserRepository) FindByEmail(ctx context.Context, email string) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_email", table)
	defer func() { op.End(err) }()

	return ur.queryOne(ctx, ur.selectWhere(sq.Eq{"email": email}, true), true)
}

func (ur *UserRepository) FindByID(ctx context.Context, id int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_by_id", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	return ur.queryOne(ctx, ur.selectWhere(sq.Eq{"userid": id}, false), false)
}

func (ur *UserRepository) FindCredentialsByID(ctx context.Context, id int) (user domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "find_credentials_by_id", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	return ur.queryOne(ctx, ur.selectWhere(sq.Eq{"userid": id}, true), true)
}

func (ur *UserRepository) Insert(ctx context.Context, user domain.User) (saved domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "insert", table)
	defer func() { op.End(err) }()

	query := ur.db.QueryBuilder.Insert(table).
		Columns("name", "email", "mobileno", schema.PasswordColumn, "profilepic").
		Values(user.Name, user.Email, user.MobileNo, user.PasswordDigest, schema.Nullable(user.ProfilePic)).
		Suffix(schema.Returning())

	return ur.queryOne(ctx, query, false)
}

func (ur *UserRepository) Update(ctx context.Context, id int, patch domain.UserPatch) (updated domain.User, err error) {
	ctx, op := tel.StartOperation(ctx, ur.telemetry, "update", table, attribute.Int("user.id", id))
	defer func() { op.End(err) }()

	fields := schema.UpdateFields(patch)

	if len(fields) == 0 {
		return ur.FindByID(ctx, id)
	}

	query := ur.db.QueryBuilder.Update(table).
		SetMap(fields).
		Where(sq.Eq{"userid": id}).
		Suffix(schema.Returning())

	return ur.queryOne(ctx, query, false)
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

	tag, err := ur.db.Exec(ctx, stmt, args...)

	if err != nil {
		return mapError(err)
	}

	if tag.RowsAffected() == 0 {
		return fmt.Errorf("user %d: %w", id, apperror.ErrNotFound)
	}

	return nil
}

func mapError(err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return fmt.Errorf("user: %w", apperror.ErrNotFound)
	}

	var pgErr *pgconn.PgError

	if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %w", apperror.ErrConflict, err)
	}

	return err
}
