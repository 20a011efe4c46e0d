// Package dao is the data access object for stored file metadata.
package dao

import (
	"context"
	"database/sql"
	"regexp"

	errors "github.com/Laisky/errors/v2"
	gutils "github.com/Laisky/go-utils/v6"

	"github.com/Laisky/telegram-file-bot/internal/filebot/model"
)

// Dialect selects the SQL dialect used for schema setup and inserts.
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

var (
	// ErrNotFound no record matches the lookup key.
	ErrNotFound = errors.New("file record not found")

	regexpTableName = regexp.MustCompile(`^[a-zA-Z0-9_]{1,64}$`)
)

// Files is the single-table store for file metadata.
//
// The unique index on file_id is the source of truth for deduplication;
// the application-level lookup before insert is only an optimization.
type Files struct {
	opt *option
	db  *sql.DB
}

type option struct {
	tableName string
	dialect   Dialect
}

// Option is a function that configures the store.
type Option func(*option) error

func applyOpts(opts ...Option) (*option, error) {
	// fill default
	o := &option{
		tableName: "file_metadata",
		dialect:   DialectPostgres,
	}

	// apply opts
	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, errors.WithStack(err)
		}
	}

	return o, nil
}

// WithTableName is an option to set the table name.
func WithTableName(tableName string) Option {
	return func(o *option) error {
		if !regexpTableName.MatchString(tableName) {
			return errors.Errorf("invalid table name: %s", tableName)
		}
		o.tableName = tableName
		return nil
	}
}

// WithDialect is an option to set the SQL dialect.
func WithDialect(dialect Dialect) Option {
	return func(o *option) error {
		switch dialect {
		case DialectPostgres, DialectSQLite:
		default:
			return errors.Errorf("unknown dialect: %s", dialect)
		}
		o.dialect = dialect
		return nil
	}
}

// NewFiles create a new file metadata store.
func NewFiles(db *sql.DB, opts ...Option) (*Files, error) {
	if db == nil {
		return nil, errors.New("db cannot be nil")
	}

	opt, err := applyOpts(opts...)
	if err != nil {
		return nil, errors.Wrap(err, "apply opts")
	}

	d := &Files{
		opt: opt,
		db:  db,
	}

	if err := d.setup(); err != nil {
		return nil, errors.Wrap(err, "setup files table")
	}

	return d, nil
}

func (d *Files) setup() error {
	idCol := "BIGINT GENERATED BY DEFAULT AS IDENTITY PRIMARY KEY"
	if d.opt.dialect == DialectSQLite {
		idCol = "INTEGER PRIMARY KEY AUTOINCREMENT"
	}

	stmt := `
CREATE TABLE IF NOT EXISTS ` + d.opt.tableName + ` (
  id ` + idCol + `,
  user_id BIGINT NOT NULL,
  file_id VARCHAR(255) NOT NULL UNIQUE,
  filename VARCHAR(500) NOT NULL,
  file_size BIGINT,
  mime_type VARCHAR(100),
  upload_date TIMESTAMP NOT NULL
)`

	if _, err := d.db.Exec(stmt); err != nil {
		return errors.Wrap(err, "create files table")
	}

	idxStmt := `CREATE INDEX IF NOT EXISTS idx_` + d.opt.tableName + `_user_id ON ` +
		d.opt.tableName + ` (user_id)`
	if _, err := d.db.Exec(idxStmt); err != nil {
		return errors.Wrap(err, "create user index")
	}

	return nil
}

const recordColumns = "id, user_id, file_id, filename, file_size, mime_type, upload_date"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*model.FileRecord, error) {
	var (
		rec      model.FileRecord
		fileSize sql.NullInt64
		mimeType sql.NullString
	)
	if err := row.Scan(&rec.ID, &rec.UserID, &rec.FileID, &rec.Filename,
		&fileSize, &mimeType, &rec.UploadDate); err != nil {
		return nil, errors.WithStack(err)
	}

	if fileSize.Valid {
		rec.FileSize = &fileSize.Int64
	}
	if mimeType.Valid {
		rec.MimeType = &mimeType.String
	}

	return &rec, nil
}

// FindByFileID returns the record holding the telegram file token,
// or ErrNotFound.
func (d *Files) FindByFileID(ctx context.Context, fileID string) (*model.FileRecord, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM `+d.opt.tableName+` WHERE file_id = $1`,
		fileID)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrapf(err, "find file by file id %q", fileID)
	}

	return rec, nil
}

// FindByID returns the record with the surrogate id, or ErrNotFound.
func (d *Files) FindByID(ctx context.Context, id int64) (*model.FileRecord, error) {
	row := d.db.QueryRowContext(ctx,
		`SELECT `+recordColumns+` FROM `+d.opt.tableName+` WHERE id = $1`,
		id)

	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, errors.WithStack(ErrNotFound)
		}
		return nil, errors.Wrapf(err, "find file by id %d", id)
	}

	return rec, nil
}

// FindAllByOwner returns all of an owner's records, most recent first.
// Rows uploaded at the same time keep their insertion order.
func (d *Files) FindAllByOwner(ctx context.Context, userID int64) ([]*model.FileRecord, error) {
	rows, err := d.db.QueryContext(ctx,
		`SELECT `+recordColumns+` FROM `+d.opt.tableName+
			` WHERE user_id = $1 ORDER BY upload_date DESC, id ASC`,
		userID)
	if err != nil {
		return nil, errors.Wrapf(err, "query files of user %d", userID)
	}
	defer rows.Close()

	var records []*model.FileRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, errors.Wrap(err, "scan file record")
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "iterate file records")
	}

	return records, nil
}

// TotalSizeByOwner sums the reported sizes across the owner's whole
// record set, counting unreported sizes as 0.
func (d *Files) TotalSizeByOwner(ctx context.Context, userID int64) (int64, error) {
	var total int64
	err := d.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(COALESCE(file_size, 0)), 0) FROM `+d.opt.tableName+
			` WHERE user_id = $1`,
		userID).Scan(&total)
	if err != nil {
		return 0, errors.Wrapf(err, "sum file sizes of user %d", userID)
	}

	return total, nil
}

// InsertOrGet persists the record exactly once per distinct file id.
//
// If a record with the same file id already exists it is returned
// unchanged with created=false. When the insert itself fails, the store
// is re-queried by file id before the failure is propagated: a hit means
// a concurrent upload won the unique-index race, which is not an error.
func (d *Files) InsertOrGet(ctx context.Context, rec *model.FileRecord) (
	saved *model.FileRecord, created bool, err error,
) {
	existing, err := d.FindByFileID(ctx, rec.FileID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, errors.Wrap(err, "check existing file")
	}

	saved, insertErr := d.insert(ctx, rec)
	if insertErr == nil {
		return saved, true, nil
	}

	// recover from a concurrent duplicate upload
	existing, err = d.FindByFileID(ctx, rec.FileID)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, false, errors.Wrap(err, "re-check existing file")
	}

	return nil, false, errors.Wrap(insertErr, "insert file record")
}

func (d *Files) insert(ctx context.Context, rec *model.FileRecord) (*model.FileRecord, error) {
	uploadDate := rec.UploadDate
	if uploadDate.IsZero() {
		uploadDate = gutils.Clock.GetUTCNow()
	}

	var (
		fileSize sql.NullInt64
		mimeType sql.NullString
	)
	if rec.FileSize != nil {
		fileSize = sql.NullInt64{Int64: *rec.FileSize, Valid: true}
	}
	if rec.MimeType != nil {
		mimeType = sql.NullString{String: *rec.MimeType, Valid: true}
	}

	saved := &model.FileRecord{
		UserID:     rec.UserID,
		FileID:     rec.FileID,
		Filename:   rec.Filename,
		FileSize:   rec.FileSize,
		MimeType:   rec.MimeType,
		UploadDate: uploadDate,
	}

	stmt := `INSERT INTO ` + d.opt.tableName +
		` (user_id, file_id, filename, file_size, mime_type, upload_date)
		VALUES ($1, $2, $3, $4, $5, $6)`

	if d.opt.dialect == DialectPostgres {
		err := d.db.QueryRowContext(ctx, stmt+` RETURNING id`,
			rec.UserID, rec.FileID, rec.Filename, fileSize, mimeType, uploadDate,
		).Scan(&saved.ID)
		if err != nil {
			return nil, errors.WithStack(err)
		}

		return saved, nil
	}

	res, err := d.db.ExecContext(ctx, stmt,
		rec.UserID, rec.FileID, rec.Filename, fileSize, mimeType, uploadDate)
	if err != nil {
		return nil, errors.WithStack(err)
	}

	if saved.ID, err = res.LastInsertId(); err != nil {
		return nil, errors.Wrap(err, "last insert id")
	}

	return saved, nil
}
