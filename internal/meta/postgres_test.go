package meta

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"dbdeck/internal/domain"
	appErrors "dbdeck/internal/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockClient(t *testing.T) (*Client, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	c, err := NewWithDB(db, DriverPostgres, nil)
	require.NoError(t, err)
	return c, mock
}

var usersTable = domain.Table{ID: 16384, Schema: "public", Name: "users", Kind: domain.KindTable}

func expectTableByID(mock sqlmock.Sqlmock, t domain.Table) {
	mock.ExpectQuery(regexp.QuoteMeta("WHERE c.oid::bigint = $1")).
		WithArgs(t.ID).
		WillReturnRows(sqlmock.NewRows([]string{"oid", "nspname", "relname", "kind"}).
			AddRow(t.ID, t.Schema, t.Name, string(t.Kind)))
}

func TestPostgresDeleteTable(t *testing.T) {
	tests := []struct {
		name      string
		cascade   bool
		setupMock func(mock sqlmock.Sqlmock)
		wantError string
	}{
		{
			name: "drop table",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectTableByID(mock, usersTable)
				mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "public"."users"`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name:    "drop table with cascade",
			cascade: true,
			setupMock: func(mock sqlmock.Sqlmock) {
				expectTableByID(mock, usersTable)
				mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "public"."users" CASCADE`)).
					WillReturnResult(sqlmock.NewResult(0, 0))
			},
		},
		{
			name: "server error lands in response",
			setupMock: func(mock sqlmock.Sqlmock) {
				expectTableByID(mock, usersTable)
				mock.ExpectExec(regexp.QuoteMeta(`DROP TABLE "public"."users"`)).
					WillReturnError(&pgconn.PgError{Code: "2BP01", Message: `cannot drop table users because other objects depend on it`})
			},
			wantError: "cannot drop table users because other objects depend on it",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, mock := newMockClient(t)
			tt.setupMock(mock)

			resp, err := c.DeleteTable(context.Background(), usersTable.ID, tt.cascade)
			require.NoError(t, err)
			assert.Equal(t, tt.wantError, resp.Error)
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestPostgresDeleteColumn(t *testing.T) {
	c, mock := newMockClient(t)
	expectTableByID(mock, usersTable)
	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_catalog.pg_attribute a")).
		WithArgs(usersTable.ID).
		WillReturnRows(sqlmock.NewRows([]string{"attnum", "attname", "type", "nullable"}).
			AddRow(1, "id", "bigint", false).
			AddRow(2, "age", "integer", true))
	mock.ExpectExec(regexp.QuoteMeta(`ALTER TABLE "public"."users" DROP COLUMN "age" CASCADE`)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := c.DeleteColumn(context.Background(), ColumnDeleteRequest{
		ID:      domain.ColumnID(usersTable.ID, 2),
		Cascade: true,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresDeleteColumnFailureCarriesServerMessage(t *testing.T) {
	c, mock := newMockClient(t)
	expectTableByID(mock, usersTable)
	mock.ExpectQuery(regexp.QuoteMeta("FROM pg_catalog.pg_attribute a")).
		WillReturnRows(sqlmock.NewRows([]string{"attnum", "attname", "type", "nullable"}).
			AddRow(2, "age", "integer", true))
	mock.ExpectExec(regexp.QuoteMeta(`DROP COLUMN "age"`)).
		WillReturnError(&pgconn.PgError{Message: "cannot drop column age because other objects depend on it"})

	err := c.DeleteColumn(context.Background(), ColumnDeleteRequest{ID: domain.ColumnID(usersTable.ID, 2)})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeMutation))
	assert.Equal(t, "cannot drop column age because other objects depend on it", appErrors.Message(err))
}

func TestPostgresRowMutationsUseRole(t *testing.T) {
	role := domain.Role{Name: "authenticated"}

	t.Run("truncate", func(t *testing.T) {
		c, mock := newMockClient(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL ROLE "authenticated"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`TRUNCATE "public"."users"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectCommit()

		require.NoError(t, c.TruncateRows(context.Background(), RowMutation{Table: usersTable, Role: role}))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete all with filters", func(t *testing.T) {
		c, mock := newMockClient(t)
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL ROLE "authenticated"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "public"."users" WHERE "status" = $1 AND "id" IN ($2, $3)`)).
			WithArgs("active", "1", "2").
			WillReturnResult(sqlmock.NewResult(0, 2))
		mock.ExpectCommit()

		err := c.DeleteAllRows(context.Background(), RowMutation{
			Table: usersTable,
			Role:  role,
			Filters: []domain.Filter{
				{Column: "status", Operator: domain.OpEqual, Value: "active"},
				{Column: "id", Operator: domain.OpIn, Value: "1,2"},
			},
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("delete rows rolls back on failure", func(t *testing.T) {
		c, mock := newMockClient(t)
		mock.ExpectQuery(regexp.QuoteMeta("i.indisprimary")).
			WithArgs(usersTable.ID).
			WillReturnRows(sqlmock.NewRows([]string{"attname"}).AddRow("id"))
		mock.ExpectBegin()
		mock.ExpectExec(regexp.QuoteMeta(`SET LOCAL ROLE "authenticated"`)).WillReturnResult(sqlmock.NewResult(0, 0))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "public"."users" WHERE "id" = $1`)).
			WithArgs(int64(1)).
			WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "public"."users" WHERE "id" = $1`)).
			WithArgs(int64(2)).
			WillReturnError(errors.New("permission denied for table users"))
		mock.ExpectRollback()

		err := c.DeleteRows(context.Background(), RowMutation{
			Table: usersTable,
			Role:  role,
			Rows: []domain.Row{
				{Index: 0, Values: map[string]any{"id": int64(1)}},
				{Index: 1, Values: map[string]any{"id": int64(2)}},
			},
		})
		require.Error(t, err)
		assert.Equal(t, "permission denied for table users", appErrors.Message(err))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestDeleteRowsWithoutPrimaryKey(t *testing.T) {
	c, mock := newMockClient(t)
	mock.ExpectQuery(regexp.QuoteMeta("i.indisprimary")).
		WillReturnRows(sqlmock.NewRows([]string{"attname"}))

	err := c.DeleteRows(context.Background(), RowMutation{
		Table: usersTable,
		Rows:  []domain.Row{{Values: map[string]any{"name": "x"}}},
	})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnsupported))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildWhere(t *testing.T) {
	tests := []struct {
		name     string
		d        dialect
		filters  []domain.Filter
		want     string
		wantArgs []any
		wantErr  bool
	}{
		{
			name: "postgres like and is null",
			d:    postgresDialect{},
			filters: []domain.Filter{
				{Column: "name", Operator: domain.OpILike, Value: "%bo%"},
				{Column: "deleted_at", Operator: domain.OpIs, Value: "null"},
				{Column: "age", Operator: domain.OpGreaterOrEqual, Value: "18"},
			},
			want:     `"name" ~~* $1 AND "deleted_at" IS NULL AND "age" >= $2`,
			wantArgs: []any{"%bo%", "18"},
		},
		{
			name: "sqlite like is case-sensitive glob",
			d:    sqliteDialect{},
			filters: []domain.Filter{
				{Column: "name", Operator: domain.OpLike, Value: "a_*%"},
				{Column: "name", Operator: domain.OpILike, Value: "a%"},
			},
			want:     `"name" GLOB ? AND "name" LIKE ?`,
			wantArgs: []any{"a?[*]*", "a%"},
		},
		{
			name:    "bad is value",
			d:       postgresDialect{},
			filters: []domain.Filter{{Column: "x", Operator: domain.OpIs, Value: "maybe"}},
			wantErr: true,
		},
		{
			name:    "empty in",
			d:       postgresDialect{},
			filters: []domain.Filter{{Column: "x", Operator: domain.OpIn, Value: " , "}},
			wantErr: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, args, err := buildWhere(tt.d, tt.filters, 1)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestOpenRejectsUnknownDriver(t *testing.T) {
	_, err := Open(context.Background(), Options{Driver: "oracle", URL: "x"})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeUnsupported))

	_, err = Open(context.Background(), Options{Driver: DriverSQLite})
	require.Error(t, err)
	assert.True(t, appErrors.IsCode(err, appErrors.CodeValidation))
}
