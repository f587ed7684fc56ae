// Package sqlengine provides a SQL implementation of recordstore.KeyValueStorage.
//
// Items live in a two-column table (item_key primary key, item_value text). Writes are
// upserts, so storing the whole book collection under one key is a single statement.
// PostgreSQL and SQLite are supported, through pgx, database/sql or sqlx connections.
//
// Usage examples:
//
//	// PostgreSQL through a pgx pool
//	pool, _ := pgxpool.New(ctx, dsn)
//	storage, _ := sqlengine.NewStorageFromPGXPool(pool)
//
//	// SQLite through database/sql and modernc.org/sqlite
//	db, _ := sql.Open("sqlite", "bookshelf.db")
//	storage, _ := sqlengine.NewStorageFromSQLDB(
//		db,
//		sqlengine.WithDialect(sqlengine.DialectSQLite),
//		sqlengine.WithTableName("my_bookshelf"),
//	)
//
//	_ = storage.EnsureSchema(ctx)
//	store, _ := recordstore.NewStore(storage)
package sqlengine
