package sqlite

// Schema DDL and statements for the items table. position keeps catalog
// order across a save/load cycle.
const (
	createItems = `CREATE TABLE IF NOT EXISTS items (
    position INTEGER PRIMARY KEY,
    id TEXT NOT NULL UNIQUE,
    name TEXT NOT NULL,
    price REAL NOT NULL,
    quantity INTEGER NOT NULL
);`

	insertItem = `INSERT INTO items (position, id, name, price, quantity) VALUES (?, ?, ?, ?, ?)`

	selectItems = `SELECT id, name, price, quantity FROM items ORDER BY position`
)
