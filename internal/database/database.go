package database

import (
	"database/sql"
	"fmt"
	"log"

	"bot-itens/internal/models"

	_ "github.com/mattn/go-sqlite3"
)

// Timestamps com precisão de milissegundos para que a ordenação por
// updated_at reflita a ordem real das escritas.
const sqliteNow = "strftime('%Y-%m-%d %H:%M:%f', 'now')"

const itemColumns = `id, url, title, current_price, avg_price, sales_count,
	purchase_price, profit_percent, created_at, updated_at`

// DB encapsula a conexão com o banco de dados de itens
type DB struct {
	conn *sql.DB
}

// New cria uma nova instância do banco de dados
func New(dbPath string) (*DB, error) {
	// WAL e busy_timeout porque o monitor e os handlers escrevem
	// de forma concorrente no mesmo arquivo
	conn, err := sql.Open("sqlite3", dbPath+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, err
	}
	conn.SetMaxOpenConns(1)

	db := &DB{conn: conn}

	if err := db.init(); err != nil {
		conn.Close()
		return nil, err
	}

	log.Println("Banco de dados inicializado com sucesso")
	return db, nil
}

// Close fecha a conexão com o banco de dados
func (db *DB) Close() error {
	return db.conn.Close()
}

// init cria as tabelas necessárias
func (db *DB) init() error {
	createTableSQL := `
	CREATE TABLE IF NOT EXISTS items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		url TEXT UNIQUE NOT NULL,
		title TEXT NOT NULL,
		current_price REAL,
		avg_price REAL,
		sales_count INTEGER,
		purchase_price REAL DEFAULT 0,
		profit_percent REAL DEFAULT 0,
		created_at TIMESTAMP DEFAULT (` + sqliteNow + `),
		updated_at TIMESTAMP DEFAULT (` + sqliteNow + `)
	);
	CREATE INDEX IF NOT EXISTS idx_url ON items(url);
	`

	_, err := db.conn.Exec(createTableSQL)
	return err
}

// InsertIfAbsent insere um novo item com preço de compra zerado.
// Retorna false sem erro quando a URL já está cadastrada.
func (db *DB) InsertIfAbsent(data *models.ItemData) (bool, error) {
	title := ""
	if data.Title != nil {
		title = *data.Title
	}

	result, err := db.conn.Exec(`
		INSERT OR IGNORE INTO items
		(url, title, current_price, avg_price, sales_count, purchase_price, profit_percent)
		VALUES (?, ?, ?, ?, ?, 0, 0)`,
		data.URL,
		title,
		toNullFloat(models.ParsePrice(data.Price)),
		toNullFloat(models.ParsePrice(data.AvgPrice)),
		toNullInt(data.SalesCount),
	)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// Update atualiza título e preços de um item pela URL, recalculando
// profit_percent contra o preço de compra existente na mesma transação.
// Retorna false quando a URL não está cadastrada.
func (db *DB) Update(data *models.ItemData) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var purchasePrice float64
	err = tx.QueryRow("SELECT purchase_price FROM items WHERE url = ?", data.URL).Scan(&purchasePrice)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	currentPrice := models.ParsePrice(data.Price)
	avgPrice := models.ParsePrice(data.AvgPrice)
	_, profitPercent := models.Profit(currentPrice, purchasePrice)

	title := ""
	if data.Title != nil {
		title = *data.Title
	}

	_, err = tx.Exec(`
		UPDATE items
		SET title = ?, current_price = ?, avg_price = ?, sales_count = ?,
			profit_percent = ?, updated_at = `+sqliteNow+`
		WHERE url = ?`,
		title,
		toNullFloat(currentPrice),
		toNullFloat(avgPrice),
		toNullInt(data.SalesCount),
		profitPercent,
		data.URL,
	)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// Upsert insere o item se for novo, caso contrário atualiza os campos
// observados. Idempotente por URL.
func (db *DB) Upsert(data *models.ItemData) error {
	inserted, err := db.InsertIfAbsent(data)
	if err != nil {
		return err
	}
	if inserted {
		return nil
	}

	updated, err := db.Update(data)
	if err != nil {
		return err
	}
	if !updated {
		return fmt.Errorf("item sumiu durante o upsert: %s", data.URL)
	}
	return nil
}

// SetPurchasePrice define o preço de compra de um item pela URL e
// recalcula profit_percent contra o preço atual na mesma transação.
// Retorna false quando a URL não está cadastrada.
func (db *DB) SetPurchasePrice(url string, purchasePrice float64) (bool, error) {
	return db.setPurchasePrice("url", url, purchasePrice)
}

// SetPurchasePriceByID define o preço de compra de um item pelo ID.
func (db *DB) SetPurchasePriceByID(id int64, purchasePrice float64) (bool, error) {
	return db.setPurchasePrice("id", id, purchasePrice)
}

func (db *DB) setPurchasePrice(column string, key interface{}, purchasePrice float64) (bool, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return false, err
	}
	defer tx.Rollback()

	var currentPrice sql.NullFloat64
	err = tx.QueryRow("SELECT current_price FROM items WHERE "+column+" = ?", key).Scan(&currentPrice)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	var current *float64
	if currentPrice.Valid {
		current = &currentPrice.Float64
	}
	_, profitPercent := models.Profit(current, purchasePrice)

	_, err = tx.Exec(`
		UPDATE items
		SET purchase_price = ?, profit_percent = ?, updated_at = `+sqliteNow+`
		WHERE `+column+` = ?`,
		purchasePrice, profitPercent, key,
	)
	if err != nil {
		return false, err
	}

	return true, tx.Commit()
}

// ListAll retorna todos os itens, do atualizado mais recentemente para o
// mais antigo.
func (db *DB) ListAll() ([]models.Item, error) {
	rows, err := db.conn.Query(
		"SELECT " + itemColumns + " FROM items ORDER BY updated_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// GetByURL retorna um item pela URL, ou nil se não existir
func (db *DB) GetByURL(url string) (*models.Item, error) {
	return db.getBy("url", url)
}

// GetByID retorna um item pelo ID, ou nil se não existir
func (db *DB) GetByID(id int64) (*models.Item, error) {
	return db.getBy("id", id)
}

func (db *DB) getBy(column string, key interface{}) (*models.Item, error) {
	row := db.conn.QueryRow(
		"SELECT "+itemColumns+" FROM items WHERE "+column+" = ?", key)
	item, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Delete remove um item pelo ID. Retorna false se o item não existir.
func (db *DB) Delete(id int64) (bool, error) {
	result, err := db.conn.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanItem(row rowScanner) (*models.Item, error) {
	var item models.Item
	var currentPrice, avgPrice sql.NullFloat64
	var salesCount sql.NullInt64

	err := row.Scan(
		&item.ID, &item.URL, &item.Title,
		&currentPrice, &avgPrice, &salesCount,
		&item.PurchasePrice, &item.ProfitPercent,
		&item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if currentPrice.Valid {
		item.CurrentPrice = &currentPrice.Float64
	}
	if avgPrice.Valid {
		item.AvgPrice = &avgPrice.Float64
	}
	if salesCount.Valid {
		item.SalesCount = &salesCount.Int64
	}
	return &item, nil
}

func toNullFloat(v *float64) sql.NullFloat64 {
	if v == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *v, Valid: true}
}

func toNullInt(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}
