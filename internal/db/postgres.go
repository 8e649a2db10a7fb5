package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"unibites/config"
	"unibites/internal/models"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"
)

type PostgresDB struct {
	pool *pgxpool.Pool
}

func NewPostgresDB(cfg config.DBConfig) (*PostgresDB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	// Set connection pool parameters
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	// Connect with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection works
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresDB{pool: pool}, nil
}

// Migrate creates the tables if they do not exist yet.
func (db *PostgresDB) Migrate(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

func (db *PostgresDB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

func (db *PostgresDB) LoadMenu(ctx context.Context) ([]models.MenuItem, error) {
	query := `
        SELECT id, canteen_id, name, price, category, meal_periods, diet_type,
               is_healthy, is_daily, rating, prep_time, image, description, is_available
        FROM menu_items
        ORDER BY position
    `

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query menu items: %w", err)
	}
	defer rows.Close()

	var items []models.MenuItem
	for rows.Next() {
		var (
			it      models.MenuItem
			periods []string
			diet    string
		)
		if err := rows.Scan(
			&it.ID, &it.CanteenID, &it.Name, &it.Price, &it.Category, &periods, &diet,
			&it.IsHealthy, &it.IsDaily, &it.Rating, &it.PrepTime, &it.Image, &it.Description, &it.IsAvailable,
		); err != nil {
			return nil, fmt.Errorf("failed to scan menu item: %w", err)
		}
		it.Type = models.DietType(diet)
		for _, p := range periods {
			it.MealPeriods = append(it.MealPeriods, models.MealPeriod(p))
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (db *PostgresDB) SaveMenu(ctx context.Context, items []models.MenuItem) error {
	query := `
        INSERT INTO menu_items (id, position, canteen_id, name, price, category, meal_periods, diet_type,
                                is_healthy, is_daily, rating, prep_time, image, description, is_available)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
    `

	return db.replaceAll(ctx, "DELETE FROM menu_items", func(b *pgx.Batch) {
		for i, it := range items {
			periods := make([]string, 0, len(it.MealPeriods))
			for _, p := range it.MealPeriods {
				periods = append(periods, string(p))
			}
			b.Queue(query,
				it.ID, i, it.CanteenID, it.Name, it.Price, it.Category, periods, string(it.Type),
				it.IsHealthy, it.IsDaily, it.Rating, it.PrepTime, it.Image, it.Description, it.IsAvailable,
			)
		}
	})
}

func (db *PostgresDB) LoadReviews(ctx context.Context) ([]models.Review, error) {
	query := `
        SELECT id, item_id, user_id, user_name, rating, comment, review_date
        FROM reviews
        ORDER BY position
    `

	rows, err := db.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query reviews: %w", err)
	}
	defer rows.Close()

	var reviews []models.Review
	for rows.Next() {
		var r models.Review
		if err := rows.Scan(&r.ID, &r.ItemID, &r.UserID, &r.UserName, &r.Rating, &r.Comment, &r.Date); err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}

func (db *PostgresDB) SaveReviews(ctx context.Context, reviews []models.Review) error {
	query := `
        INSERT INTO reviews (id, position, item_id, user_id, user_name, rating, comment, review_date)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	return db.replaceAll(ctx, "DELETE FROM reviews", func(b *pgx.Batch) {
		for i, r := range reviews {
			b.Queue(query, r.ID, i, r.ItemID, r.UserID, r.UserName, r.Rating, r.Comment, r.Date)
		}
	})
}

// LoadUser returns nil without an error when no profile is stored for key.
func (db *PostgresDB) LoadUser(ctx context.Context, key string) (*models.User, error) {
	query := `
        SELECT user_key, name, role, canteen_id, onboarding_complete, budget, mess_pass, created_at, updated_at
        FROM users
        WHERE user_key = $1
    `

	var (
		user               models.User
		role               string
		budgetRaw, passRaw []byte
	)
	err := db.pool.QueryRow(ctx, query, key).Scan(
		&user.Key, &user.Name, &role, &user.CanteenID, &user.OnboardingComplete,
		&budgetRaw, &passRaw, &user.CreatedAt, &user.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", key, err)
	}
	user.Role = models.Role(role)

	if len(budgetRaw) > 0 {
		user.Budget = &models.Budget{}
		if err := json.Unmarshal(budgetRaw, user.Budget); err != nil {
			return nil, fmt.Errorf("failed to decode budget for %s: %w", key, err)
		}
	}
	if len(passRaw) > 0 {
		user.MessPass = &models.MessPass{}
		if err := json.Unmarshal(passRaw, user.MessPass); err != nil {
			return nil, fmt.Errorf("failed to decode mess pass for %s: %w", key, err)
		}
	}
	return &user, nil
}

func (db *PostgresDB) SaveUser(ctx context.Context, user *models.User) error {
	query := `
        INSERT INTO users (user_key, name, role, canteen_id, onboarding_complete, budget, mess_pass)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
        ON CONFLICT (user_key) DO UPDATE
        SET name = $2, role = $3, canteen_id = $4, onboarding_complete = $5,
            budget = $6, mess_pass = $7, updated_at = NOW()
    `

	budgetJSON, err := nullableJSON(user.Budget)
	if err != nil {
		return fmt.Errorf("failed to encode budget: %w", err)
	}
	passJSON, err := nullableJSON(user.MessPass)
	if err != nil {
		return fmt.Errorf("failed to encode mess pass: %w", err)
	}

	_, err = db.pool.Exec(ctx, query,
		user.Key, user.Name, string(user.Role), user.CanteenID, user.OnboardingComplete,
		budgetJSON, passJSON,
	)
	return err
}

func (db *PostgresDB) LoadLoggedMeals(ctx context.Context, key string) ([]models.LoggedMeal, error) {
	query := `
        SELECT id, item, is_manual, logged_at, slot, quantity
        FROM logged_meals
        WHERE user_key = $1
        ORDER BY position
    `

	rows, err := db.pool.Query(ctx, query, key)
	if err != nil {
		return nil, fmt.Errorf("failed to query logged meals: %w", err)
	}
	defer rows.Close()

	var meals []models.LoggedMeal
	for rows.Next() {
		var (
			m       models.LoggedMeal
			itemRaw []byte
		)
		if err := rows.Scan(&m.ID, &itemRaw, &m.IsManual, &m.Timestamp, &m.Slot, &m.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan logged meal: %w", err)
		}
		if err := json.Unmarshal(itemRaw, &m.Item); err != nil {
			return nil, fmt.Errorf("failed to decode logged item %s: %w", m.ID, err)
		}
		meals = append(meals, m)
	}
	return meals, rows.Err()
}

func (db *PostgresDB) SaveLoggedMeals(ctx context.Context, key string, meals []models.LoggedMeal) error {
	query := `
        INSERT INTO logged_meals (user_key, id, position, item, is_manual, logged_at, slot, quantity)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	encoded := make([]string, len(meals))
	for i, m := range meals {
		raw, err := json.Marshal(m.Item)
		if err != nil {
			return fmt.Errorf("failed to encode logged item %s: %w", m.ID, err)
		}
		encoded[i] = string(raw)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, "DELETE FROM logged_meals WHERE user_key = $1", key); err != nil {
		return fmt.Errorf("failed to clear logged meals: %w", err)
	}

	batch := &pgx.Batch{}
	for i, m := range meals {
		batch.Queue(query, key, m.ID, i, encoded[i], m.IsManual, m.Timestamp, m.Slot, m.Quantity)
	}
	if err := execBatch(ctx, tx, batch); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

// replaceAll runs clear and the queued inserts in a single transaction.
func (db *PostgresDB) replaceAll(ctx context.Context, clear string, fill func(*pgx.Batch)) error {
	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, clear); err != nil {
		return fmt.Errorf("failed to clear table: %w", err)
	}

	batch := &pgx.Batch{}
	fill(batch)
	if err := execBatch(ctx, tx, batch); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func execBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch) error {
	if batch.Len() == 0 {
		return nil
	}
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < batch.Len(); i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert row %d: %w", i, err)
		}
	}
	return br.Close()
}

func nullableJSON(v interface{}) (interface{}, error) {
	switch t := v.(type) {
	case *models.Budget:
		if t == nil {
			return nil, nil
		}
	case *models.MessPass:
		if t == nil {
			return nil, nil
		}
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	return string(raw), nil
}
