package db

const schemaSQL = `
CREATE TABLE IF NOT EXISTS menu_items (
    id            TEXT PRIMARY KEY,
    position      INTEGER NOT NULL,
    canteen_id    TEXT NOT NULL,
    name          TEXT NOT NULL,
    price         INTEGER NOT NULL,
    category      TEXT NOT NULL DEFAULT '',
    meal_periods  TEXT[] NOT NULL DEFAULT '{}',
    diet_type     TEXT NOT NULL DEFAULT 'veg',
    is_healthy    BOOLEAN NOT NULL DEFAULT FALSE,
    is_daily      BOOLEAN NOT NULL DEFAULT FALSE,
    rating        DOUBLE PRECISION NOT NULL DEFAULT 0,
    prep_time     TEXT NOT NULL DEFAULT '',
    image         TEXT NOT NULL DEFAULT '',
    description   TEXT NOT NULL DEFAULT '',
    is_available  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS reviews (
    id            TEXT PRIMARY KEY,
    position      INTEGER NOT NULL,
    item_id       TEXT NOT NULL,
    user_id       TEXT NOT NULL DEFAULT '',
    user_name     TEXT NOT NULL DEFAULT '',
    rating        INTEGER NOT NULL,
    comment       TEXT NOT NULL DEFAULT '',
    review_date   TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS users (
    user_key             TEXT PRIMARY KEY,
    name                 TEXT NOT NULL DEFAULT '',
    role                 TEXT NOT NULL DEFAULT 'student',
    canteen_id           TEXT NOT NULL DEFAULT '',
    onboarding_complete  BOOLEAN NOT NULL DEFAULT FALSE,
    budget               JSONB,
    mess_pass            JSONB,
    created_at           TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at           TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS logged_meals (
    user_key      TEXT NOT NULL,
    id            TEXT NOT NULL,
    position      INTEGER NOT NULL,
    item          JSONB NOT NULL,
    is_manual     BOOLEAN NOT NULL DEFAULT FALSE,
    logged_at     TIMESTAMPTZ NOT NULL,
    slot          TEXT NOT NULL DEFAULT '',
    quantity      INTEGER NOT NULL DEFAULT 1,
    PRIMARY KEY (user_key, id)
);

CREATE INDEX IF NOT EXISTS idx_logged_meals_user ON logged_meals(user_key, position);
CREATE INDEX IF NOT EXISTS idx_reviews_item ON reviews(item_id);
`
