package config

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/lib/pq"
)

func InitDB() (*sql.DB, error) {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return nil, fmt.Errorf("DATABASE_URL environment variable is required")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)

	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

		`CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			email VARCHAR(255) UNIQUE NOT NULL,
			password_hash VARCHAR(255) NOT NULL,
			name VARCHAR(255) NOT NULL,
			avatar TEXT,
			currency VARCHAR(10) DEFAULT 'USD',
			totp_secret VARCHAR(255),
			totp_enabled BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS sessions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			refresh_token VARCHAR(500) UNIQUE NOT NULL,
			expires_at TIMESTAMP NOT NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS accounts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL CHECK (type IN ('checking', 'savings', 'credit', 'investment', 'cash', 'other')),
			balance DECIMAL(14,2) DEFAULT 0,
			currency VARCHAR(10) DEFAULT 'USD',
			color VARCHAR(20) DEFAULT '#6366f1',
			icon VARCHAR(50) DEFAULT 'Wallet',
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(20) NOT NULL CHECK (type IN ('income', 'expense')),
			color VARCHAR(20) DEFAULT '#6366f1',
			icon VARCHAR(50) DEFAULT 'Tag',
			parent_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS transactions (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			account_id UUID REFERENCES accounts(id) ON DELETE CASCADE,
			category_id UUID REFERENCES categories(id) ON DELETE SET NULL,
			to_account_id UUID REFERENCES accounts(id) ON DELETE SET NULL,
			type VARCHAR(20) NOT NULL CHECK (type IN ('income', 'expense', 'transfer')),
			amount DECIMAL(14,2) NOT NULL CHECK (amount >= 0),
			description TEXT,
			notes TEXT,
			date DATE NOT NULL,
			is_recurring BOOLEAN DEFAULT FALSE,
			recurring_frequency VARCHAR(20) CHECK (recurring_frequency IN ('daily', 'weekly', 'monthly', 'yearly')),
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS budgets (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			category_id UUID REFERENCES categories(id) ON DELETE CASCADE,
			amount DECIMAL(14,2) NOT NULL CHECK (amount > 0),
			period VARCHAR(20) DEFAULT 'monthly' CHECK (period IN ('weekly', 'monthly', 'yearly')),
			start_date DATE DEFAULT NOW(),
			end_date DATE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW(),
			UNIQUE(user_id, category_id)
		)`,

		`CREATE TABLE IF NOT EXISTS goals (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			target_amount DECIMAL(14,2) NOT NULL CHECK (target_amount > 0),
			current_amount DECIMAL(14,2) DEFAULT 0,
			deadline DATE,
			color VARCHAR(20) DEFAULT '#22c55e',
			icon VARCHAR(50) DEFAULT 'Target',
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS debts (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			name VARCHAR(255) NOT NULL,
			type VARCHAR(50) NOT NULL CHECK (type IN ('mortgage', 'car_loan', 'student_loan', 'personal_loan', 'credit_card', 'medical', 'other')),
			original_amount DECIMAL(14,2) NOT NULL CHECK (original_amount >= 0),
			current_balance DECIMAL(14,2) NOT NULL CHECK (current_balance >= 0),
			interest_rate DECIMAL(6,3) DEFAULT 0 CHECK (interest_rate >= 0),
			minimum_payment DECIMAL(14,2) DEFAULT 0 CHECK (minimum_payment >= 0),
			due_day INTEGER CHECK (due_day BETWEEN 1 AND 31),
			start_date DATE NOT NULL,
			end_date DATE,
			lender VARCHAR(255),
			notes TEXT,
			color VARCHAR(20) DEFAULT '#ef4444',
			icon VARCHAR(50) DEFAULT 'CreditCard',
			is_active BOOLEAN DEFAULT TRUE,
			created_at TIMESTAMP DEFAULT NOW(),
			updated_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS debt_payments (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			debt_id UUID REFERENCES debts(id) ON DELETE CASCADE,
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			amount DECIMAL(14,2) NOT NULL CHECK (amount > 0),
			principal_amount DECIMAL(14,2) NOT NULL CHECK (principal_amount > 0),
			interest_amount DECIMAL(14,2) DEFAULT 0 CHECK (interest_amount >= 0),
			payment_date DATE NOT NULL,
			notes TEXT,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS ai_insights (
			id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
			user_id UUID REFERENCES users(id) ON DELETE CASCADE,
			type VARCHAR(20) NOT NULL CHECK (type IN ('anomaly', 'coaching', 'kudo')),
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			category VARCHAR(255),
			amount DECIMAL(14,2),
			date DATE,
			is_dismissed BOOLEAN DEFAULT FALSE,
			created_at TIMESTAMP DEFAULT NOW()
		)`,

		`CREATE INDEX IF NOT EXISTS idx_sessions_user_id ON sessions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_accounts_user_id ON accounts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_categories_user_id ON categories(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_id ON transactions(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_user_date ON transactions(user_id, date)`,
		`CREATE INDEX IF NOT EXISTS idx_transactions_category_id ON transactions(category_id)`,
		`CREATE INDEX IF NOT EXISTS idx_budgets_user_id ON budgets(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_goals_user_id ON goals(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_debts_user_id ON debts(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_debt_payments_debt_id ON debt_payments(debt_id)`,
		`CREATE INDEX IF NOT EXISTS idx_ai_insights_user_id ON ai_insights(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
