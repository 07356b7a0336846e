package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	ldomain "exhibitions/internal/domain/lookups"
)

func InitializeDBSchema(db *sqlx.DB) error {
	ctx := context.Background()

	_, err := db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS users (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name VARCHAR(255) NOT NULL,
	email VARCHAR(255) NOT NULL UNIQUE,
	phone VARCHAR(20),
	password_hash VARCHAR(255) NOT NULL,
	role VARCHAR(32) NOT NULL DEFAULT 'organizer',
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create users table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS locations (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL UNIQUE,
	active BOOLEAN NOT NULL DEFAULT TRUE
);`)
	if err != nil {
		return fmt.Errorf("failed to create locations table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS event_types (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	name VARCHAR(255) NOT NULL,
	slug VARCHAR(255) NOT NULL UNIQUE,
	active BOOLEAN NOT NULL DEFAULT TRUE
);`)
	if err != nil {
		return fmt.Errorf("failed to create event_types table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS exhibitions (
	id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
	title VARCHAR(255) NOT NULL,
	description TEXT,
	date TIMESTAMP WITH TIME ZONE NOT NULL,
	price NUMERIC(10, 2),
	remaining_tickets INTEGER CHECK (remaining_tickets >= 0),
	venue_address TEXT,
	contact_phone VARCHAR(20),
	amenities JSONB,
	event_images JSONB,
	registration_documents JSONB,
	location VARCHAR(255),
	location_id UUID REFERENCES locations (id),
	event_type VARCHAR(255),
	event_type_id UUID REFERENCES event_types (id),
	organizer_id UUID REFERENCES users (id),
	status VARCHAR(32) NOT NULL DEFAULT 'DRAFT',
	terms_accepted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create exhibitions table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS tickets (
	id UUID PRIMARY KEY,
	event_id UUID NOT NULL REFERENCES exhibitions (id),
	buyer_name VARCHAR(255) NOT NULL,
	buyer_phone VARCHAR(20) NOT NULL,
	buyer_email VARCHAR(255),
	quantity INTEGER NOT NULL CHECK (quantity > 0),
	amount NUMERIC(10, 2) NOT NULL,
	status VARCHAR(32) NOT NULL,
	qr_code_url TEXT,
	qr_payload TEXT,
	created_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT now()
);`)
	if err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}

	_, err = db.ExecContext(ctx, `
CREATE TABLE IF NOT EXISTS read_model_ops_bookings (
	booking_id UUID PRIMARY KEY,
	payload JSONB NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create ops bookings read model table: %w", err)
	}

	return seedLookups(ctx, db)
}

var defaultLocations = []string{
	"Mumbai", "Delhi", "Bengaluru", "Hyderabad",
	"Chennai", "Kolkata", "Pune", "Ahmedabad",
}

var defaultEventTypes = []string{
	"Exhibition", "Conference", "Workshop", "Concert",
	"Food & Beverage", "Fashion & Lifestyle", "Art & Culture", "Trade Fair",
}

// seedLookups upserts the default lookup rows so a fresh database is usable
// without a separate bootstrap step.
func seedLookups(ctx context.Context, db *sqlx.DB) error {
	upsert := func(table, name, slug string) error {
		query := fmt.Sprintf(`
		INSERT INTO %s (name, slug, active) VALUES ($1, $2, TRUE)
		ON CONFLICT (slug) DO UPDATE SET name = EXCLUDED.name, active = TRUE`, table)

		_, err := db.ExecContext(ctx, query, name, slug)
		return err
	}

	for _, name := range defaultLocations {
		if err := upsert("locations", name, ldomain.Slugify(name)); err != nil {
			return fmt.Errorf("failed to seed location %q: %w", name, err)
		}
	}
	for _, name := range defaultEventTypes {
		if err := upsert("event_types", name, ldomain.Slugify(name)); err != nil {
			return fmt.Errorf("failed to seed event type %q: %w", name, err)
		}
	}
	return nil
}
