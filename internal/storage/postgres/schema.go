package postgres

import "context"

// lat and lng are NULL together: a report either has a coordinate or not.
const schema = `
CREATE TABLE IF NOT EXISTS reports (
	id                 uuid PRIMARY KEY,
	title              text NOT NULL,
	description        text NOT NULL,
	report_type        text NOT NULL,
	media_url          text NOT NULL DEFAULT '',
	live_location_link text NOT NULL DEFAULT '',
	lat                double precision,
	lng                double precision,
	address            text NOT NULL DEFAULT '',
	reported_at        timestamptz NOT NULL,
	CONSTRAINT reports_coordinate_pair CHECK ((lat IS NULL) = (lng IS NULL))
);

CREATE INDEX IF NOT EXISTS reports_reported_at_idx ON reports (reported_at DESC);

CREATE TABLE IF NOT EXISTS resource_requests (
	id          uuid PRIMARY KEY,
	name        text NOT NULL,
	phone       text NOT NULL,
	type        text NOT NULL,
	location    text NOT NULL DEFAULT '',
	info        text NOT NULL DEFAULT '',
	geolocation text NOT NULL DEFAULT '',
	upi         text NOT NULL DEFAULT '',
	created_at  timestamptz NOT NULL
);
`

// Migrate creates the tables if they are missing. It is idempotent.
func Migrate(ctx context.Context, db DB) error {
	_, err := db.Exec(ctx, schema)
	return err
}
