// Package postgis cross-checks the in-process ray caster against PostGIS
// ST_Contains. It is a development aid, not part of the quiz runtime.
package postgis

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/lib/pq"
	"github.com/rotisserie/eris"

	"github.com/kass/africa-quiz/pkg/models"
)

// Checker holds a PostGIS connection with the country boundaries loaded.
type Checker struct {
	db *sql.DB
}

// NewChecker connects to PostGIS.
func NewChecker(host, user, password, dbname string, port int) (*Checker, error) {
	connStr := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=disable",
		host, port, user, password, dbname)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, eris.Wrap(err, "postgis: open database")
	}

	if err := db.Ping(); err != nil {
		return nil, eris.Wrap(err, "postgis: ping database")
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	return &Checker{db: db}, nil
}

// InitSchema recreates the countries table and its spatial index.
func (c *Checker) InitSchema() error {
	queries := []string{
		`CREATE EXTENSION IF NOT EXISTS postgis;`,

		`DROP TABLE IF EXISTS countries;`,

		// ord preserves load order so first-match tie-breaking agrees
		// with the in-process hit test.
		`CREATE TABLE countries (
			ord  INTEGER PRIMARY KEY,
			name TEXT NOT NULL UNIQUE,
			geom GEOMETRY(MULTIPOLYGON, 4326) NOT NULL
		);`,

		`CREATE INDEX idx_countries_geom ON countries USING GIST(geom);`,
	}

	for _, query := range queries {
		if _, err := c.db.Exec(query); err != nil {
			return eris.Wrapf(err, "postgis: execute %q", query)
		}
	}
	return nil
}

// LoadShapes inserts the shape set in load order.
func (c *Checker) LoadShapes(shapes []models.Shape) error {
	stmt, err := c.db.Prepare(`
		INSERT INTO countries (ord, name, geom)
		VALUES ($1, $2, ST_GeomFromText($3, 4326))
	`)
	if err != nil {
		return eris.Wrap(err, "postgis: prepare insert")
	}
	defer stmt.Close()

	tx, err := c.db.Begin()
	if err != nil {
		return eris.Wrap(err, "postgis: begin transaction")
	}
	txStmt := tx.Stmt(stmt)

	for i, shape := range shapes {
		if _, err := txStmt.Exec(i, shape.Name, shapeToWKT(shape)); err != nil {
			tx.Rollback()
			return eris.Wrapf(err, "postgis: insert %s", shape.Name)
		}
	}

	if err := tx.Commit(); err != nil {
		return eris.Wrap(err, "postgis: commit")
	}
	return nil
}

// ContainsPoint returns the first country (in load order) whose boundary
// contains the point, or ok=false for an ocean point.
func (c *Checker) ContainsPoint(lon, lat float64) (string, bool, error) {
	query := `
		SELECT name
		FROM countries
		WHERE ST_Contains(geom, ST_SetSRID(ST_MakePoint($1, $2), 4326))
		ORDER BY ord
		LIMIT 1
	`

	var name string
	err := c.db.QueryRow(query, lon, lat).Scan(&name)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, eris.Wrap(err, "postgis: contains query")
	}
	return name, true, nil
}

// Count returns the number of loaded countries.
func (c *Checker) Count() (int64, error) {
	var count int64
	if err := c.db.QueryRow("SELECT COUNT(*) FROM countries").Scan(&count); err != nil {
		return 0, eris.Wrap(err, "postgis: count countries")
	}
	return count, nil
}

// Close closes the database connection.
func (c *Checker) Close() error {
	return c.db.Close()
}

// shapeToWKT renders a shape as a WKT MULTIPOLYGON, one polygon per ring.
// WKT rings are explicitly closed by repeating the first vertex.
func shapeToWKT(shape models.Shape) string {
	var sb strings.Builder
	sb.WriteString("MULTIPOLYGON(")

	for i, ring := range shape.Rings {
		if i > 0 {
			sb.WriteString(",")
		}
		sb.WriteString("((")
		for j, v := range ring {
			if j > 0 {
				sb.WriteString(",")
			}
			fmt.Fprintf(&sb, "%f %f", v.Lon, v.Lat)
		}
		fmt.Fprintf(&sb, ",%f %f", ring[0].Lon, ring[0].Lat)
		sb.WriteString("))")
	}

	sb.WriteString(")")
	return sb.String()
}
