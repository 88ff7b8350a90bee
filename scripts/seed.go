package main

import (
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"flag"
	"io"
	"log"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lib/pq"

	"github.com/clearesthealth/idr-benchmarking/backend/internal/infrastructure/clients/postgres"
	"github.com/clearesthealth/idr-benchmarking/backend/pkg/config"
)

// disputeColumns is the ingest order for idr_disputes. CSV headers are
// normalized (lowercased, spaces to underscores) before matching, so both the
// published PUF header row and a pre-normalized export load cleanly.
var disputeColumns = []string{
	"dispute_number",
	"dli_number",
	"data_quarter",
	"payment_determination_outcome",
	"default_decision",
	"type_of_dispute",
	"dispute_line_item_type",
	"provider_facility_name",
	"provider_facility_group_name",
	"provider_email_domain",
	"practice_facility_size",
	"practice_facility_specialty",
	"health_plan_issuer_name",
	"health_plan_email_domain",
	"health_plan_type",
	"service_code",
	"type_of_service_code",
	"place_of_service_code",
	"item_service_description",
	"location_of_service",
	"provider_offer_pct_qpa",
	"health_plan_offer_pct_qpa",
	"prevailing_party_offer_pct_qpa",
	"length_determination_days",
	"idre_compensation",
	"offer_selected_from",
	"initiating_party",
}

var numericColumns = map[string]bool{
	"provider_offer_pct_qpa":         true,
	"health_plan_offer_pct_qpa":      true,
	"prevailing_party_offer_pct_qpa": true,
	"length_determination_days":      true,
	"idre_compensation":              true,
}

// practiceSizeBuckets are the PUF size labels in ascending order.
var practiceSizeBuckets = []string{
	"Fewer than 20 employees",
	"20-50 employees",
	"51-99 employees",
	"100-499 employees",
	"500 or more employees",
}

var stateNames = map[string]string{
	"AL": "Alabama", "AK": "Alaska", "AZ": "Arizona", "AR": "Arkansas",
	"CA": "California", "CO": "Colorado", "CT": "Connecticut", "DE": "Delaware",
	"DC": "District of Columbia", "FL": "Florida", "GA": "Georgia", "HI": "Hawaii",
	"ID": "Idaho", "IL": "Illinois", "IN": "Indiana", "IA": "Iowa",
	"KS": "Kansas", "KY": "Kentucky", "LA": "Louisiana", "ME": "Maine",
	"MD": "Maryland", "MA": "Massachusetts", "MI": "Michigan", "MN": "Minnesota",
	"MS": "Mississippi", "MO": "Missouri", "MT": "Montana", "NE": "Nebraska",
	"NV": "Nevada", "NH": "New Hampshire", "NJ": "New Jersey", "NM": "New Mexico",
	"NY": "New York", "NC": "North Carolina", "ND": "North Dakota", "OH": "Ohio",
	"OK": "Oklahoma", "OR": "Oregon", "PA": "Pennsylvania", "RI": "Rhode Island",
	"SC": "South Carolina", "SD": "South Dakota", "TN": "Tennessee", "TX": "Texas",
	"UT": "Utah", "VT": "Vermont", "VA": "Virginia", "WA": "Washington",
	"WV": "West Virginia", "WI": "Wisconsin", "WY": "Wyoming",
}

func main() {
	file := flag.String("file", "", "path to a quarterly PUF CSV export")
	quarter := flag.String("quarter", "", "data quarter to stamp on rows missing one, e.g. 2024-Q4")
	flag.Parse()

	if *file == "" {
		log.Fatal("usage: seed -file <puf.csv> [-quarter 2024-Q4]")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pgClient, err := postgres.NewClient(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pgClient.Close()

	ctx := context.Background()
	db := pgClient.DB()

	if os.Getenv("RESET_DB") == "true" {
		log.Println("RESET_DB=true detected, truncating tables before seeding")
		if _, err := db.ExecContext(ctx, `TRUNCATE TABLE idr_disputes, states, practice_sizes RESTART IDENTITY CASCADE`); err != nil {
			log.Fatalf("Failed to reset tables: %v", err)
		}
	}

	f, err := os.Open(*file)
	if err != nil {
		log.Fatalf("Failed to open %s: %v", *file, err)
	}
	defer f.Close()

	rows, states, err := loadDisputes(ctx, db, f, *quarter)
	if err != nil {
		log.Fatalf("Failed to load disputes: %v", err)
	}
	log.Printf("Loaded %d dispute line items", rows)

	if err := seedLookups(ctx, db, states); err != nil {
		log.Fatalf("Failed to seed lookup tables: %v", err)
	}

	log.Println("Seeding completed successfully")
}

// loadDisputes streams the CSV into idr_disputes with COPY. It returns the
// row count and the distinct service states observed.
func loadDisputes(ctx context.Context, db *sql.DB, r io.Reader, quarter string) (int, map[string]bool, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return 0, nil, err
	}
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[normalizeHeader(name)] = i
	}
	if _, ok := index["dispute_number"]; !ok {
		return 0, nil, errMissingDisputeNumber
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return 0, nil, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, pq.CopyIn("idr_disputes", disputeColumns...))
	if err != nil {
		return 0, nil, err
	}

	states := make(map[string]bool)
	count := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return 0, nil, err
		}

		values := make([]interface{}, len(disputeColumns))
		for i, col := range disputeColumns {
			values[i] = cellValue(record, index, col)
		}
		if quarter != "" && values[2] == nil {
			values[2] = quarter
		}
		if state, ok := cellValue(record, index, "location_of_service").(string); ok {
			states[strings.ToUpper(state)] = true
		}

		if _, err := stmt.ExecContext(ctx, values...); err != nil {
			return 0, nil, err
		}
		count++
	}

	// Flush the COPY buffer.
	if _, err := stmt.ExecContext(ctx); err != nil {
		return 0, nil, err
	}
	if err := stmt.Close(); err != nil {
		return 0, nil, err
	}
	if err := tx.Commit(); err != nil {
		return 0, nil, err
	}
	return count, states, nil
}

var errMissingDisputeNumber = errors.New("CSV is missing a dispute_number column")

// cellValue returns the typed value for one column, or nil for blanks so
// they land as SQL NULL.
func cellValue(record []string, index map[string]int, col string) interface{} {
	i, ok := index[col]
	if !ok || i >= len(record) {
		return nil
	}
	raw := strings.TrimSpace(record[i])
	if raw == "" {
		return nil
	}
	switch {
	case numericColumns[col]:
		v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
		if err != nil {
			return nil
		}
		return v
	case col == "default_decision":
		switch strings.ToLower(raw) {
		case "true", "yes", "y", "1":
			return true
		case "false", "no", "n", "0":
			return false
		}
		return nil
	default:
		return raw
	}
}

func normalizeHeader(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}

// seedLookups refreshes the states and practice_sizes reference tables.
func seedLookups(ctx context.Context, db *sql.DB, observedStates map[string]bool) error {
	codes := make([]string, 0, len(observedStates))
	for code := range observedStates {
		if len(code) == 2 {
			codes = append(codes, code)
		}
	}
	sort.Strings(codes)

	for _, code := range codes {
		name, ok := stateNames[code]
		if !ok {
			name = code
		}
		_, err := db.ExecContext(ctx,
			`INSERT INTO states (state_code, state_name) VALUES ($1, $2)
			 ON CONFLICT (state_code) DO NOTHING`,
			code, name,
		)
		if err != nil {
			return err
		}
	}

	for i, label := range practiceSizeBuckets {
		_, err := db.ExecContext(ctx,
			`INSERT INTO practice_sizes (size_label, sort_order) VALUES ($1, $2)
			 ON CONFLICT (size_label) DO UPDATE SET sort_order = EXCLUDED.sort_order`,
			label, i+1,
		)
		if err != nil {
			return err
		}
	}
	return nil
}
